package hazard

import (
	"github.com/beauBalthazarBruneau/draft-engine/internal/draft"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// Forecast is the result of chaining the pick model across a horizon of
// future picks: one distribution per step plus the expected number of
// players drained from each position.
type Forecast struct {
	Steps []Distribution
	Drain map[models.Position]float64
}

// ForHorizon resolves the owner of each of the next `horizon` picks and
// computes one hazard distribution per step. The attention window widens
// by floor(step/6) as the horizon deepens, since later picks are harder
// to call.
//
// Each step draws from the same available pool: players are not removed
// between hypothetical picks. That independence approximation trades a
// little accuracy for one sort per forecast instead of one per step.
func ForHorizon(pool models.Pool, s *models.DraftState, available []int, horizon int, cfg Config) *Forecast {
	f := &Forecast{
		Steps: make([]Distribution, 0, horizon),
		Drain: make(map[models.Position]float64, len(models.Positions)),
	}
	for step := 0; step < horizon; step++ {
		pick := s.CurrentPick + step
		if pick > s.TotalPicks() {
			break
		}
		owner := draft.PickOwner(pick, s.NumTeams)
		team := &s.Teams[owner]

		stepCfg := cfg
		stepCfg.Window = cfg.Window + step/6
		dist := ForPick(pool, available, team, stepCfg)
		f.Steps = append(f.Steps, dist)

		for id, p := range dist {
			f.Drain[pool[id].Position] += p
		}
	}
	return f
}

// Survival is the probability the player is still available after every
// step in the forecast, under independence across picks. Always in
// [0,1] and non-increasing as the horizon grows.
func (f *Forecast) Survival(playerID int) float64 {
	s := 1.0
	for _, dist := range f.Steps {
		s *= 1 - dist[playerID]
	}
	if s < 0 {
		return 0
	}
	return s
}
