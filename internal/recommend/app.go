// Package recommend wires the state machine, hazard forecast, scarcity
// landmarks, and scorer into one call returning a ranked, bounded
// recommendation list.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/beauBalthazarBruneau/draft-engine/internal/board"
	"github.com/beauBalthazarBruneau/draft-engine/internal/davar"
	"github.com/beauBalthazarBruneau/draft-engine/internal/draft"
	"github.com/beauBalthazarBruneau/draft-engine/internal/hazard"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/scarcity"
)

// Recommend runs the full pipeline for the user's current decision.
// Empty pools degrade to an empty list, never an error.
func Recommend(pool models.Pool, s *models.DraftState, cfg Config) *Output {
	horizon := draft.StepsUntilNextPick(s)
	available := draft.AvailableIDs(pool, s)
	idx := board.NewPositionIndex(pool)

	out := &Output{
		Recommendations: []Recommendation{},
		Horizon:         horizon,
		Drain:           map[models.Position]float64{},
	}
	if len(available) == 0 {
		return out
	}

	forecast := hazard.ForHorizon(pool, s, available, horizon, cfg.Hazard)
	out.Drain = forecast.Drain

	boardOrder := board.BoardOrder(pool, available)
	candidates := candidatePool(pool, available, cfg.CandidatePoolSize)

	// Scarcity landmarks come from the full available pool, not the
	// candidate subset.
	levels := scarcity.Compute(pool, idx, s.Taken, forecast.Drain, cfg.Lineup, s.NumTeams)

	// ADP comparisons run against the pick the user would actually spend:
	// the current pick when the user is on the clock, otherwise their
	// next turn.
	refPick := s.CurrentPick
	if draft.PickOwner(s.CurrentPick, s.NumTeams) != s.UserIndex {
		if next := draft.UserNextPick(s); next != 0 {
			refPick = next
		}
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, id := range candidates {
		p := pool[id]
		surv := forecast.Survival(id)
		comp := davar.Score(p, surv, levels, cfg.Weights)
		recs = append(recs, Recommendation{
			PlayerID:      id,
			Name:          p.Name,
			Position:      p.Position,
			Team:          p.Team,
			BoardPosition: boardOrder[id],
			PPG:           math.Round(p.PPG*10) / 10,
			Survival:      surv,
			SurvivalPct:   fmt.Sprintf("%.0f%%", surv*100),
			AdpTag:        adpTag(refPick, p.ADP),
			Opportunity:   levels.OpportunityCost(p.Position),
			Davar:         comp.Score,
			Components:    comp,
		})
	}

	// Descending by score; explicit tie-break by player ID rather than
	// leaning on sort stability.
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Davar != recs[j].Davar {
			return recs[i].Davar > recs[j].Davar
		}
		return recs[i].PlayerID < recs[j].PlayerID
	})
	if len(recs) > cfg.TopN {
		recs = recs[:cfg.TopN]
	}
	out.Recommendations = recs

	out.Prediction = PredictCurrentPick(pool, s, cfg.Hazard)

	out.Debug = &Debug{
		PoolSize:       len(pool),
		AvailableCount: len(available),
		CandidateCount: len(candidates),
		Levels:         levels,
		Drain:          forecast.Drain,
	}

	log.Debug().
		Int("horizon", horizon).
		Int("available", len(available)).
		Int("candidates", len(candidates)).
		Int("recommendations", len(recs)).
		Msg("recommendation pipeline complete")

	return out
}

// PredictCurrentPick runs the single-pick hazard model for whichever
// team is on the clock right now and takes the highest-probability
// legal player as the point prediction. Nil when the draft is complete
// or the model has no opinion.
func PredictCurrentPick(pool models.Pool, s *models.DraftState, cfg hazard.Config) *PickPrediction {
	if s.IsComplete() {
		return nil
	}
	available := draft.AvailableIDs(pool, s)
	owner := draft.PickOwner(s.CurrentPick, s.NumTeams)
	dist := hazard.ForPick(pool, available, &s.Teams[owner], cfg)
	id, prob, ok := dist.Argmax()
	if !ok {
		return nil
	}
	p := pool[id]
	return &PickPrediction{
		PlayerID:    id,
		Name:        p.Name,
		Position:    p.Position,
		TeamIndex:   owner,
		Probability: prob,
	}
}

// candidatePool selects the subset of available players worth scoring:
// the top candidateSize by raw ppg.
func candidatePool(pool models.Pool, available []int, candidateSize int) []int {
	sorted := make([]int, len(available))
	copy(sorted, available)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := pool[sorted[i]], pool[sorted[j]]
		if a.PPG != b.PPG {
			return a.PPG > b.PPG
		}
		return sorted[i] < sorted[j]
	})
	if len(sorted) > candidateSize {
		sorted = sorted[:candidateSize]
	}
	return sorted
}

// adpTag compares the external market's timing for a player against the
// pick the user is deciding for.
func adpTag(referencePick int, adp *float64) string {
	if adp == nil {
		return "N/A"
	}
	diff := int(math.Round(float64(referencePick) - *adp))
	switch {
	case diff > 0:
		return fmt.Sprintf("value +%d", diff)
	case diff < 0:
		return fmt.Sprintf("reach %d", -diff)
	default:
		return "at ADP"
	}
}
