// Package scarcity computes the per-position value landscape: the best
// player available now, the best expected to remain after the forecast
// drain, and the replacement level the league's starters sit above.
package scarcity

import (
	"math"

	"github.com/beauBalthazarBruneau/draft-engine/internal/board"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

const (
	// bestNextFloor stands in when a position has no available players
	// left to project forward.
	bestNextFloor = 7.0
	// replacementFloor stands in when a position is empty entirely.
	replacementFloor = 6.0
	// flexShare divides flex capacity evenly across the flex-eligible
	// positions. A coarse heuristic; a usage-weighted split would be a
	// local change here.
	flexShare = 3
)

// Levels holds the per-position scoring landmarks the scorer consumes.
type Levels struct {
	BestNow        map[models.Position]float64 `json:"best_now"`
	BestNext       map[models.Position]float64 `json:"best_next"`
	ReplacementPpg map[models.Position]float64 `json:"replacement_ppg"`
}

// Compute derives all three landmarks from the available pool. drain is
// the forecast's expected per-position consumption before the user's
// next turn; lineup and numTeams size the replacement boundary.
func Compute(pool models.Pool, idx board.PositionIndex, taken map[int]struct{}, drain map[models.Position]float64, lineup models.LineupTemplate, numTeams int) *Levels {
	l := &Levels{
		BestNow:        make(map[models.Position]float64, len(models.Positions)),
		BestNext:       make(map[models.Position]float64, len(models.Positions)),
		ReplacementPpg: make(map[models.Position]float64, len(models.Positions)),
	}
	for _, pos := range models.Positions {
		avail := idx.Available(pos, taken)
		l.BestNow[pos] = bestNow(pool, avail)
		l.BestNext[pos] = expectedBestNext(pool, avail, drain[pos])
		l.ReplacementPpg[pos] = replacementPpg(pool, avail, replacementIndex(pos, lineup, numTeams))
	}
	return l
}

func bestNow(pool models.Pool, avail []int) float64 {
	if len(avail) == 0 {
		return bestNextFloor
	}
	return pool[avail[0]].PPG
}

// expectedBestNext is the ppg of the player floor(drain) slots down the
// available list: who is likely left at the position once the expected
// number of players are gone.
func expectedBestNext(pool models.Pool, avail []int, drain float64) float64 {
	if len(avail) == 0 {
		return bestNextFloor
	}
	shift := int(math.Floor(drain))
	if shift < 0 {
		shift = 0
	}
	if shift > len(avail)-1 {
		shift = len(avail) - 1
	}
	return pool[avail[shift]].PPG
}

// replacementIndex is the rank boundary below all expected starters
// league-wide at pos, with flex capacity split evenly across the
// flex-eligible positions.
func replacementIndex(pos models.Position, lineup models.LineupTemplate, numTeams int) int {
	starters := numTeams * lineup.Starters(pos)
	flex := 0
	if pos.FlexEligible() {
		flex = numTeams * lineup.Flex / flexShare
	}
	return starters + flex
}

// replacementPpg reads the available player at 1-based rank
// max(1, index), clamped to the worst available player.
func replacementPpg(pool models.Pool, avail []int, index int) float64 {
	if len(avail) == 0 {
		return replacementFloor
	}
	rank := index
	if rank < 1 {
		rank = 1
	}
	if rank > len(avail) {
		rank = len(avail)
	}
	return pool[avail[rank-1]].PPG
}

// OpportunityCost is the ppg drop-off a position is about to suffer if
// the user waits through the horizon.
func (l *Levels) OpportunityCost(pos models.Position) float64 {
	return math.Max(0, l.BestNow[pos]-l.BestNext[pos])
}

// MaxHedgeLoss is the steepest opportunity cost across every position
// other than the candidate's: the single worst cost of not addressing
// scarcity elsewhere right now.
func (l *Levels) MaxHedgeLoss(exclude models.Position) float64 {
	worst := 0.0
	for _, pos := range models.Positions {
		if pos == exclude {
			continue
		}
		if c := l.OpportunityCost(pos); c > worst {
			worst = c
		}
	}
	return worst
}
