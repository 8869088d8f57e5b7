// Package board derives read-side orderings of the player pool: the
// ppg position index behind every best-now / replacement lookup, the
// rank-signal cascade the hazard model consumes, and the display board
// order.
package board

import (
	"sort"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// rankSentinel sorts players with no signal behind everyone who has one.
const rankSentinel = 1e9

// PositionIndex maps each position to player IDs sorted descending by
// ppg. The sorted order is a pure function of the static pool and never
// changes during a session; availability is applied by filtering.
type PositionIndex map[models.Position][]int

// NewPositionIndex builds the index over the full pool.
func NewPositionIndex(pool models.Pool) PositionIndex {
	idx := make(PositionIndex, len(models.Positions))
	for id, p := range pool {
		idx[p.Position] = append(idx[p.Position], id)
	}
	for pos, ids := range idx {
		sort.Slice(ids, func(i, j int) bool {
			a, b := pool[ids[i]], pool[ids[j]]
			if a.PPG != b.PPG {
				return a.PPG > b.PPG
			}
			return a.ID < b.ID
		})
		idx[pos] = ids
	}
	return idx
}

// Available filters the index entry for pos down to untaken players,
// preserving the ppg order.
func (idx PositionIndex) Available(pos models.Position, taken map[int]struct{}) []int {
	src := idx[pos]
	out := make([]int, 0, len(src))
	for _, id := range src {
		if _, gone := taken[id]; !gone {
			out = append(out, id)
		}
	}
	return out
}

// RankSignal is one accessor in the cascade. It returns the signal
// value for a player and whether the player defines it.
type RankSignal func(*models.Player) (float64, bool)

func platformRank(p *models.Player) (float64, bool) {
	if p.PlatformRank == nil {
		return 0, false
	}
	return float64(*p.PlatformRank), true
}

func globalRank(p *models.Player) (float64, bool) {
	if p.GlobalRank == nil {
		return 0, false
	}
	return float64(*p.GlobalRank), true
}

func adp(p *models.Player) (float64, bool) {
	if p.ADP == nil {
		return 0, false
	}
	return *p.ADP, true
}

// signalCascade is the fallback order: platform rank, then global rank,
// then ADP.
var signalCascade = []RankSignal{platformRank, globalRank, adp}

// SelectRankSignal picks the first signal in the cascade that any of the
// given players defines. Falls back to ADP when nothing is defined so
// callers always get a total (if sentinel-heavy) ordering.
func SelectRankSignal(pool models.Pool, ids []int) RankSignal {
	for _, sig := range signalCascade {
		for _, id := range ids {
			if _, ok := sig(pool[id]); ok {
				return sig
			}
		}
	}
	return adp
}

// RankValue evaluates sig for a player, substituting the sentinel when
// the player does not define the signal.
func RankValue(sig RankSignal, p *models.Player) float64 {
	if v, ok := sig(p); ok {
		return v
	}
	return rankSentinel
}

// SortByRank returns ids sorted ascending by sig (lower = better), ties
// broken by player ID for determinism.
func SortByRank(pool models.Pool, ids []int, sig RankSignal) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		a, b := RankValue(sig, pool[out[i]]), RankValue(sig, pool[out[j]])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// boardValue is the display ordering key: per-player platform rank,
// falling back to global rank, then ADP, then the sentinel. Display
// only; scoring never reads it.
func boardValue(p *models.Player) float64 {
	for _, sig := range signalCascade {
		if v, ok := sig(p); ok {
			return v
		}
	}
	return rankSentinel
}

// BoardOrder returns a map from player ID to 1-based board position over
// the given players.
func BoardOrder(pool models.Pool, ids []int) map[int]int {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := boardValue(pool[sorted[i]]), boardValue(pool[sorted[j]])
		if a != b {
			return a < b
		}
		return sorted[i] < sorted[j]
	})
	order := make(map[int]int, len(sorted))
	for i, id := range sorted {
		order[id] = i + 1
	}
	return order
}
