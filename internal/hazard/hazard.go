// Package hazard models how other drafters behave: a per-pick
// probability distribution over which legal player a team will select,
// and the multi-pick survival forecast chained from it.
package hazard

import (
	"math"

	"github.com/beauBalthazarBruneau/draft-engine/internal/board"
	"github.com/beauBalthazarBruneau/draft-engine/internal/draft"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// Config holds the tunable parameters of the pick-probability model.
type Config struct {
	// Window is the attention window: how many top-ranked players the
	// average drafter actually weighs.
	Window int `json:"window" yaml:"window"`
	// TailSize is how many players just off the radar share the leaky
	// tail mass.
	TailSize int `json:"tail_size" yaml:"tail_size"`
	// Sharpness is the softmax temperature over the main window.
	Sharpness float64 `json:"sharpness" yaml:"sharpness"`
	// TailSharpness is the gentler temperature over the tail.
	TailSharpness float64 `json:"tail_sharpness" yaml:"tail_sharpness"`
	// TailWeight is the probability mass reserved for surprise picks.
	TailWeight float64 `json:"tail_weight" yaml:"tail_weight"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Window:        10,
		TailSize:      5,
		Sharpness:     0.4,
		TailSharpness: 0.10,
		TailWeight:    0.10,
	}
}

// Distribution maps player ID to pick probability for one hypothetical
// pick. An empty distribution means the model has no opinion; callers
// must not treat it as a failure.
type Distribution map[int]float64

// softmax assigns exp(-sharpness*rank) weights over the given ids,
// normalized to sum to 1. Ranks are shifted by their minimum before
// exponentiation for numeric stability; softmax is shift-invariant.
func softmax(pool models.Pool, ids []int, sig board.RankSignal, sharpness float64) Distribution {
	if len(ids) == 0 {
		return Distribution{}
	}
	minRank := math.Inf(1)
	for _, id := range ids {
		if v := board.RankValue(sig, pool[id]); v < minRank {
			minRank = v
		}
	}
	weights := make(Distribution, len(ids))
	var total float64
	for _, id := range ids {
		w := math.Exp(-sharpness * (board.RankValue(sig, pool[id]) - minRank))
		weights[id] = w
		total += w
	}
	for id := range weights {
		weights[id] /= total
	}
	return weights
}

// ForPick estimates the pick distribution for one upcoming pick by the
// given team over the available players. The model blends a sharp
// softmax over the attention window with a gentle tail just outside it,
// removes players the team cannot legally draft, and renormalizes.
// When no legal player falls inside the window it retries with
// progressively wider windows, then falls back to the single
// best-ranked legal player, then to an empty distribution.
func ForPick(pool models.Pool, available []int, team *models.TeamState, cfg Config) Distribution {
	if len(available) == 0 {
		return Distribution{}
	}

	sig := board.SelectRankSignal(pool, available)
	ranked := board.SortByRank(pool, available, sig)

	for _, window := range widenings(cfg.Window, len(ranked)) {
		if dist := attempt(pool, ranked, team, sig, window, cfg); len(dist) > 0 {
			return dist
		}
	}

	// Best-ranked legal player takes all the mass.
	for _, id := range ranked {
		if draft.CanDraft(team, pool[id].Position) {
			return Distribution{id: 1}
		}
	}
	return Distribution{}
}

// widenings yields the window progression: N, max(N,15), max(N,25), all.
func widenings(window, total int) []int {
	var out []int
	last := 0
	for _, n := range []int{window, max(window, 15), max(window, 25), total} {
		n = min(n, total)
		if n > last {
			out = append(out, n)
			last = n
		}
	}
	return out
}

// attempt runs one window + tail pass. Returns an empty distribution
// when every candidate inside the window and tail is illegal.
func attempt(pool models.Pool, ranked []int, team *models.TeamState, sig board.RankSignal, window int, cfg Config) Distribution {
	head := ranked[:window]
	tailEnd := min(window+cfg.TailSize, len(ranked))
	tail := ranked[window:tailEnd]

	main := softmax(pool, head, sig, cfg.Sharpness)
	dist := make(Distribution, len(head)+len(tail))

	if len(tail) == 0 {
		for id, w := range main {
			dist[id] = w
		}
	} else {
		leak := softmax(pool, tail, sig, cfg.TailSharpness)
		for id, w := range main {
			dist[id] = (1 - cfg.TailWeight) * w
		}
		for id, w := range leak {
			dist[id] = cfg.TailWeight * w
		}
	}

	// Zero out positions the team cannot legally draft, then
	// renormalize what survives.
	var total float64
	for id := range dist {
		if !draft.CanDraft(team, pool[id].Position) {
			delete(dist, id)
			continue
		}
		total += dist[id]
	}
	if total == 0 {
		return Distribution{}
	}
	for id := range dist {
		dist[id] /= total
	}
	return dist
}

// Argmax returns the highest-probability player in the distribution,
// ties broken by lower player ID. ok is false for an empty distribution.
func (d Distribution) Argmax() (playerID int, prob float64, ok bool) {
	best := -1
	var bestP float64
	for id, p := range d {
		if p > bestP || (p == bestP && best != -1 && id < best) {
			best, bestP = id, p
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return best, bestP, true
}
