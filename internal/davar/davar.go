// Package davar implements the composite ranking score: value above
// replacement adjusted for survival risk and cross-position hedge loss.
// All terms are denominated in ppg, so scores compare directly across
// positions.
package davar

import (
	"math"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/scarcity"
)

// Weights are the tunable coefficients of the scorer.
type Weights struct {
	// Alpha weighs the wait-cost term: losing the player before the
	// user's next turn.
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// Beta weighs the cross-position hedge loss.
	Beta float64 `json:"beta" yaml:"beta"`
	// RiskPenalty is a flat deduction, off by default.
	RiskPenalty float64 `json:"risk_penalty" yaml:"risk_penalty"`
}

// DefaultWeights returns the tuned defaults.
func DefaultWeights() Weights {
	return Weights{Alpha: 0.9, Beta: 0.8, RiskPenalty: 0}
}

// Components is the per-term breakdown of one score, kept for the debug
// bundle.
type Components struct {
	Base      float64 `json:"base"`
	DropNext  float64 `json:"drop_next"`
	DeltaPos  float64 `json:"delta_pos"`
	HedgeLoss float64 `json:"hedge_loss"`
	Score     float64 `json:"score"`
}

// Score computes the DAVAR score for one candidate with precomputed
// survival probability.
//
//	base      rewards raw value over the replacement level at pos
//	deltaPos  penalizes waiting on a player who is both good and likely
//	          to be gone before the user's next turn
//	hedgeLoss penalizes ignoring whichever other position is about to
//	          suffer the steepest drop-off
func Score(p *models.Player, survival float64, levels *scarcity.Levels, w Weights) Components {
	pos := p.Position
	base := p.PPG - levels.ReplacementPpg[pos]
	dropNext := math.Max(0, p.PPG-levels.BestNext[pos])
	deltaPos := (1 - survival) * dropNext
	hedgeLoss := levels.MaxHedgeLoss(pos)

	return Components{
		Base:      base,
		DropNext:  dropNext,
		DeltaPos:  deltaPos,
		HedgeLoss: hedgeLoss,
		Score:     base + w.Alpha*deltaPos - w.Beta*hedgeLoss - w.RiskPenalty,
	}
}
