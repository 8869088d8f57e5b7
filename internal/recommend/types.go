package recommend

import (
	"github.com/beauBalthazarBruneau/draft-engine/internal/davar"
	"github.com/beauBalthazarBruneau/draft-engine/internal/hazard"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/scarcity"
)

// Config bundles every tunable of the recommendation pipeline.
type Config struct {
	// TopN bounds the returned recommendation list.
	TopN int `json:"top_n" yaml:"top_n"`
	// CandidatePoolSize bounds how many available players, by raw ppg,
	// get survival probabilities and scores.
	CandidatePoolSize int                   `json:"candidate_pool_size" yaml:"candidate_pool_size"`
	Weights           davar.Weights         `json:"weights" yaml:"weights"`
	Hazard            hazard.Config         `json:"hazard" yaml:"hazard"`
	Lineup            models.LineupTemplate `json:"lineup" yaml:"lineup"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		TopN:              12,
		CandidatePoolSize: 60,
		Weights:           davar.DefaultWeights(),
		Hazard:            hazard.DefaultConfig(),
		Lineup:            models.DefaultLineupTemplate(),
	}
}

// Recommendation is one ranked candidate for the user's current
// decision.
type Recommendation struct {
	PlayerID      int              `json:"player_id"`
	Name          string           `json:"name"`
	Position      models.Position  `json:"position"`
	Team          string           `json:"team,omitempty"`
	BoardPosition int              `json:"board_position"`
	PPG           float64          `json:"ppg"`
	Survival      float64          `json:"survival"`
	SurvivalPct   string           `json:"survival_pct"`
	AdpTag        string           `json:"adp_tag"`
	Opportunity   float64          `json:"opportunity_cost"`
	Davar         float64          `json:"davar"`
	Components    davar.Components `json:"components"`
}

// PickPrediction is the point prediction for whichever team is on the
// clock right now.
type PickPrediction struct {
	PlayerID    int             `json:"player_id"`
	Name        string          `json:"name"`
	Position    models.Position `json:"position"`
	TeamIndex   int             `json:"team_index"`
	Probability float64         `json:"probability"`
}

// Debug carries the intermediate values the pipeline worked from.
type Debug struct {
	PoolSize       int                         `json:"pool_size"`
	AvailableCount int                         `json:"available_count"`
	CandidateCount int                         `json:"candidate_count"`
	Levels         *scarcity.Levels            `json:"levels"`
	Drain          map[models.Position]float64 `json:"drain"`
}

// Output is the full result of one recommendation call.
type Output struct {
	Recommendations []Recommendation            `json:"recommendations"`
	Horizon         int                         `json:"horizon"`
	Drain           map[models.Position]float64 `json:"drain"`
	Prediction      *PickPrediction             `json:"prediction,omitempty"`
	Debug           *Debug                      `json:"debug,omitempty"`
}
