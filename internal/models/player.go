package models

// Position defines the roster position of a player.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// Positions lists every recognized position in a stable order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// FlexEligible lists the positions that may occupy a flex slot.
var FlexEligible = []Position{PositionRB, PositionWR, PositionTE}

// Valid reports whether p is a member of the position enum.
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// FlexEligible reports whether p may fill a flex slot.
func (p Position) FlexEligible() bool {
	switch p {
	case PositionRB, PositionWR, PositionTE:
		return true
	}
	return false
}

// Player is an immutable fact record for one draft session. Drafted
// status is tracked on DraftState, never on the player itself.
type Player struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Team         string   `json:"team,omitempty"`
	PPG          float64  `json:"ppg"`
	ADP          *float64 `json:"adp,omitempty"`
	GlobalRank   *int     `json:"global_rank,omitempty"`
	PlatformRank *int     `json:"platform_rank,omitempty"`
}

// Pool is the session's player collection keyed by player ID.
type Pool map[int]*Player
