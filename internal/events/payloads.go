// Package events defines the domain events emitted over the websocket
// feed and the message bus.
package events

import (
	"time"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// Event types.
const (
	TypeDraftStarted   = "draft_started"
	TypePickMade       = "pick_made"
	TypeDraftCompleted = "draft_completed"
)

// DraftStartedPayload is emitted when a session is created.
type DraftStartedPayload struct {
	SessionID   string    `json:"session_id"`
	NumTeams    int       `json:"num_teams"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
	StartedAt   time.Time `json:"started_at"`
}

// PickMadePayload is emitted after every successful pick.
type PickMadePayload struct {
	SessionID   string          `json:"session_id"`
	PlayerID    int             `json:"player_id"`
	PlayerName  string          `json:"player_name"`
	Position    models.Position `json:"position"`
	TeamIndex   int             `json:"team_index"`
	Round       int             `json:"round"`
	OverallPick int             `json:"overall_pick"`
	MadeAt      time.Time       `json:"made_at"`
}

// DraftCompletedPayload is emitted when the final pick is applied.
type DraftCompletedPayload struct {
	SessionID   string    `json:"session_id"`
	TotalPicks  int       `json:"total_picks"`
	CompletedAt time.Time `json:"completed_at"`
}
