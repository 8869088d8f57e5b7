package draft

import "errors"

// Pick validation failures. ApplyPick wraps these with context; callers
// categorize with errors.Is.
var (
	// ErrPlayerNotFound is returned when the player ID is not in the pool.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrAlreadyDrafted is returned when the player is already taken.
	ErrAlreadyDrafted = errors.New("player already drafted")

	// ErrInvalidPosition is returned when the player's position is not a
	// recognized enum value.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrRosterFull is returned when the on-clock team has no open slot
	// for the player's position.
	ErrRosterFull = errors.New("roster full for position")

	// ErrDraftComplete is returned when every pick has been consumed.
	ErrDraftComplete = errors.New("draft complete")
)
