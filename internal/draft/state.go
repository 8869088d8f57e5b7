// Package draft owns the snake-draft turn-order state machine: pick
// ownership, roster-need accounting, and the single state-mutating
// operation ApplyPick.
package draft

import (
	"fmt"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// PickOwner resolves which team index owns an overall pick number in a
// snake draft. Odd rounds run left to right, even rounds reverse.
// Total for every pick >= 1.
func PickOwner(pick, numTeams int) int {
	round := (pick-1)/numTeams + 1
	posInRound := (pick - 1) % numTeams
	if round%2 == 0 {
		return numTeams - 1 - posInRound
	}
	return posInRound
}

// StepsUntilNextPick counts how many picks by other teams happen before
// the user's next turn. The user's own current turn does not count: if
// the user is on the clock, counting starts at the following pick.
func StepsUntilNextPick(s *models.DraftState) int {
	start := s.CurrentPick
	if PickOwner(start, s.NumTeams) == s.UserIndex {
		start++
	}
	steps := 0
	for p := start; p <= s.TotalPicks(); p++ {
		if PickOwner(p, s.NumTeams) == s.UserIndex {
			return steps
		}
		steps++
	}
	// No future user pick; every remaining pick belongs to others.
	return steps
}

// UserNextPick returns the overall pick number of the user's next turn,
// or 0 if the user never picks again.
func UserNextPick(s *models.DraftState) int {
	start := s.CurrentPick
	if PickOwner(start, s.NumTeams) == s.UserIndex {
		start++
	}
	for p := start; p <= s.TotalPicks(); p++ {
		if PickOwner(p, s.NumTeams) == s.UserIndex {
			return p
		}
	}
	return 0
}

// AvailableIDs returns the IDs from pool that are not yet taken.
func AvailableIDs(pool models.Pool, s *models.DraftState) []int {
	ids := make([]int, 0, len(pool))
	for id := range pool {
		if _, taken := s.Taken[id]; !taken {
			ids = append(ids, id)
		}
	}
	return ids
}

// CanDraft reports whether a team may legally select a player at pos:
// either the direct counter is open, or the position is flex-eligible
// and the flex counter is open.
func CanDraft(team *models.TeamState, pos models.Position) bool {
	if team.Needs.Slots[pos] > 0 {
		return true
	}
	return pos.FlexEligible() && team.Needs.Flex > 0
}

// addPlayer decrements the direct counter for pos, falling back to flex
// for eligible positions. No-op when nothing is open; ApplyPick checks
// CanDraft first so that branch is unreachable in practice.
func addPlayer(team *models.TeamState, pos models.Position) {
	if team.Needs.Slots[pos] > 0 {
		team.Needs.Slots[pos]--
		return
	}
	if pos.FlexEligible() && team.Needs.Flex > 0 {
		team.Needs.Flex--
	}
}

// ApplyPick validates and applies the pick of playerID at the current
// pick number. Validation failures leave the state untouched and return
// an error wrapping one of the package sentinels. On success the taken
// set, the owning team's picks and needs, and the pick counter all
// advance together.
func ApplyPick(pool models.Pool, s *models.DraftState, playerID int) (*models.PickResult, error) {
	if s.IsComplete() {
		return nil, ErrDraftComplete
	}

	p, ok := pool[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
	}
	if _, taken := s.Taken[playerID]; taken {
		return nil, fmt.Errorf("player %s: %w", p.Name, ErrAlreadyDrafted)
	}
	if !p.Position.Valid() {
		return nil, fmt.Errorf("player %s position %q: %w", p.Name, p.Position, ErrInvalidPosition)
	}

	owner := PickOwner(s.CurrentPick, s.NumTeams)
	team := &s.Teams[owner]
	if !CanDraft(team, p.Position) {
		return nil, fmt.Errorf("team %d cannot draft %s: %w", owner, p.Position, ErrRosterFull)
	}

	consumed := s.CurrentPick
	s.Taken[playerID] = struct{}{}
	team.Picks = append(team.Picks, playerID)
	addPlayer(team, p.Position)
	s.CurrentPick++

	return &models.PickResult{
		PlayerID:    playerID,
		PlayerName:  p.Name,
		Position:    p.Position,
		TeamIndex:   owner,
		OverallPick: consumed,
		Round:       (consumed-1)/s.NumTeams + 1,
	}, nil
}
