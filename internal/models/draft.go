package models

// DraftStatus defines the lifecycle phase of a draft session.
type DraftStatus string

const (
	DraftStatusPreDraft   DraftStatus = "PRE_DRAFT"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
)

// LineupTemplate holds the starting-slot requirements every team begins
// the draft with.
type LineupTemplate struct {
	QB   int `json:"qb" yaml:"qb"`
	RB   int `json:"rb" yaml:"rb"`
	WR   int `json:"wr" yaml:"wr"`
	TE   int `json:"te" yaml:"te"`
	Flex int `json:"flex" yaml:"flex"`
}

// DefaultLineupTemplate is the standard single-QB lineup.
func DefaultLineupTemplate() LineupTemplate {
	return LineupTemplate{QB: 1, RB: 2, WR: 2, TE: 1, Flex: 1}
}

// Starters returns the direct starting-slot count for pos.
func (t LineupTemplate) Starters(pos Position) int {
	switch pos {
	case PositionQB:
		return t.QB
	case PositionRB:
		return t.RB
	case PositionWR:
		return t.WR
	case PositionTE:
		return t.TE
	}
	return 0
}

// RosterNeeds tracks the remaining slots a team must fill. All counters
// stay >= 0; a zero counter means that slot is full for direct
// assignment (flex may still accept eligible positions).
type RosterNeeds struct {
	Slots map[Position]int `json:"slots"`
	Flex  int              `json:"flex"`
}

// NewRosterNeeds initializes needs from a lineup template.
func NewRosterNeeds(t LineupTemplate) RosterNeeds {
	return RosterNeeds{
		Slots: map[Position]int{
			PositionQB: t.QB,
			PositionRB: t.RB,
			PositionWR: t.WR,
			PositionTE: t.TE,
		},
		Flex: t.Flex,
	}
}

// Clone returns a deep copy of the needs record.
func (n RosterNeeds) Clone() RosterNeeds {
	slots := make(map[Position]int, len(n.Slots))
	for pos, c := range n.Slots {
		slots[pos] = c
	}
	return RosterNeeds{Slots: slots, Flex: n.Flex}
}

// TeamState is one drafting entity: the players it has selected, in
// pick order, plus its remaining roster needs.
type TeamState struct {
	Picks []int       `json:"picks"`
	Needs RosterNeeds `json:"needs"`
}

// DraftState is the aggregate root for one draft session. It is mutated
// exclusively through draft.ApplyPick; everything else reads it.
type DraftState struct {
	NumTeams    int              `json:"num_teams"`
	Rounds      int              `json:"rounds"`
	UserIndex   int              `json:"user_index"`
	CurrentPick int              `json:"current_pick"`
	Taken       map[int]struct{} `json:"-"`
	Teams       []TeamState      `json:"teams"`
}

// NewDraftState creates a pre-draft state with every team initialized
// from the lineup template.
func NewDraftState(numTeams, rounds, userIndex int, lineup LineupTemplate) *DraftState {
	teams := make([]TeamState, numTeams)
	for i := range teams {
		teams[i] = TeamState{
			Picks: []int{},
			Needs: NewRosterNeeds(lineup),
		}
	}
	return &DraftState{
		NumTeams:    numTeams,
		Rounds:      rounds,
		UserIndex:   userIndex,
		CurrentPick: 1,
		Taken:       make(map[int]struct{}),
		Teams:       teams,
	}
}

// Clone returns a deep copy of the state: the teams, their picks and
// needs, and the taken set share nothing with the receiver.
func (s *DraftState) Clone() DraftState {
	teams := make([]TeamState, len(s.Teams))
	for i, t := range s.Teams {
		picks := make([]int, len(t.Picks))
		copy(picks, t.Picks)
		teams[i] = TeamState{Picks: picks, Needs: t.Needs.Clone()}
	}
	taken := make(map[int]struct{}, len(s.Taken))
	for id := range s.Taken {
		taken[id] = struct{}{}
	}
	out := *s
	out.Teams = teams
	out.Taken = taken
	return out
}

// TotalPicks is the number of picks in the whole draft.
func (s *DraftState) TotalPicks() int {
	return s.NumTeams * s.Rounds
}

// IsComplete reports whether every pick has been consumed.
func (s *DraftState) IsComplete() bool {
	return s.CurrentPick > s.TotalPicks()
}

// Status derives the lifecycle phase from the pick counter.
func (s *DraftState) Status() DraftStatus {
	switch {
	case s.IsComplete():
		return DraftStatusCompleted
	case s.CurrentPick == 1 && len(s.Taken) == 0:
		return DraftStatusPreDraft
	default:
		return DraftStatusInProgress
	}
}

// PickResult is the metadata returned after a successful pick.
type PickResult struct {
	PlayerID    int      `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	Position    Position `json:"position"`
	TeamIndex   int      `json:"team_index"`
	OverallPick int      `json:"overall_pick"`
	Round       int      `json:"round"`
}
