package hazard

import (
	"math"
	"testing"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

// poolOf builds n players at alternating positions with ADP equal to
// their ID, so rank order matches ID order.
func poolOf(n int) models.Pool {
	positions := []models.Position{
		models.PositionRB, models.PositionWR, models.PositionQB, models.PositionTE,
	}
	pool := make(models.Pool, n)
	for i := 1; i <= n; i++ {
		pool[i] = &models.Player{
			ID:       i,
			Name:     "Player " + string(rune('A'+i%26)),
			Position: positions[i%len(positions)],
			PPG:      25 - float64(i)*0.3,
			ADP:      floatPtr(float64(i)),
		}
	}
	return pool
}

func freshTeam() *models.TeamState {
	return &models.TeamState{Needs: models.NewRosterNeeds(models.DefaultLineupTemplate())}
}

func ids(pool models.Pool) []int {
	out := make([]int, 0, len(pool))
	for id := range pool {
		out = append(out, id)
	}
	return out
}

func sum(d Distribution) float64 {
	var s float64
	for _, p := range d {
		s += p
	}
	return s
}

func TestForPickSumsToOne(t *testing.T) {
	pool := poolOf(40)
	dist := ForPick(pool, ids(pool), freshTeam(), DefaultConfig())

	if len(dist) == 0 {
		t.Fatal("expected a non-empty distribution")
	}
	if got := sum(dist); math.Abs(got-1) > 1e-9 {
		t.Fatalf("distribution sums to %v want 1", got)
	}
	for id, p := range dist {
		if p < 0 || p > 1 {
			t.Fatalf("probability for %d out of range: %v", id, p)
		}
	}
}

func TestForPickBetterRankMoreMass(t *testing.T) {
	pool := poolOf(40)
	dist := ForPick(pool, ids(pool), freshTeam(), DefaultConfig())

	if dist[1] <= dist[2] {
		t.Fatalf("rank 1 mass %v should exceed rank 2 mass %v", dist[1], dist[2])
	}
	if dist[2] <= dist[3] {
		t.Fatalf("rank 2 mass %v should exceed rank 3 mass %v", dist[2], dist[3])
	}
}

func TestForPickTailHoldsReservedMass(t *testing.T) {
	pool := poolOf(40)
	cfg := DefaultConfig()
	dist := ForPick(pool, ids(pool), freshTeam(), cfg)

	var tailMass float64
	for id := cfg.Window + 1; id <= cfg.Window+cfg.TailSize; id++ {
		tailMass += dist[id]
	}
	if math.Abs(tailMass-cfg.TailWeight) > 1e-9 {
		t.Fatalf("tail mass %v want %v", tailMass, cfg.TailWeight)
	}
}

func TestForPickZeroesIneligiblePositions(t *testing.T) {
	pool := poolOf(40)
	team := freshTeam()
	// QB slot full; QB does not flex.
	team.Needs.Slots[models.PositionQB] = 0

	dist := ForPick(pool, ids(pool), team, DefaultConfig())
	for id, p := range dist {
		if pool[id].Position == models.PositionQB && p > 0 {
			t.Fatalf("QB %d received mass %v with QB slot full", id, p)
		}
	}
	if got := sum(dist); math.Abs(got-1) > 1e-9 {
		t.Fatalf("renormalized distribution sums to %v want 1", got)
	}
}

func TestForPickWidensWhenWindowAllIllegal(t *testing.T) {
	// 20 RBs ranked ahead of a handful of WRs; the team can only take WRs.
	pool := make(models.Pool)
	for i := 1; i <= 20; i++ {
		pool[i] = &models.Player{ID: i, Position: models.PositionRB, PPG: 20, ADP: floatPtr(float64(i))}
	}
	for i := 21; i <= 24; i++ {
		pool[i] = &models.Player{ID: i, Position: models.PositionWR, PPG: 10, ADP: floatPtr(float64(i))}
	}

	team := freshTeam()
	team.Needs.Slots[models.PositionRB] = 0
	team.Needs.Slots[models.PositionQB] = 0
	team.Needs.Slots[models.PositionTE] = 0
	team.Needs.Flex = 0

	cfg := DefaultConfig()
	cfg.TailSize = 0
	dist := ForPick(pool, ids(pool), team, cfg)

	if len(dist) == 0 {
		t.Fatal("widening should find the WRs")
	}
	for id := range dist {
		if pool[id].Position != models.PositionWR {
			t.Fatalf("illegal position %s in distribution", pool[id].Position)
		}
	}
	if got := sum(dist); math.Abs(got-1) > 1e-9 {
		t.Fatalf("distribution sums to %v want 1", got)
	}
}

func TestForPickFallbackSingleLegalPlayer(t *testing.T) {
	pool := models.Pool{
		1: {ID: 1, Position: models.PositionRB, PPG: 20, ADP: floatPtr(1)},
		2: {ID: 2, Position: models.PositionQB, PPG: 22, ADP: floatPtr(2)},
	}
	team := freshTeam()
	team.Needs.Slots[models.PositionRB] = 0
	team.Needs.Flex = 0

	dist := ForPick(pool, ids(pool), team, DefaultConfig())
	if len(dist) != 1 || dist[2] != 1 {
		t.Fatalf("dist=%v want all mass on player 2", dist)
	}
}

func TestForPickNoLegalPlayers(t *testing.T) {
	pool := models.Pool{
		1: {ID: 1, Position: models.PositionQB, PPG: 22, ADP: floatPtr(1)},
	}
	team := freshTeam()
	team.Needs.Slots[models.PositionQB] = 0

	dist := ForPick(pool, ids(pool), team, DefaultConfig())
	if len(dist) != 0 {
		t.Fatalf("dist=%v want empty", dist)
	}
}

func TestForPickEmptyPool(t *testing.T) {
	dist := ForPick(models.Pool{}, nil, freshTeam(), DefaultConfig())
	if len(dist) != 0 {
		t.Fatalf("dist=%v want empty", dist)
	}
}

func newState(numTeams, rounds int) *models.DraftState {
	return models.NewDraftState(numTeams, rounds, 0, models.DefaultLineupTemplate())
}

func TestForHorizonStepCountAndDrain(t *testing.T) {
	pool := poolOf(60)
	s := newState(12, 15)
	avail := ids(pool)

	f := ForHorizon(pool, s, avail, 10, DefaultConfig())
	if len(f.Steps) != 10 {
		t.Fatalf("steps=%d want 10", len(f.Steps))
	}

	var total float64
	for _, mass := range f.Drain {
		if mass < 0 {
			t.Fatalf("negative drain: %v", f.Drain)
		}
		total += mass
	}
	// Each step distributes exactly 1 probability mass.
	if math.Abs(total-10) > 1e-6 {
		t.Fatalf("total drain %v want 10", total)
	}
}

func TestForHorizonStopsAtDraftEnd(t *testing.T) {
	pool := poolOf(20)
	s := newState(2, 2)
	s.CurrentPick = 3

	f := ForHorizon(pool, s, ids(pool), 10, DefaultConfig())
	if len(f.Steps) != 2 {
		t.Fatalf("steps=%d want 2 (picks 3 and 4 remain)", len(f.Steps))
	}
}

func TestSurvivalBoundsAndMonotonicity(t *testing.T) {
	pool := poolOf(60)
	s := newState(12, 15)
	avail := ids(pool)

	var prev map[int]float64
	for horizon := 0; horizon <= 22; horizon += 11 {
		f := ForHorizon(pool, s, avail, horizon, DefaultConfig())
		cur := make(map[int]float64, len(pool))
		for id := range pool {
			surv := f.Survival(id)
			if surv < 0 || surv > 1 {
				t.Fatalf("survival for %d out of range: %v", id, surv)
			}
			cur[id] = surv
			if prev != nil && surv > prev[id]+1e-9 {
				t.Fatalf("survival for %d increased with horizon: %v -> %v", id, prev[id], surv)
			}
		}
		prev = cur
	}
}

func TestSurvivalZeroHorizonIsOne(t *testing.T) {
	pool := poolOf(10)
	f := ForHorizon(pool, newState(2, 2), ids(pool), 0, DefaultConfig())
	if got := f.Survival(1); got != 1 {
		t.Fatalf("survival with empty horizon=%v want 1", got)
	}
}
