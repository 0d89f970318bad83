package engine

import (
	"testing"
)

// newLayoutGame builds a game from fixed rows. Every penguin is AI controlled.
func newLayoutGame(t *testing.T, rows ...string) *Game {
	t.Helper()
	config := &GameConfig{
		Name:          "test",
		Width:         len(rows[0]),
		Height:        len(rows),
		Rounds:        4,
		AbilityChance: 30,
		Layout:        rows,
	}
	seed := int64(1)
	g, err := NewGame(config, &seed)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return g
}

func mustActor(t *testing.T, g *Game, id string) *Entity {
	t.Helper()
	a, err := g.Actor(id)
	if err != nil {
		t.Fatalf("Actor %s not found: %v", id, err)
	}
	return a
}

func symbolAt(g *Game, x, y int) string {
	return g.Snapshot()[y][x]
}

func hasEvent(events []Event, typ EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

// assertOccupancy checks that every entity on the board sits where it thinks
// it is and that every live penguin is on the board exactly once.
func assertOccupancy(t *testing.T, g *Game) {
	t.Helper()
	seen := map[*Entity]int{}
	g.grid.each(func(e *Entity) {
		seen[e]++
		if got := g.grid.Get(e.Pos); got == nil {
			t.Errorf("%s stored at %s but the cell is empty", e.ID, e.Pos)
		}
		if e.Destroyed {
			t.Errorf("Destroyed %s is still on the board", e.ID)
		}
	})
	for y := 0; y < g.grid.Height(); y++ {
		for x := 0; x < g.grid.Width(); x++ {
			if e := g.grid.Occupant(Position{X: x, Y: y}); e != nil && e.Pos != (Position{X: x, Y: y}) {
				t.Errorf("%s stored at %s but found at (%d,%d)", e.ID, e.Pos, x, y)
			}
		}
	}
	for e, n := range seen {
		if n > 1 {
			t.Errorf("%s is on the board %d times", e.ID, n)
		}
	}
	for _, a := range g.actors {
		onBoard := seen[a] == 1
		if a.Actor.Eliminated && onBoard {
			t.Errorf("Eliminated %s is still on the board", a.ID)
		}
		if !a.Actor.Eliminated && !onBoard {
			t.Errorf("Live %s is missing from the board", a.ID)
		}
	}
}

func TestResolve_ActorEatsFood(t *testing.T) {
	g := newLayoutGame(t,
		"A..3",
		"....",
		"....",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 3, Y: 0}) {
		t.Errorf("Expected P1 at (3,0), got %s", p1.Pos)
	}
	if got := p1.Actor.TotalWeight(); got != 3 {
		t.Errorf("Expected carried weight 3, got %d", got)
	}
	if symbolAt(g, 3, 0) != "P1" {
		t.Errorf("Expected P1 on (3,0), got %q", symbolAt(g, 3, 0))
	}
	if !hasEvent(events, EventConsumed) {
		t.Error("Expected a consumed event")
	}
	assertOccupancy(t, g)
}

func TestResolve_HeavyBlockStripsLightest(t *testing.T) {
	g := newLayoutGame(t,
		"A..H",
		"....",
		"....",
	)
	p1 := mustActor(t, g, "P1")
	p1.Actor.Carried = []Item{{Food: Squid, Weight: 2}}

	g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 2, Y: 0}) {
		t.Errorf("Expected P1 to stop at (2,0), got %s", p1.Pos)
	}
	if len(p1.Actor.Carried) != 0 {
		t.Errorf("Expected empty carried list, got %v", p1.Actor.Carried)
	}
	if symbolAt(g, 3, 0) != "HB" {
		t.Errorf("Expected heavy block to stay at (3,0), got %q", symbolAt(g, 3, 0))
	}
	assertOccupancy(t, g)
}

func TestResolve_PushesActor(t *testing.T) {
	g := newLayoutGame(t,
		"A.B..H",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")
	p2 := mustActor(t, g, "P2")

	events := g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected P1 adjacent to P2's old cell at (1,0), got %s", p1.Pos)
	}
	if p2.Pos != (Position{X: 4, Y: 0}) {
		t.Errorf("Expected P2 pushed to (4,0), got %s", p2.Pos)
	}
	if !hasEvent(events, EventPushed) {
		t.Error("Expected a pushed event")
	}
	assertOccupancy(t, g)
}

func TestResolve_JumpOverHazard(t *testing.T) {
	g := newLayoutGame(t,
		"D.H.H.",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", true, Right)

	if p1.Pos != (Position{X: 3, Y: 0}) {
		t.Errorf("Expected P1 to land at (3,0), got %s", p1.Pos)
	}
	if p1.Actor.JumpArmed {
		t.Error("Expected jump to be disarmed")
	}
	if !p1.Actor.AbilityUsed {
		t.Error("Expected ability to be used")
	}
	if symbolAt(g, 2, 0) != "HB" {
		t.Errorf("Expected the jumped block to stay at (2,0), got %q", symbolAt(g, 2, 0))
	}
	if !hasEvent(events, EventJumped) {
		t.Error("Expected a jumped event")
	}
	assertOccupancy(t, g)
}

func TestResolve_HoleEliminatesActor(t *testing.T) {
	g := newLayoutGame(t,
		"A.O.",
		"....",
		"....",
	)
	p1 := mustActor(t, g, "P1")
	p1.Actor.Carried = []Item{{Food: Mackerel, Weight: 4}}

	g.RunTurn("P1", false, Right)

	if !p1.Actor.Eliminated {
		t.Fatal("Expected P1 to be eliminated")
	}
	for y, row := range g.Snapshot() {
		for x, sym := range row {
			if sym == "P1" {
				t.Errorf("Eliminated P1 still visible at (%d,%d)", x, y)
			}
		}
	}
	if symbolAt(g, 2, 0) != "HI" {
		t.Errorf("Expected open hole at (2,0), got %q", symbolAt(g, 2, 0))
	}

	standings := g.Standings()
	if len(standings) != 1 || standings[0].ActorID != "P1" || standings[0].TotalWeight != 4 {
		t.Errorf("Expected P1 in standings with weight 4, got %+v", standings)
	}
	assertOccupancy(t, g)
}

func TestResolve_SlideOffEdge(t *testing.T) {
	g := newLayoutGame(t,
		"...A",
		"....",
		"....",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", false, Right)

	if !p1.Actor.Eliminated {
		t.Error("Expected P1 to fall into the water")
	}
	if !hasEvent(events, EventEliminated) {
		t.Error("Expected an eliminated event")
	}
	assertOccupancy(t, g)
}

func TestResolve_LightBlockStunsAndSlides(t *testing.T) {
	g := newLayoutGame(t,
		"A.L..H",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected P1 to stop at (1,0), got %s", p1.Pos)
	}
	if !p1.Actor.Stunned {
		t.Error("Expected P1 to be stunned")
	}
	if symbolAt(g, 4, 0) != "LB" {
		t.Errorf("Expected light block to slide to (4,0), got row %v", g.Snapshot()[0])
	}
	assertOccupancy(t, g)
}

func TestResolve_BlockCrushesFood(t *testing.T) {
	g := newLayoutGame(t,
		"A.L1.H",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	g.RunTurn("P1", false, Right)

	if symbolAt(g, 4, 0) != "LB" {
		t.Errorf("Expected light block at (4,0), got row %v", g.Snapshot()[0])
	}
	if symbolAt(g, 3, 0) != "" {
		t.Errorf("Expected crushed food to be gone, got %q", symbolAt(g, 3, 0))
	}
	if p1.Actor.TotalWeight() != 0 {
		t.Errorf("Expected P1 to carry nothing, got %d", p1.Actor.TotalWeight())
	}
	assertOccupancy(t, g)
}

func TestResolve_BlockPlugsHole(t *testing.T) {
	g := newLayoutGame(t,
		"A.LOH.",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")
	hole := g.grid.Get(Position{X: 3, Y: 0})

	events := g.RunTurn("P1", false, Right)
	if !hasEvent(events, EventPlugged) {
		t.Fatal("Expected a plugged event")
	}
	if !hole.Plugged {
		t.Fatal("Expected hole to be plugged")
	}
	if symbolAt(g, 3, 0) != "PH" {
		t.Errorf("Expected PH at (3,0), got %q", symbolAt(g, 3, 0))
	}
	if symbolAt(g, 2, 0) != "" {
		t.Errorf("Expected light block to vanish, got %q", symbolAt(g, 2, 0))
	}

	// The penguin now crosses the plugged hole and rests on it against the block.
	p1.Actor.Stunned = false
	g.RunTurn("P1", false, Right)
	if p1.Actor.Eliminated {
		t.Fatal("Expected P1 to survive a plugged hole")
	}
	if p1.Pos != (Position{X: 3, Y: 0}) {
		t.Errorf("Expected P1 to rest on the plugged hole at (3,0), got %s", p1.Pos)
	}
	assertOccupancy(t, g)

	g.RunTurn("P1", false, Down)
	if symbolAt(g, 3, 0) != "PH" {
		t.Errorf("Expected plugged hole to remain after P1 leaves, got %q", symbolAt(g, 3, 0))
	}
	if !hole.Plugged {
		t.Error("Expected hole to stay plugged")
	}
	assertOccupancy(t, g)
}

func TestResolve_SlidesAcrossPluggedHole(t *testing.T) {
	t.Run("penguin", func(t *testing.T) {
		g := newLayoutGame(t,
			"A.o..H",
			"......",
			"......",
		)
		p1 := mustActor(t, g, "P1")

		events := g.RunTurn("P1", false, Right)
		if hasEvent(events, EventEliminated) || p1.Actor.Eliminated {
			t.Fatal("Expected P1 to cross the plugged hole")
		}
		if p1.Pos != (Position{X: 4, Y: 0}) {
			t.Errorf("Expected P1 at (4,0), got %s", p1.Pos)
		}
		if symbolAt(g, 2, 0) != "PH" {
			t.Errorf("Expected PH at (2,0), got %q", symbolAt(g, 2, 0))
		}
		assertOccupancy(t, g)
	})

	t.Run("light block", func(t *testing.T) {
		g := newLayoutGame(t,
			"ALo.H.",
			"......",
			"......",
		)
		p1 := mustActor(t, g, "P1")

		events := g.RunTurn("P1", false, Right)
		if hasEvent(events, EventDestroyed) || hasEvent(events, EventPlugged) {
			t.Fatal("Expected the light block to slide over the plugged hole")
		}
		if !p1.Actor.Stunned || p1.Pos != (Position{X: 0, Y: 0}) {
			t.Errorf("Expected P1 stunned at (0,0), got %s stunned=%v", p1.Pos, p1.Actor.Stunned)
		}
		if symbolAt(g, 3, 0) != "LB" {
			t.Errorf("Expected light block at (3,0), got row %v", g.Snapshot()[0])
		}
		if symbolAt(g, 2, 0) != "PH" {
			t.Errorf("Expected PH at (2,0), got %q", symbolAt(g, 2, 0))
		}
		assertOccupancy(t, g)
	})
}

func TestResolve_BounceReversesActor(t *testing.T) {
	g := newLayoutGame(t,
		"H.A.S.H",
		".......",
		".......",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected P1 to bounce back to (1,0), got %s", p1.Pos)
	}
	if p1.Direction != Left {
		t.Errorf("Expected P1 to end facing left, got %s", p1.Direction)
	}
	if symbolAt(g, 5, 0) != "SL" {
		t.Errorf("Expected sea lion to slide to (5,0), got row %v", g.Snapshot()[0])
	}
	if !hasEvent(events, EventBounced) {
		t.Error("Expected a bounced event")
	}
	assertOccupancy(t, g)
}

func TestResolve_CollisionTable(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		expect map[Position]string
	}{
		{
			name: "light block sets sea lion moving and stops",
			rows: []string{"A.LS.H", "......", "......"},
			expect: map[Position]string{
				{X: 1, Y: 0}: "P1",
				{X: 2, Y: 0}: "LB",
				{X: 4, Y: 0}: "SL",
			},
		},
		{
			name: "sea lion stops against sea lion",
			rows: []string{"H.AS.SH", ".......", "......."},
			expect: map[Position]string{
				{X: 1, Y: 0}: "P1",
				{X: 4, Y: 0}: "SL",
				{X: 5, Y: 0}: "SL",
			},
		},
		{
			name: "light block stops against penguin",
			rows: []string{"A.L.B", ".....", "....."},
			expect: map[Position]string{
				{X: 1, Y: 0}: "P1",
				{X: 3, Y: 0}: "LB",
				{X: 4, Y: 0}: "P2",
			},
		},
		{
			name: "light block sets light block moving",
			rows: []string{"A.LL.H", "......", "......"},
			expect: map[Position]string{
				{X: 1, Y: 0}: "P1",
				{X: 2, Y: 0}: "LB",
				{X: 4, Y: 0}: "LB",
			},
		},
		{
			name: "light block stops at heavy block",
			rows: []string{"A.L.H", ".....", "....."},
			expect: map[Position]string{
				{X: 1, Y: 0}: "P1",
				{X: 3, Y: 0}: "LB",
				{X: 4, Y: 0}: "HB",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newLayoutGame(t, tt.rows...)
			g.RunTurn("P1", false, Right)

			for pos, want := range tt.expect {
				if got := symbolAt(g, pos.X, pos.Y); got != want {
					t.Errorf("At %s expected %q, got %q (row %v)", pos, want, got, g.Snapshot()[pos.Y])
				}
			}
			assertOccupancy(t, g)
		})
	}
}

func TestResolve_CycleGuardStopsPingPong(t *testing.T) {
	g := newLayoutGame(t,
		"HSA.SH",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", false, Right)

	if !hasEvent(events, EventChainBlocked) {
		t.Error("Expected a chain_blocked event")
	}
	if p1.Pos != (Position{X: 3, Y: 0}) {
		t.Errorf("Expected P1 to stop at (3,0), got %s", p1.Pos)
	}
	if symbolAt(g, 1, 0) != "SL" || symbolAt(g, 4, 0) != "SL" {
		t.Errorf("Expected both sea lions to stay put, got row %v", g.Snapshot()[0])
	}
	assertOccupancy(t, g)
}

func TestResolve_PushedActorCannotBounceThroughPusher(t *testing.T) {
	g := newLayoutGame(t,
		"A.BS.H",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")
	p2 := mustActor(t, g, "P2")

	events := g.RunTurn("P1", false, Right)

	if p1.Pos != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected P1 at (1,0), got %s", p1.Pos)
	}
	if p2.Pos != (Position{X: 2, Y: 0}) {
		t.Errorf("Expected P2 to stop against P1 at (2,0), got %s", p2.Pos)
	}
	if symbolAt(g, 4, 0) != "SL" {
		t.Errorf("Expected sea lion at (4,0), got row %v", g.Snapshot()[0])
	}
	if !hasEvent(events, EventChainBlocked) {
		t.Error("Expected a chain_blocked event")
	}
	assertOccupancy(t, g)
}

func TestResolve_StepLimits(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		useAbility bool
		expectX    int
	}{
		{"king stops after five", "A.........", true, 5},
		{"emperor stops after three", "B.........", true, 3},
		{"king without ability slides to the block", "A........H", false, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newLayoutGame(t, tt.row, "..........", "..........")
			p1 := mustActor(t, g, "P1")

			g.RunTurn("P1", tt.useAbility, Right)

			if p1.Actor.Eliminated {
				t.Fatal("Expected P1 to stay on the ice")
			}
			if p1.Pos.X != tt.expectX {
				t.Errorf("Expected P1 at x=%d, got %s", tt.expectX, p1.Pos)
			}
		})
	}
}

func TestResolve_JumpFailsIntoCollision(t *testing.T) {
	g := newLayoutGame(t,
		"D.HH..",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", true, Right)

	if p1.Pos != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected P1 to stop before the block at (1,0), got %s", p1.Pos)
	}
	if p1.Actor.JumpArmed {
		t.Error("Expected jump to be disarmed")
	}
	if !hasEvent(events, EventJumpFailed) {
		t.Error("Expected a jump_failed event")
	}
}

func TestResolve_JumpIgnoresHoles(t *testing.T) {
	g := newLayoutGame(t,
		"D.O...",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	g.RunTurn("P1", true, Right)

	if !p1.Actor.Eliminated {
		t.Error("Expected a rockhopper to fall into a hole even with the jump armed")
	}
}

func TestResolve_UnusedJumpIsForfeited(t *testing.T) {
	g := newLayoutGame(t,
		"D.1...",
		"......",
		"......",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", true, Right)

	if p1.Actor.JumpArmed {
		t.Error("Expected the unused jump to be cleared at the end of the slide")
	}
	if !hasEvent(events, EventJumpForfeit) {
		t.Error("Expected a jump_forfeited event")
	}
	if p1.Pos != (Position{X: 2, Y: 0}) {
		t.Errorf("Expected P1 on the food cell (2,0), got %s", p1.Pos)
	}
}

func TestResolve_RoyalPreStep(t *testing.T) {
	g := newLayoutGame(t,
		".....",
		".C...",
		"....H",
	)
	p1 := mustActor(t, g, "P1")
	down := Down

	events := g.Play("P1", Decision{UseAbility: true, Direction: Right, PreStep: &down})

	if !hasEvent(events, EventPreStep) {
		t.Error("Expected a pre_step event")
	}
	if p1.Pos != (Position{X: 3, Y: 2}) {
		t.Errorf("Expected P1 at (3,2) after stepping down and sliding right, got %s", p1.Pos)
	}
	assertOccupancy(t, g)
}

func TestResolve_RoyalPreStepIntoWater(t *testing.T) {
	g := newLayoutGame(t,
		".C...",
		".....",
		".....",
	)
	p1 := mustActor(t, g, "P1")
	up := Up

	g.Play("P1", Decision{UseAbility: true, Direction: Right, PreStep: &up})

	if !p1.Actor.Eliminated {
		t.Error("Expected the pre-step off the edge to eliminate P1")
	}
	assertOccupancy(t, g)
}

func TestResolve_PanicsOnEliminatedActor(t *testing.T) {
	g := newLayoutGame(t,
		"...A",
		"....",
		"....",
	)
	g.RunTurn("P1", false, Right)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected a panic when playing an eliminated penguin")
		}
	}()
	g.RunTurn("P1", false, Left)
}

func TestResolve_ObstacleSlide(t *testing.T) {
	// A resolver can slide hazards directly; a sea lion driven off the edge is destroyed.
	grid := NewGrid(4, 3)
	sl := newHazard(KindSeaLion, "H1")
	grid.Place(sl, Position{X: 1, Y: 1})

	var events []Event
	r := NewResolver(grid, func(ev Event) { events = append(events, ev) })
	r.Resolve(sl, Right, Unlimited)

	if !sl.Destroyed {
		t.Error("Expected the sea lion to be destroyed")
	}
	if grid.Get(Position{X: 1, Y: 1}) != nil {
		t.Error("Expected the sea lion's cell to be empty")
	}
	if !hasEvent(events, EventDestroyed) {
		t.Error("Expected a destroyed event")
	}
}
