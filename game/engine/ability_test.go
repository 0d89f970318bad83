package engine

import "testing"

func TestActivate(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected TurnPlan
		armed    bool
	}{
		{KindKing, TurnPlan{StepLimit: KingStepLimit}, false},
		{KindEmperor, TurnPlan{StepLimit: EmperorStepLimit}, false},
		{KindRoyal, TurnPlan{StepLimit: Unlimited, PreStep: true}, false},
		{KindRockhopper, TurnPlan{StepLimit: Unlimited, Jump: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a := newActor(tt.kind, 1)

			plan, ok := Activate(a)
			if !ok {
				t.Fatal("Expected the first activation to succeed")
			}
			if plan != tt.expected {
				t.Errorf("Expected plan %+v, got %+v", tt.expected, plan)
			}
			if !a.Actor.AbilityUsed {
				t.Error("Expected ability to be marked used")
			}
			if a.Actor.JumpArmed != tt.armed {
				t.Errorf("Expected JumpArmed=%v, got %v", tt.armed, a.Actor.JumpArmed)
			}

			a.Actor.JumpArmed = false
			plan, ok = Activate(a)
			if ok {
				t.Error("Expected the second activation to be refused")
			}
			if plan != defaultPlan() {
				t.Errorf("Expected the default plan on refusal, got %+v", plan)
			}
			if a.Actor.JumpArmed {
				t.Error("Expected a refused activation to leave the jump disarmed")
			}
		})
	}
}

func TestActivate_NonActor(t *testing.T) {
	block := newHazard(KindLightBlock, "H1")
	if _, ok := Activate(block); ok {
		t.Error("Expected hazards to have no ability")
	}
}

func TestPlay_AbilityIsOneShot(t *testing.T) {
	g := newLayoutGame(t,
		"A.........",
		"..........",
		"..........",
	)
	p1 := mustActor(t, g, "P1")

	events := g.RunTurn("P1", true, Right)
	if !hasEvent(events, EventAbilityUsed) {
		t.Error("Expected an ability_used event")
	}
	if p1.Pos.X != KingStepLimit {
		t.Fatalf("Expected P1 at x=%d, got %s", KingStepLimit, p1.Pos)
	}

	// A second request is ignored and the penguin slides off the far edge.
	events = g.RunTurn("P1", true, Right)
	if hasEvent(events, EventAbilityUsed) {
		t.Error("Expected no second ability_used event")
	}
	if !p1.Actor.Eliminated {
		t.Error("Expected an unlimited slide off the edge")
	}
}
