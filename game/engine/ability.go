package engine

// TurnPlan is how an activated ability shapes the coming slide.
type TurnPlan struct {
	StepLimit int
	PreStep   bool
	Jump      bool
}

// defaultPlan is the plan of a turn without an ability.
func defaultPlan() TurnPlan {
	return TurnPlan{StepLimit: Unlimited}
}

// Activate uses the actor's one-shot ability. It returns false, and changes
// nothing, once the ability has been used.
func Activate(e *Entity) (TurnPlan, bool) {
	plan := defaultPlan()
	if !e.IsActor() || e.Actor.AbilityUsed {
		return plan, false
	}
	e.Actor.AbilityUsed = true

	switch e.Kind {
	case KindKing:
		plan.StepLimit = KingStepLimit
	case KindEmperor:
		plan.StepLimit = EmperorStepLimit
	case KindRoyal:
		plan.PreStep = true
	case KindRockhopper:
		plan.Jump = true
		e.Actor.JumpArmed = true
	}
	return plan, true
}
