package engine

// Entity is a single thing on the board. Variant state lives in the optional
// parts: Actor for penguins, Item for food. Hazards only use Plugged.
type Entity struct {
	ID        string
	Kind      Kind
	Pos       Position
	Direction Direction
	Moving    bool
	Destroyed bool

	// Plugged is only meaningful for holes and never reverts.
	Plugged bool

	Actor *ActorState
	Item  *Item

	seq int
}

// ActorState is the per-penguin state that survives elimination.
type ActorState struct {
	Carried     []Item
	Eliminated  bool
	Stunned     bool
	AbilityUsed bool
	JumpArmed   bool
	Controlled  bool
}

func newActor(kind Kind, seq int) *Entity {
	return &Entity{
		ID:    actorID(seq),
		Kind:  kind,
		Actor: &ActorState{},
		seq:   seq,
	}
}

func newHazard(kind Kind, id string) *Entity {
	return &Entity{ID: id, Kind: kind}
}

func newFood(food FoodKind, weight int, id string) *Entity {
	return &Entity{ID: id, Kind: KindFood, Item: &Item{Food: food, Weight: weight}}
}

func (e *Entity) IsActor() bool    { return e.Kind.IsActor() }
func (e *Entity) IsObstacle() bool { return e.Kind.IsObstacle() }
func (e *Entity) IsItem() bool     { return e.Kind.IsItem() }
func (e *Entity) Slidable() bool   { return e.Kind.Slidable() }
func (e *Entity) Collidable() bool { return e.Kind.Collidable() }

// IsOpenHole reports whether e is a hole that still swallows things.
func (e *Entity) IsOpenHole() bool {
	return e.Kind == KindHole && !e.Plugged
}

// IsSolidHazard reports whether e is an obstacle other than a hole.
func (e *Entity) IsSolidHazard() bool {
	return e.IsObstacle() && e.Kind != KindHole
}

// Symbol is the two-character board label.
func (e *Entity) Symbol() string {
	switch e.Kind {
	case KindKing, KindEmperor, KindRoyal, KindRockhopper:
		return e.ID
	case KindHeavyBlock:
		return "HB"
	case KindLightBlock:
		return "LB"
	case KindSeaLion:
		return "SL"
	case KindHole:
		if e.Plugged {
			return "PH"
		}
		return "HI"
	case KindFood:
		return e.Item.Food.Symbol()
	}
	return "??"
}

// TotalWeight sums the weight of every carried item.
func (a *ActorState) TotalWeight() int {
	total := 0
	for _, it := range a.Carried {
		total += it.Weight
	}
	return total
}

// StripLightest removes the first carried item of minimum weight.
func (a *ActorState) StripLightest() (Item, bool) {
	if len(a.Carried) == 0 {
		return Item{}, false
	}
	idx := 0
	for i, it := range a.Carried {
		if it.Weight < a.Carried[idx].Weight {
			idx = i
		}
	}
	dropped := a.Carried[idx]
	a.Carried = append(a.Carried[:idx], a.Carried[idx+1:]...)
	return dropped, true
}
