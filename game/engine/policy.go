package engine

import "math/rand"

// Decision is everything needed to play one turn.
type Decision struct {
	UseAbility bool       `json:"use_ability"`
	Direction  Direction  `json:"direction"`
	PreStep    *Direction `json:"pre_step,omitempty"`
}

// DecisionProvider chooses a turn for an actor. Human and scripted players
// implement it as well as the built-in AI.
type DecisionProvider interface {
	Decide(g *Game, actor *Entity) (Decision, error)
}

// Policy is the computer player. It shares the game's random source.
type Policy struct {
	rng    *rand.Rand
	chance int
}

// NewPolicy creates a policy that fires abilities with the given percent chance.
func NewPolicy(rng *rand.Rand, chance int) *Policy {
	return &Policy{rng: rng, chance: chance}
}

// ChooseDirection prefers food, then safe ice, then a solid hazard to bump
// into, and finally a random direction.
func (p *Policy) ChooseDirection(grid *Grid, actor *Entity) Direction {
	for _, d := range ScanOrder {
		if t := grid.Peek(actor.Pos, d); t != nil && t.IsItem() {
			return d
		}
	}
	for _, d := range ScanOrder {
		if grid.IsSafe(actor.Pos, d) {
			return d
		}
	}
	for _, d := range ScanOrder {
		if t := grid.Peek(actor.Pos, d); t != nil && t.IsSolidHazard() {
			return d
		}
	}
	return ScanOrder[p.rng.Intn(len(ScanOrder))]
}

// WantsAbility decides whether to fire the ability this turn. Rockhoppers
// only fire when heading straight at a solid hazard.
func (p *Policy) WantsAbility(grid *Grid, actor *Entity, dir Direction) bool {
	if actor.Actor.AbilityUsed {
		return false
	}
	if actor.Kind == KindRockhopper {
		t := grid.Peek(actor.Pos, dir)
		return t != nil && t.IsSolidHazard()
	}
	return p.rng.Intn(100) < p.chance
}

// ChoosePreStep picks a random safe direction, or any direction if none is safe.
func (p *Policy) ChoosePreStep(grid *Grid, actor *Entity) Direction {
	safe := make([]Direction, 0, len(ScanOrder))
	for _, d := range ScanOrder {
		if grid.IsSafe(actor.Pos, d) {
			safe = append(safe, d)
		}
	}
	if len(safe) > 0 {
		return safe[p.rng.Intn(len(safe))]
	}
	return ScanOrder[p.rng.Intn(len(ScanOrder))]
}

func (p *Policy) Decide(g *Game, actor *Entity) (Decision, error) {
	grid := g.Grid()
	d := Decision{Direction: p.ChooseDirection(grid, actor)}
	d.UseAbility = p.WantsAbility(grid, actor, d.Direction)
	if d.UseAbility && actor.Kind == KindRoyal {
		pre := p.ChoosePreStep(grid, actor)
		d.PreStep = &pre
	}
	return d, nil
}
