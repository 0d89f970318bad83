package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Game owns the board, the roster and the turn order of one match.
type Game struct {
	config   *GameConfig
	seed     int64
	rng      *rand.Rand
	grid     *Grid
	resolver *Resolver
	policy   *Policy

	actors []*Entity
	round  int
	slot   int
	over   bool

	events    []Event
	pending   []Event
	turnActor string
}

// NewGame builds a board from config. A nil seed draws one from the clock;
// the seed in use is available from Seed.
func NewGame(config *GameConfig, seed *int64) (*Game, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}

	g := &Game{
		config: config,
		seed:   s,
		rng:    rand.New(rand.NewSource(s)),
		grid:   NewGrid(config.Width, config.Height),
		round:  1,
	}
	g.resolver = NewResolver(g.grid, g.record)
	g.policy = NewPolicy(g.rng, config.AbilityChance)

	if len(config.Layout) > 0 {
		g.populateFromLayout()
	} else {
		g.populate()
	}
	sort.SliceStable(g.actors, func(i, j int) bool { return g.actors[i].seq < g.actors[j].seq })

	g.record(Event{Type: EventRoundStart, Message: fmt.Sprintf("Round 1 of %d", config.Rounds)})
	g.pending = nil
	return g, nil
}

func (g *Game) populate() {
	for i := 1; i <= g.config.ActorCount; i++ {
		a := newActor(actorKinds[g.rng.Intn(len(actorKinds))], i)
		g.placeOnEdge(a)
		g.actors = append(g.actors, a)
	}
	if g.config.HumanPlayer {
		g.actors[g.rng.Intn(len(g.actors))].Actor.Controlled = true
	}
	for i := 1; i <= g.config.HazardCount; i++ {
		h := newHazard(hazardKinds[g.rng.Intn(len(hazardKinds))], fmt.Sprintf("H%d", i))
		g.placeAnywhere(h)
	}
	for i := 1; i <= g.config.FoodCount; i++ {
		food := FoodKind(g.rng.Intn(len(foodSymbols)))
		weight := g.rng.Intn(MaxItemWeight) + MinItemWeight
		g.placeAnywhere(newFood(food, weight, fmt.Sprintf("F%d", i)))
	}
}

// placeOnEdge retries random border cells until it finds an empty one.
func (g *Game) placeOnEdge(e *Entity) {
	w, h := g.grid.Width(), g.grid.Height()
	for {
		var p Position
		switch g.rng.Intn(4) {
		case 0:
			p = Position{X: g.rng.Intn(w), Y: 0}
		case 1:
			p = Position{X: g.rng.Intn(w), Y: h - 1}
		case 2:
			p = Position{X: 0, Y: g.rng.Intn(h)}
		default:
			p = Position{X: w - 1, Y: g.rng.Intn(h)}
		}
		if g.grid.Get(p) == nil {
			g.grid.Place(e, p)
			return
		}
	}
}

// placeAnywhere retries random cells until it finds an empty one.
func (g *Game) placeAnywhere(e *Entity) {
	for {
		p := Position{X: g.rng.Intn(g.grid.Width()), Y: g.rng.Intn(g.grid.Height())}
		if g.grid.Get(p) == nil {
			g.grid.Place(e, p)
			return
		}
	}
}

func (g *Game) populateFromLayout() {
	seq, hazards, foods := 0, 0, 0
	for y, row := range g.config.Layout {
		for x, ch := range row {
			cell, empty, ok := parseLayoutCell(ch)
			if !ok || empty {
				continue
			}
			p := Position{X: x, Y: y}
			switch {
			case cell.kind.IsActor():
				seq++
				a := newActor(cell.kind, seq)
				g.grid.Place(a, p)
				g.actors = append(g.actors, a)
			case cell.kind.IsObstacle():
				hazards++
				h := newHazard(cell.kind, fmt.Sprintf("H%d", hazards))
				if cell.plugged {
					h.Plugged = true
					g.grid.placeFloor(h, p)
					continue
				}
				g.grid.Place(h, p)
			case cell.kind.IsItem():
				foods++
				food := FoodKind((cell.weight - 1) % len(foodSymbols))
				g.grid.Place(newFood(food, cell.weight, fmt.Sprintf("F%d", foods)), p)
			}
		}
	}
	if g.config.HumanPlayer {
		g.actors[g.rng.Intn(len(g.actors))].Actor.Controlled = true
	}
}

// record stamps an event with the current round and turn and appends it to the log.
func (g *Game) record(ev Event) {
	ev.Seq = len(g.events) + 1
	ev.Round = g.round
	if ev.Actor == "" {
		ev.Actor = g.turnActor
	}
	g.events = append(g.events, ev)
	g.pending = append(g.pending, ev)
}

func (g *Game) flush() []Event {
	out := g.pending
	g.pending = nil
	g.turnActor = ""
	return out
}

func (g *Game) Config() *GameConfig { return g.config }
func (g *Game) Seed() int64         { return g.seed }
func (g *Game) Grid() *Grid         { return g.grid }
func (g *Game) Round() int          { return g.round }
func (g *Game) Over() bool          { return g.over }
func (g *Game) Policy() *Policy     { return g.policy }

// Actors returns the roster in turn order, eliminated penguins included.
func (g *Game) Actors() []*Entity {
	out := make([]*Entity, len(g.actors))
	copy(out, g.actors)
	return out
}

// Actor looks up a penguin by id.
func (g *Game) Actor(id string) (*Entity, error) {
	for _, a := range g.actors {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownActor, id)
}

// Controlled returns the human player's penguin, or nil when every penguin is AI.
func (g *Game) Controlled() *Entity {
	for _, a := range g.actors {
		if a.Actor.Controlled {
			return a
		}
	}
	return nil
}

// Current returns the penguin whose slot is next, or nil once the game is over.
func (g *Game) Current() *Entity {
	if g.over {
		return nil
	}
	return g.actors[g.slot]
}

// AwaitingPlayer reports whether the next slot needs a decision from the human player.
func (g *Game) AwaitingPlayer() bool {
	a := g.Current()
	return a != nil && a.Actor.Controlled && !a.Actor.Eliminated && !a.Actor.Stunned
}

// Events returns the full event log.
func (g *Game) Events() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// Snapshot returns the board as symbols.
func (g *Game) Snapshot() [][]string {
	return g.grid.Snapshot()
}

// Checksum is a digest of the board and roster, equal for equal games.
func (g *Game) Checksum() string {
	return checksum(g.grid, g.actors)
}

// CheckTurn reports why actorID cannot take the next slot, if it cannot.
func (g *Game) CheckTurn(actorID string) error {
	a, err := g.Actor(actorID)
	if err != nil {
		return err
	}
	if g.over {
		return ErrGameOver
	}
	if a.Actor.Eliminated {
		return fmt.Errorf("%w: %s", ErrActorEliminated, a.ID)
	}
	if g.actors[g.slot] != a {
		return fmt.Errorf("%w: %s", ErrNotActorsTurn, a.ID)
	}
	return nil
}

// RunTurn plays one turn for actorID outside the turn order. A Royal pre-step
// direction is chosen by the AI policy.
func (g *Game) RunTurn(actorID string, useAbility bool, dir Direction) []Event {
	return g.Play(actorID, Decision{UseAbility: useAbility, Direction: dir})
}

// Play runs a decided turn for actorID. Unknown or eliminated penguins are
// programming errors and panic. A stunned penguin loses the turn instead.
func (g *Game) Play(actorID string, d Decision) []Event {
	a, err := g.Actor(actorID)
	if err != nil {
		panic(fmt.Sprintf("engine: play: %v", err))
	}
	if a.Actor.Eliminated {
		panic(fmt.Sprintf("engine: play: %s is eliminated", a.ID))
	}

	g.turnActor = a.ID
	if a.Actor.Stunned {
		a.Actor.Stunned = false
		g.record(Event{Type: EventTurnSkipped, Entity: a.ID, Message: fmt.Sprintf("%s is stunned and skips this turn", a.ID)})
		return g.flush()
	}

	g.record(Event{Type: EventTurnStart, Entity: a.ID, Message: fmt.Sprintf("%s moves %s", a.ID, d.Direction)})
	g.execute(a, d)
	return g.flush()
}

func (g *Game) execute(a *Entity, d Decision) {
	plan := defaultPlan()
	if d.UseAbility {
		if p, ok := Activate(a); ok {
			plan = p
			g.record(Event{Type: EventAbilityUsed, Entity: a.ID,
				Message: fmt.Sprintf("%s uses its ability: %s", a.ID, a.Kind.AbilityDescription())})
		}
	}

	if plan.PreStep {
		var pre Direction
		if d.PreStep != nil {
			pre = *d.PreStep
		} else {
			pre = g.policy.ChoosePreStep(g.grid, a)
		}
		g.record(Event{Type: EventPreStep, Entity: a.ID, Message: fmt.Sprintf("%s takes a step %s", a.ID, pre)})
		g.resolver.Resolve(a, pre, RoyalPreSteps)
		if a.Actor.Eliminated {
			return
		}
	}

	g.resolver.Resolve(a, d.Direction, plan.StepLimit)
}

// Step plays the next slot in the turn order, asking provider for the
// decision when the penguin can act.
func (g *Game) Step(provider DecisionProvider) ([]Event, error) {
	if g.over {
		return nil, ErrGameOver
	}

	a := g.actors[g.slot]
	var out []Event
	switch {
	case a.Actor.Eliminated:
		g.turnActor = a.ID
		g.record(Event{Type: EventTurnSkipped, Entity: a.ID, Message: fmt.Sprintf("%s is eliminated and skips turn", a.ID)})
		out = g.flush()
	case a.Actor.Stunned:
		out = g.Play(a.ID, Decision{})
	default:
		d, err := provider.Decide(g, a)
		if err != nil {
			return nil, fmt.Errorf("decide for %s: %w", a.ID, err)
		}
		out = g.Play(a.ID, d)
	}

	g.advance()
	return append(out, g.flush()...), nil
}

func (g *Game) advance() {
	g.slot++
	if g.slot < len(g.actors) {
		return
	}
	g.slot = 0
	if g.round >= g.config.Rounds {
		g.over = true
		g.record(Event{Type: EventGameOver, Message: "Game over"})
		return
	}
	g.round++
	g.record(Event{Type: EventRoundStart, Message: fmt.Sprintf("Round %d of %d", g.round, g.config.Rounds)})
}

// PlayAll steps until the last round is finished.
func (g *Game) PlayAll(provider DecisionProvider) error {
	for !g.over {
		if _, err := g.Step(provider); err != nil {
			return err
		}
	}
	return nil
}

// Standing is one line of the final ranking.
type Standing struct {
	Rank        int    `json:"rank"`
	ActorID     string `json:"actor_id"`
	Kind        Kind   `json:"kind"`
	TotalWeight int    `json:"total_weight"`
	Carried     []Item `json:"carried"`
	Eliminated  bool   `json:"eliminated"`
	Controlled  bool   `json:"controlled,omitempty"`
}

// Standings ranks every penguin by carried weight. Ties keep turn order.
func (g *Game) Standings() []Standing {
	out := make([]Standing, 0, len(g.actors))
	for _, a := range g.actors {
		carried := make([]Item, len(a.Actor.Carried))
		copy(carried, a.Actor.Carried)
		out = append(out, Standing{
			ActorID:     a.ID,
			Kind:        a.Kind,
			TotalWeight: a.Actor.TotalWeight(),
			Carried:     carried,
			Eliminated:  a.Actor.Eliminated,
			Controlled:  a.Actor.Controlled,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalWeight > out[j].TotalWeight })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
