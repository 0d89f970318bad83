package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// outcome is what happens to a slider after it strikes something.
type outcome int

const (
	outcomeStop outcome = iota
	outcomeConsumeStop
	outcomeConsumeContinue
	outcomeRedirect
)

// transfer asks the resolver to set another entity sliding.
type transfer struct {
	target *Entity
	dir    Direction
}

// frame is one slide on the work stack. A frame waiting on a child holds its
// cell on the grid until the child is done, then applies resume.
type frame struct {
	e       *Entity
	dir     Direction
	limit   int
	steps   int
	canJump bool
	cur     Position
	waiting bool
	resume  outcome
}

// Resolver slides entities across a grid and resolves every collision they
// cause, including the slides they set off in other entities.
// The work stack holds at most one frame per entity: the seen set refuses a
// second frame for an entity already moving.
type Resolver struct {
	grid *Grid
	sink eventSink
}

// NewResolver creates a resolver for grid. sink may be nil.
func NewResolver(grid *Grid, sink func(Event)) *Resolver {
	return &Resolver{grid: grid, sink: sink}
}

// Resolve slides e along dir until it stops, leaves the board or falls into a
// hole. limit caps the number of cells travelled; Unlimited removes the cap.
func (r *Resolver) Resolve(e *Entity, dir Direction, limit int) {
	if !e.Slidable() {
		panic(fmt.Sprintf("engine: resolve on non-slidable %s", e.ID))
	}
	if e.Destroyed || (e.IsActor() && e.Actor.Eliminated) {
		panic(fmt.Sprintf("engine: resolve on removed entity %s", e.ID))
	}
	if !dir.Valid() {
		panic(fmt.Sprintf("engine: resolve %s with invalid direction %d", e.ID, int(dir)))
	}

	seen := mapset.New[*Entity]()
	seen.Put(e)
	stack := []*frame{r.start(e, dir, limit)}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.waiting {
			f.waiting = false
			r.grid.Clear(f.e)
			if f.resume != outcomeRedirect {
				r.settle(f)
				stack = stack[:len(stack)-1]
				continue
			}
		}

		next := r.run(f, &seen)
		if next == nil {
			stack = stack[:len(stack)-1]
			continue
		}
		f.waiting = true
		r.grid.Place(f.e, f.cur)
		stack = append(stack, r.start(next.target, next.dir, Unlimited))
	}
}

func (r *Resolver) start(e *Entity, dir Direction, limit int) *frame {
	r.grid.Clear(e)
	e.Moving = true
	e.Direction = dir
	canJump := e.Kind == KindRockhopper && e.Actor.JumpArmed
	r.sink.emit(EventSlide, e, nil, e.Pos, "%s slides %s", describe(e), dir)
	return &frame{e: e, dir: dir, limit: limit, canJump: canJump, cur: e.Pos}
}

// run advances f until it reaches a terminal state, or returns the transfer
// f must wait on.
func (r *Resolver) run(f *frame, seen *mapset.Set[*Entity]) *transfer {
	for {
		if f.limit >= 0 && f.steps >= f.limit {
			r.sink.emit(EventStepLimit, f.e, nil, f.cur, "%s stops after %d cells", describe(f.e), f.steps)
			r.settle(f)
			return nil
		}

		next := f.cur.Step(f.dir, 1)
		if !r.grid.InBounds(next) {
			r.fallOff(f)
			return nil
		}

		target := r.grid.Get(next)
		if target == nil {
			f.cur = next
			f.steps++
			continue
		}

		if f.canJump && target.IsSolidHazard() {
			f.canJump = false
			f.e.Actor.JumpArmed = false
			landing := next.Step(f.dir, 1)
			if r.grid.InBounds(landing) && r.grid.Occupant(landing) == nil {
				r.sink.emit(EventJumped, f.e, target, landing, "%s jumps over %s", describe(f.e), describe(target))
				f.cur = landing
				f.steps += JumpDistance
				continue
			}
			r.sink.emit(EventJumpFailed, f.e, target, f.cur, "%s cannot land behind %s", describe(f.e), describe(target))
		}

		if target.IsOpenHole() {
			r.fallIn(f, target, next)
			return nil
		}
		if target.Kind == KindHole {
			f.cur = next
			f.steps++
			continue
		}

		result, tr := r.collide(f, target, next, seen)
		switch result {
		case outcomeConsumeStop:
			f.cur = next
			r.settle(f)
			return nil
		case outcomeConsumeContinue:
			f.cur = next
			f.steps++
		case outcomeRedirect:
			if tr != nil {
				f.resume = outcomeRedirect
				return tr
			}
		default:
			if tr != nil {
				f.resume = outcomeStop
				return tr
			}
			r.sink.emit(EventStopped, f.e, target, f.cur, "%s stops against %s", describe(f.e), describe(target))
			r.settle(f)
			return nil
		}
	}
}

// collide applies the effect of f's entity striking target at cell at.
// Unlisted pairs stop the slider.
func (r *Resolver) collide(f *frame, target *Entity, at Position, seen *mapset.Set[*Entity]) (outcome, *transfer) {
	s := f.e
	switch target.Kind {
	case KindFood:
		r.grid.Clear(target)
		target.Destroyed = true
		if s.IsActor() {
			s.Actor.Carried = append(s.Actor.Carried, *target.Item)
			r.sink.emit(EventConsumed, s, target, at, "%s eats %s", describe(s), target.Item)
			return outcomeConsumeStop, nil
		}
		r.sink.emit(EventDestroyed, target, s, at, "%s crushes %s", describe(s), target.Item)
		return outcomeConsumeContinue, nil

	case KindKing, KindEmperor, KindRoyal, KindRockhopper:
		if !s.IsActor() {
			return outcomeStop, nil
		}
		return outcomeStop, r.transferTo(f, target, f.dir, seen, EventPushed,
			fmt.Sprintf("%s pushes %s %s", describe(s), describe(target), f.dir))

	case KindHeavyBlock:
		if s.IsActor() {
			if dropped, ok := s.Actor.StripLightest(); ok {
				r.sink.emit(EventStripped, s, target, f.cur, "%s hits %s and drops %s", describe(s), describe(target), dropped)
			}
		}
		return outcomeStop, nil

	case KindLightBlock:
		if s.IsActor() {
			s.Actor.Stunned = true
			r.sink.emit(EventStunned, s, target, f.cur, "%s is stunned by %s", describe(s), describe(target))
		}
		return outcomeStop, r.transferTo(f, target, f.dir, seen, EventTransfer,
			fmt.Sprintf("%s sends %s sliding %s", describe(s), describe(target), f.dir))

	case KindSeaLion:
		switch {
		case s.IsActor():
			tr := r.transferTo(f, target, f.dir, seen, EventBounced,
				fmt.Sprintf("%s bounces off %s", describe(s), describe(target)))
			if tr == nil {
				return outcomeStop, nil
			}
			f.dir = f.dir.Reverse()
			return outcomeRedirect, tr
		case s.Kind == KindLightBlock:
			return outcomeStop, r.transferTo(f, target, f.dir, seen, EventTransfer,
				fmt.Sprintf("%s sends %s sliding %s", describe(s), describe(target), f.dir))
		}
		return outcomeStop, nil

	case KindHole:
		return outcomeStop, nil
	}
	return outcomeStop, nil
}

// transferTo records target as moved in this resolve. A target that already
// moved is not set in motion again.
func (r *Resolver) transferTo(f *frame, target *Entity, dir Direction, seen *mapset.Set[*Entity], ev EventType, msg string) *transfer {
	if seen.Has(target) {
		r.sink.emit(EventChainBlocked, f.e, target, f.cur, "%s already moved this turn", describe(target))
		return nil
	}
	seen.Put(target)
	r.sink.emit(ev, f.e, target, f.cur, "%s", msg)
	return &transfer{target: target, dir: dir}
}

// settle places f's entity at its last resolved cell.
func (r *Resolver) settle(f *frame) {
	r.grid.Place(f.e, f.cur)
	r.halt(f)
}

func (r *Resolver) halt(f *frame) {
	f.e.Moving = false
	f.e.Direction = f.dir
	if f.e.Kind == KindRockhopper && f.e.Actor.JumpArmed {
		f.e.Actor.JumpArmed = false
		r.sink.emit(EventJumpForfeit, f.e, nil, f.cur, "%s did not use the jump", describe(f.e))
	}
}

func (r *Resolver) fallOff(f *frame) {
	f.e.Pos = f.cur
	if f.e.IsActor() {
		f.e.Actor.Eliminated = true
		r.sink.emit(EventEliminated, f.e, nil, f.cur, "%s slides off the ice into the water", describe(f.e))
	} else {
		f.e.Destroyed = true
		r.sink.emit(EventDestroyed, f.e, nil, f.cur, "%s slides off the ice", describe(f.e))
	}
	r.halt(f)
}

func (r *Resolver) fallIn(f *frame, hole *Entity, at Position) {
	f.e.Pos = f.cur
	if f.e.IsActor() {
		f.e.Actor.Eliminated = true
		r.sink.emit(EventEliminated, f.e, hole, at, "%s falls into %s", describe(f.e), describe(hole))
	} else {
		f.e.Destroyed = true
		hole.Plugged = true
		r.grid.sinkToFloor(hole)
		r.sink.emit(EventPlugged, f.e, hole, at, "%s plugs %s", describe(f.e), describe(hole))
	}
	r.halt(f)
}
