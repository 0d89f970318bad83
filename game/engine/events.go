package engine

import "fmt"

// EventType names a notable action produced while a turn runs.
type EventType string

const (
	EventTurnStart    EventType = "turn_start"
	EventTurnSkipped  EventType = "turn_skipped"
	EventAbilityUsed  EventType = "ability_used"
	EventPreStep      EventType = "pre_step"
	EventSlide        EventType = "slide"
	EventStopped      EventType = "stopped"
	EventStepLimit    EventType = "step_limit"
	EventConsumed     EventType = "consumed"
	EventStripped     EventType = "stripped"
	EventStunned      EventType = "stunned"
	EventPushed       EventType = "pushed"
	EventBounced      EventType = "bounced"
	EventTransfer     EventType = "transfer"
	EventJumped       EventType = "jumped"
	EventJumpFailed   EventType = "jump_failed"
	EventJumpForfeit  EventType = "jump_forfeited"
	EventPlugged      EventType = "plugged"
	EventEliminated   EventType = "eliminated"
	EventDestroyed    EventType = "destroyed"
	EventChainBlocked EventType = "chain_blocked"
	EventRoundStart   EventType = "round_start"
	EventGameOver     EventType = "game_over"
)

// Event is a log record for renderers. It carries no control meaning.
type Event struct {
	Seq      int       `json:"seq"`
	Round    int       `json:"round"`
	Actor    string    `json:"actor,omitempty"`
	Type     EventType `json:"type"`
	Entity   string    `json:"entity,omitempty"`
	Target   string    `json:"target,omitempty"`
	Position *Position `json:"position,omitempty"`
	Message  string    `json:"message"`
}

func (e Event) String() string {
	return e.Message
}

// eventSink collects events emitted while resolving.
type eventSink func(Event)

func (s eventSink) emit(t EventType, subject, target *Entity, at Position, format string, args ...any) {
	if s == nil {
		return
	}
	ev := Event{Type: t, Message: fmt.Sprintf(format, args...), Position: &at}
	if subject != nil {
		ev.Entity = subject.ID
	}
	if target != nil {
		ev.Target = target.ID
	}
	s(ev)
}

func describe(e *Entity) string {
	switch {
	case e.IsActor():
		return e.ID
	case e.IsItem():
		return e.Item.Food.String()
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.ID)
	}
}
