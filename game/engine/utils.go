package engine

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

var (
	ErrUnknownActor     = errors.New("unknown penguin")
	ErrActorEliminated  = errors.New("penguin is eliminated")
	ErrGameOver         = errors.New("game is over")
	ErrNotActorsTurn    = errors.New("not this penguin's turn")
	ErrAwaitingPlayer   = errors.New("waiting for the player's move")
	ErrInvalidDirection = errors.New("invalid direction")
)

// ParseDirection accepts up/down/left/right and their first letters, in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Up, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func actorID(seq int) string {
	return fmt.Sprintf("P%d", seq)
}

// checksum hashes the board symbols and every actor's state.
func checksum(grid *Grid, actors []*Entity) string {
	h := fnv.New64a()
	for _, row := range grid.Snapshot() {
		for _, sym := range row {
			fmt.Fprintf(h, "%-2s|", sym)
		}
		h.Write([]byte{'\n'})
	}
	for _, a := range actors {
		fmt.Fprintf(h, "%s:%d:%d:%t:%t:%t:", a.ID, a.Pos.X, a.Pos.Y,
			a.Actor.Eliminated, a.Actor.Stunned, a.Actor.AbilityUsed)
		for _, it := range a.Actor.Carried {
			fmt.Fprintf(h, "%s%d,", it.Food.Symbol(), it.Weight)
		}
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
