package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/sliding-penguins/game/engine"
)

// humanProvider reads the controlled penguin's moves from a terminal and
// defers to the game's policy for everyone else.
type humanProvider struct {
	in  *bufio.Scanner
	out io.Writer
}

func newHumanProvider(in io.Reader, out io.Writer) *humanProvider {
	return &humanProvider{in: bufio.NewScanner(in), out: out}
}

func (h *humanProvider) Decide(g *engine.Game, actor *engine.Entity) (engine.Decision, error) {
	if !actor.Actor.Controlled {
		return g.Policy().Decide(g, actor)
	}

	var d engine.Decision
	if !actor.Actor.AbilityUsed {
		use, err := h.askYesNo(fmt.Sprintf("Use %s ability (%s)? [y/N] ", actor.Kind, actor.Kind.AbilityDescription()))
		if err != nil {
			return d, err
		}
		d.UseAbility = use
	}
	if d.UseAbility && actor.Kind == engine.KindRoyal {
		pre, err := h.askDirection("Pre-step direction [u/d/l/r]: ")
		if err != nil {
			return d, err
		}
		d.PreStep = &pre
	}

	dir, err := h.askDirection(fmt.Sprintf("%s slides [u/d/l/r]: ", actor.ID))
	if err != nil {
		return d, err
	}
	d.Direction = dir
	return d, nil
}

// askDirection prompts until a direction parses.
func (h *humanProvider) askDirection(prompt string) (engine.Direction, error) {
	for {
		line, err := h.ask(prompt)
		if err != nil {
			return engine.Up, err
		}
		dir, err := engine.ParseDirection(line)
		if err == nil {
			return dir, nil
		}
		fmt.Fprintln(h.out, "Please answer up, down, left or right.")
	}
}

func (h *humanProvider) askYesNo(prompt string) (bool, error) {
	for {
		line, err := h.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "n", "no":
			return false, nil
		case "y", "yes":
			return true, nil
		}
		fmt.Fprintln(h.out, "Please answer y or n.")
	}
}

func (h *humanProvider) ask(prompt string) (string, error) {
	fmt.Fprint(h.out, prompt)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(h.in.Text()), nil
}
