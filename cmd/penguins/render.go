package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/sliding-penguins/game/engine"
)

const legend = "Legend: P# penguin  HB heavy block  LB light block  SL sea lion  HI hole  PH plugged hole\n" +
	"        Kr krill  Cr crustacean  An anchovy  Sq squid  Ma mackerel"

func renderBoard(w io.Writer, g *engine.Game) {
	fmt.Fprintf(w, "\nRound %d of %d\n", g.Round(), g.Config().Rounds)
	fmt.Fprint(w, g.Grid().Render())
	fmt.Fprintln(w, legend)
	for _, a := range g.Actors() {
		status := ""
		switch {
		case a.Actor.Eliminated:
			status = " (eliminated)"
		case a.Actor.Stunned:
			status = " (stunned)"
		}
		you := ""
		if a.Actor.Controlled {
			you = " <- you"
		}
		fmt.Fprintf(w, "  %s %-10s at %-7s weight %2d%s%s\n", a.ID, a.Kind, a.Pos, a.Actor.TotalWeight(), status, you)
	}
}

// printEvents prints the turn's narration, leaving out per-cell slides.
func printEvents(w io.Writer, events []engine.Event) {
	for _, ev := range events {
		if ev.Type == engine.EventSlide {
			continue
		}
		fmt.Fprintf(w, "  %s\n", ev.Message)
	}
}

func printStandings(w io.Writer, standings []engine.Standing) {
	fmt.Fprintln(w, "\nFinal standings")
	for _, st := range standings {
		items := make([]string, 0, len(st.Carried))
		for _, it := range st.Carried {
			items = append(items, it.String())
		}
		note := ""
		if st.Eliminated {
			note = " (eliminated)"
		}
		fmt.Fprintf(w, "%d. %s %s: %d [%s]%s\n", st.Rank, st.ActorID, st.Kind, st.TotalWeight, strings.Join(items, ", "), note)
	}
}
