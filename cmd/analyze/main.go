// Command analyze plays many all-AI games of each ruleset and prints balance
// heuristics: which penguin kinds win, how often each falls into the water,
// how many holes get plugged and how much food is left uneaten.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/sliding-penguins/game/config"
	"github.com/wricardo/sliding-penguins/game/engine"
)

// Report aggregates a sweep over seeds of one ruleset.
type Report struct {
	Config       string
	Games        int
	Wins         map[engine.Kind]int
	Appearances  map[engine.Kind]int
	Eliminations map[engine.Kind]int
	Plugged      int
	Stuns        int
	WinnerWeight int
	Ties         int
	HumanWins    int
}

func newReport(name string) *Report {
	return &Report{
		Config:       name,
		Wins:         make(map[engine.Kind]int),
		Appearances:  make(map[engine.Kind]int),
		Eliminations: make(map[engine.Kind]int),
	}
}

// add folds one finished game into the report.
func (r *Report) add(g *engine.Game) {
	r.Games++
	for _, a := range g.Actors() {
		r.Appearances[a.Kind]++
		if a.Actor.Eliminated {
			r.Eliminations[a.Kind]++
		}
	}
	for _, ev := range g.Events() {
		switch ev.Type {
		case engine.EventPlugged:
			r.Plugged++
		case engine.EventStunned:
			r.Stuns++
		}
	}

	st := g.Standings()
	if len(st) > 1 && st[0].TotalWeight == st[1].TotalWeight {
		r.Ties++
		return
	}
	r.Wins[st[0].Kind]++
	r.WinnerWeight += st[0].TotalWeight
	if st[0].Controlled {
		r.HumanWins++
	}
}

// sweep plays seeds [first, first+games) of cfg concurrently. Every
// penguin, the human one included, is driven by the policy.
func sweep(ctx context.Context, cfg *engine.GameConfig, first int64, games, workers int) (*Report, error) {
	report := newReport(cfg.Name)
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < games; i++ {
		seed := first + int64(i)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := engine.NewGame(cfg, &seed)
			if err != nil {
				return err
			}
			if err := g.PlayAll(g.Policy()); err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			mu.Lock()
			report.add(g)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Report) print(w io.Writer) {
	fmt.Fprintf(w, "\n=== %s: %d games ===\n", r.Config, r.Games)
	decided := r.Games - r.Ties
	if decided > 0 {
		fmt.Fprintf(w, "Average winning catch: %.1f units\n", float64(r.WinnerWeight)/float64(decided))
	}
	fmt.Fprintf(w, "Ties for first: %d\n", r.Ties)
	fmt.Fprintf(w, "Holes plugged: %.2f per game\n", perGame(r.Plugged, r.Games))
	fmt.Fprintf(w, "Stuns: %.2f per game\n", perGame(r.Stuns, r.Games))
	if r.HumanWins > 0 {
		fmt.Fprintf(w, "Human slot wins: %d\n", r.HumanWins)
	}

	kinds := make([]engine.Kind, 0, len(r.Appearances))
	for k := range r.Appearances {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Fprintf(w, "%-11s %6s %6s %8s %8s\n", "kind", "played", "wins", "win%", "sunk%")
	for _, k := range kinds {
		n := r.Appearances[k]
		fmt.Fprintf(w, "%-11s %6d %6d %7.1f%% %7.1f%%\n", k, n, r.Wins[k],
			percent(r.Wins[k], n), percent(r.Eliminations[k], n))
	}
	for _, k := range kinds {
		if sunk := percent(r.Eliminations[k], r.Appearances[k]); sunk > 50 {
			fmt.Fprintf(w, "⚠️  %s sinks in %.0f%% of games\n", k, sunk)
		}
	}
}

func perGame(n, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(n) / float64(games)
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return 100 * float64(n) / float64(of)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "sweep seeds of each ruleset and report balance statistics",
		ArgsUsage: "[ruleset ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory holding rulesets"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 200, Usage: "games per ruleset"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "first seed of the sweep"},
			&cli.IntFlag{Name: "workers", Value: 8, Usage: "games played in parallel"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			names := cmd.Args().Slice()
			if len(names) == 0 {
				infos, err := manager.ListConfigs()
				if err != nil {
					return err
				}
				for _, info := range infos {
					names = append(names, info.ConfigID)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("no rulesets in %s", cmd.String("config-dir"))
			}

			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			workers := cmd.Int("workers")
			if workers < 1 {
				workers = 1
			}
			for _, name := range names {
				cfg, err := manager.LoadConfig(name)
				if err != nil {
					return fmt.Errorf("load %s: %w", name, err)
				}
				report, err := sweep(ctx, cfg, cmd.Int64("seed"), cmd.Int("games"), workers)
				if err != nil {
					return err
				}
				report.print(out)
			}
			fmt.Fprintln(out, strings.Repeat("=", 40))
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
