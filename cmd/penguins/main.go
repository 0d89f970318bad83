// Command penguins plays Sliding Penguins in the terminal. The controlled
// penguin, if the ruleset has one, is driven from standard input; every other
// penguin uses the built-in policy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/sliding-penguins/game/config"
	"github.com/wricardo/sliding-penguins/game/engine"
	"github.com/wricardo/sliding-penguins/logging"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "penguins",
		Usage: "slide penguins across the ice and collect the heaviest catch",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory holding rulesets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "ruleset to play (default: the directory's default)"},
			&cli.Int64Flag{Name: "seed", Aliases: []string{"s"}, Usage: "random seed; unset draws one from the clock"},
			&cli.BoolFlag{Name: "auto", Usage: "let the computer play the controlled penguin too"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "log level", Sources: cli.EnvVars("LOG_LEVEL")},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log, err := logging.New(cmd.String("log-level"), "text")
	if err != nil {
		return err
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	cfg := manager.GetDefault()
	if name := cmd.String("config"); name != "" {
		if cfg, err = manager.LoadConfig(name); err != nil {
			return fmt.Errorf("load ruleset %s: %w", name, err)
		}
	}

	var seed *int64
	if cmd.IsSet("seed") {
		s := cmd.Int64("seed")
		seed = &s
	}
	game, err := engine.NewGame(cfg, seed)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"config": cfg.Name, "seed": game.Seed()}).Info("Game created")

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	in := cmd.Root().Reader
	if in == nil {
		in = os.Stdin
	}
	return play(ctx, game, in, out, cmd.Bool("auto"))
}

// play runs game to the end, printing the board before each human move and
// the standings at the end.
func play(ctx context.Context, game *engine.Game, in io.Reader, out io.Writer, auto bool) error {
	fmt.Fprintf(out, "%s (seed %d), %d rounds\n", game.Config().Name, game.Seed(), game.Config().Rounds)

	var provider engine.DecisionProvider = game.Policy()
	if !auto && game.Controlled() != nil {
		provider = newHumanProvider(in, out)
	}

	for !game.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if game.AwaitingPlayer() && !auto {
			renderBoard(out, game)
		}
		events, err := game.Step(provider)
		if err != nil {
			return err
		}
		printEvents(out, events)
	}

	renderBoard(out, game)
	printStandings(out, game.Standings())
	return nil
}
