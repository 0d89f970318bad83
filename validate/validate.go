// Command validate checks the rulesets in a configs directory (default
// ./configs, or the first argument). For each .json, .yaml or .yml file it
// reports:
//   - parse and schema errors from the config loader
//   - food-less floes, which can never produce a winner
//   - penguins that start with no safe first move
//
// It exits non-zero if any ruleset is invalid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/sliding-penguins/game/config"
	"github.com/wricardo/sliding-penguins/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// probeSeed builds the board that layout checks run against. Fixed layouts
// only use the seed to pick the human penguin.
const probeSeed int64 = 1

// validateConfig loads and validates a single ruleset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	cfg, err := config.Parse(filePath, data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	actors, hazards, foods := cfg.ActorCount, cfg.HazardCount, cfg.FoodCount
	if len(cfg.Layout) > 0 {
		actors, hazards, foods = engine.CountLayout(cfg.Layout)
	}
	if foods == 0 {
		result.fail("Must have at least 1 food item")
	}

	stranded := strandedPenguins(cfg)
	for _, s := range stranded {
		result.fail("Stranded: %s", s)
	}

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Name: %s", cfg.Name),
			fmt.Sprintf("✓ Grid: %dx%d", cfg.Width, cfg.Height),
			fmt.Sprintf("✓ Penguins: %d (human: %t)", actors, cfg.HumanPlayer),
			fmt.Sprintf("✓ Hazards: %d", hazards),
			fmt.Sprintf("✓ Food: %d", foods),
			fmt.Sprintf("✓ Rounds: %d, ability chance %d%%", cfg.Rounds, cfg.AbilityChance),
		)
	}
	return result
}

// strandedPenguins lists the penguins of a fixed layout whose every first
// move is unsafe. Random boards differ per seed and are not checked.
func strandedPenguins(cfg *engine.GameConfig) []string {
	if len(cfg.Layout) == 0 {
		return nil
	}
	seed := probeSeed
	game, err := engine.NewGame(cfg, &seed)
	if err != nil {
		return []string{err.Error()}
	}

	var out []string
	grid := game.Grid()
	for _, a := range game.Actors() {
		safe := false
		for _, d := range engine.ScanOrder {
			if grid.IsSafe(a.Pos, d) {
				safe = true
				break
			}
		}
		if !safe {
			out = append(out, fmt.Sprintf("%s %s at %s has no safe move", a.ID, a.Kind, a.Pos))
		}
	}
	return out
}

// validateDir validates every ruleset file in dir, sorted by name.
func validateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			if !e.IsDir() {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, f := range files {
		results = append(results, validateConfig(f))
	}
	return results, nil
}

// report prints one block per result and reports whether all were valid.
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check every ruleset in a configs directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configDir := "configs"
			if cmd.Args().Present() {
				configDir = cmd.Args().First()
			}

			results, err := validateDir(configDir)
			if err != nil {
				return fmt.Errorf("read config directory: %w", err)
			}
			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			if !report(out, results) {
				return errInvalid
			}
			return nil
		},
	}
}

var errInvalid = errors.New("some configurations are invalid")

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
