package engine

import (
	"fmt"
)

// GameConfig is a ruleset. Boards are generated at random from the counts,
// unless Layout fixes every cell.
type GameConfig struct {
	Name          string   `json:"name" yaml:"name" jsonschema:"required,description=Display name of the ruleset"`
	Description   string   `json:"description" yaml:"description"`
	Width         int      `json:"width" yaml:"width" jsonschema:"required,minimum=3,maximum=40"`
	Height        int      `json:"height" yaml:"height" jsonschema:"required,minimum=3,maximum=40"`
	ActorCount    int      `json:"actor_count,omitempty" yaml:"actor_count,omitempty" jsonschema:"minimum=0,maximum=9"`
	HazardCount   int      `json:"hazard_count,omitempty" yaml:"hazard_count,omitempty" jsonschema:"minimum=0"`
	FoodCount     int      `json:"food_count,omitempty" yaml:"food_count,omitempty" jsonschema:"minimum=0"`
	Rounds        int      `json:"rounds" yaml:"rounds" jsonschema:"required,minimum=1,maximum=50"`
	AbilityChance int      `json:"ability_chance" yaml:"ability_chance" jsonschema:"minimum=0,maximum=100"`
	HumanPlayer   bool     `json:"human_player" yaml:"human_player"`
	Layout        []string `json:"layout,omitempty" yaml:"layout,omitempty" jsonschema:"description=Rows using . A B C D H L S O o and 1-5"`
}

// DefaultGameConfig returns the classic 10x10 ruleset.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:          "classic",
		Description:   "Three penguins, fifteen hazards and twenty fish on a 10x10 floe",
		Width:         DefaultGridSize,
		Height:        DefaultGridSize,
		ActorCount:    DefaultActorCount,
		HazardCount:   DefaultHazardCount,
		FoodCount:     DefaultFoodCount,
		Rounds:        DefaultRounds,
		AbilityChance: DefaultAbilityChance,
		HumanPlayer:   true,
	}
}

// layoutCell is one decoded layout character.
type layoutCell struct {
	kind    Kind
	weight  int
	plugged bool
}

// parseLayoutCell decodes a layout character. ok is false for unknown
// characters; empty is true for '.'.
func parseLayoutCell(ch rune) (cell layoutCell, empty, ok bool) {
	switch ch {
	case '.':
		return cell, true, true
	case 'A':
		return layoutCell{kind: KindKing}, false, true
	case 'B':
		return layoutCell{kind: KindEmperor}, false, true
	case 'C':
		return layoutCell{kind: KindRoyal}, false, true
	case 'D':
		return layoutCell{kind: KindRockhopper}, false, true
	case 'H':
		return layoutCell{kind: KindHeavyBlock}, false, true
	case 'L':
		return layoutCell{kind: KindLightBlock}, false, true
	case 'S':
		return layoutCell{kind: KindSeaLion}, false, true
	case 'O':
		return layoutCell{kind: KindHole}, false, true
	case 'o':
		return layoutCell{kind: KindHole, plugged: true}, false, true
	}
	if ch >= '1' && ch <= '5' {
		return layoutCell{kind: KindFood, weight: int(ch - '0')}, false, true
	}
	return cell, false, false
}

// edgeCells is the number of cells on the border of a width x height board.
func edgeCells(width, height int) int {
	if width == 1 || height == 1 {
		return width * height
	}
	return 2*width + 2*height - 4
}

// ValidateGameConfig validates a ruleset for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}
	if config.Rounds < 1 || config.Rounds > MaxRounds {
		return fmt.Errorf("config validation: rounds must be between 1 and %d, got %d", MaxRounds, config.Rounds)
	}
	if config.AbilityChance < 0 || config.AbilityChance > MaxAbilityChance {
		return fmt.Errorf("config validation: ability_chance must be between 0 and %d, got %d", MaxAbilityChance, config.AbilityChance)
	}

	if len(config.Layout) > 0 {
		return validateLayout(config)
	}

	if config.ActorCount < 1 || config.ActorCount > MaxActors {
		return fmt.Errorf("config validation: actor_count must be between 1 and %d, got %d", MaxActors, config.ActorCount)
	}
	if edges := edgeCells(config.Width, config.Height); config.ActorCount > edges {
		return fmt.Errorf("config validation: actor_count %d does not fit on %d edge cells", config.ActorCount, edges)
	}
	if config.HazardCount < 0 {
		return fmt.Errorf("config validation: hazard_count cannot be negative, got %d", config.HazardCount)
	}
	if config.FoodCount < 0 {
		return fmt.Errorf("config validation: food_count cannot be negative, got %d", config.FoodCount)
	}
	total := config.ActorCount + config.HazardCount + config.FoodCount
	if cells := config.Width * config.Height; total > cells {
		return fmt.Errorf("config validation: %d entities do not fit on %d cells", total, cells)
	}
	return nil
}

func validateLayout(config *GameConfig) error {
	if len(config.Layout) != config.Height {
		return fmt.Errorf("config validation: layout must have %d rows to match height, got %d",
			config.Height, len(config.Layout))
	}

	actors := 0
	for i, row := range config.Layout {
		if len(row) != config.Width {
			return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d",
				i+1, config.Width, len(row))
		}
		for j, ch := range row {
			cell, empty, ok := parseLayoutCell(ch)
			if !ok {
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", ch, i+1, j+1)
			}
			if !empty && cell.kind.IsActor() {
				actors++
			}
		}
	}

	if actors == 0 {
		return fmt.Errorf("config validation: layout must contain at least one penguin (A, B, C or D)")
	}
	if actors > MaxActors {
		return fmt.Errorf("config validation: layout holds %d penguins, at most %d allowed", actors, MaxActors)
	}
	return nil
}

// CountLayout returns how many actors, hazards and foods a layout places.
func CountLayout(layout []string) (actors, hazards, foods int) {
	for _, row := range layout {
		for _, ch := range row {
			cell, empty, ok := parseLayoutCell(ch)
			if !ok || empty {
				continue
			}
			switch {
			case cell.kind.IsActor():
				actors++
			case cell.kind.IsObstacle():
				hazards++
			case cell.kind.IsItem():
				foods++
			}
		}
	}
	return actors, hazards, foods
}
