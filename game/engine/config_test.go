package engine

import (
	"strings"
	"testing"
)

func createValidConfig() *GameConfig {
	return &GameConfig{
		Name:          "Test Config",
		Description:   "A test configuration",
		Width:         5,
		Height:        4,
		Rounds:        3,
		AbilityChance: 50,
		Layout: []string{
			"A...B",
			".H1L.",
			".S2O.",
			"C.o.D",
		},
	}
}

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	if err := ValidateGameConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
	if err := ValidateGameConfig(DefaultGameConfig()); err != nil {
		t.Errorf("Expected default config to pass validation, got error: %v", err)
	}
}

func TestValidateGameConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GameConfig)
		expect string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"narrow board", func(c *GameConfig) { c.Width = 2 }, "width must be between"},
		{"tall board", func(c *GameConfig) { c.Height = 41 }, "height must be between"},
		{"no rounds", func(c *GameConfig) { c.Rounds = 0 }, "rounds must be between"},
		{"chance too high", func(c *GameConfig) { c.AbilityChance = 101 }, "ability_chance must be between"},
		{"row count", func(c *GameConfig) { c.Layout = c.Layout[:3] }, "layout must have 4 rows"},
		{"row width", func(c *GameConfig) { c.Layout[1] = ".H1L" }, "row 2 must have 5 characters"},
		{"bad character", func(c *GameConfig) { c.Layout[2] = ".S9O." }, "invalid character '9' at row 3, col 3"},
		{"no penguins", func(c *GameConfig) {
			c.Layout = []string{".....", ".H1L.", ".S2O.", "..o.."}
		}, "at least one penguin"},
		{"too many penguins", func(c *GameConfig) {
			c.Layout = []string{"AAAAA", "AAAAA", ".....", "....."}
		}, "at most 9 allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)
			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.expect) {
				t.Errorf("Expected error containing %q, got %v", tt.expect, err)
			}
		})
	}
}

func TestValidateGameConfig_RandomBoard(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GameConfig)
		expect string
	}{
		{"no penguins", func(c *GameConfig) { c.ActorCount = 0 }, "actor_count must be between"},
		{"too many penguins", func(c *GameConfig) { c.ActorCount = 10 }, "actor_count must be between"},
		{"negative hazards", func(c *GameConfig) { c.HazardCount = -1 }, "hazard_count cannot be negative"},
		{"negative food", func(c *GameConfig) { c.FoodCount = -2 }, "food_count cannot be negative"},
		{"edge too short", func(c *GameConfig) {
			c.Width, c.Height, c.ActorCount, c.HazardCount, c.FoodCount = 3, 3, 9, 0, 0
		}, "does not fit on 8 edge cells"},
		{"board too small", func(c *GameConfig) {
			c.Width, c.Height, c.HazardCount, c.FoodCount = 3, 3, 5, 5
		}, "do not fit on 9 cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGameConfig()
			tt.mutate(config)
			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.expect) {
				t.Errorf("Expected error containing %q, got %v", tt.expect, err)
			}
		})
	}
}

func TestValidateGameConfig_Nil(t *testing.T) {
	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestCountLayout(t *testing.T) {
	actors, hazards, foods := CountLayout(createValidConfig().Layout)
	if actors != 4 || hazards != 5 || foods != 2 {
		t.Errorf("Expected 4 penguins, 5 hazards and 2 foods, got %d, %d, %d", actors, hazards, foods)
	}
}

func TestNewGame_FromLayout(t *testing.T) {
	seed := int64(7)
	g, err := NewGame(createValidConfig(), &seed)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	expectedKinds := []Kind{KindKing, KindEmperor, KindRoyal, KindRockhopper}
	actors := g.Actors()
	if len(actors) != len(expectedKinds) {
		t.Fatalf("Expected %d penguins, got %d", len(expectedKinds), len(actors))
	}
	for i, a := range actors {
		if a.Kind != expectedKinds[i] {
			t.Errorf("P%d: expected %s, got %s", i+1, expectedKinds[i], a.Kind)
		}
	}

	snap := g.Snapshot()
	checks := map[Position]string{
		{X: 0, Y: 0}: "P1",
		{X: 4, Y: 0}: "P2",
		{X: 1, Y: 1}: "HB",
		{X: 2, Y: 1}: "Kr",
		{X: 3, Y: 1}: "LB",
		{X: 1, Y: 2}: "SL",
		{X: 2, Y: 2}: "Cr",
		{X: 3, Y: 2}: "HI",
		{X: 0, Y: 3}: "P3",
		{X: 2, Y: 3}: "PH",
		{X: 4, Y: 3}: "P4",
	}
	for pos, want := range checks {
		if got := snap[pos.Y][pos.X]; got != want {
			t.Errorf("At %s expected %q, got %q", pos, want, got)
		}
	}
	if g.Controlled() != nil {
		t.Error("Expected no controlled penguin without human_player")
	}
}
