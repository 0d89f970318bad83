// Package config provides ruleset management for the Sliding Penguins game server.
//
// The config package handles:
//   - Loading rulesets from JSON and YAML files
//   - Caching loaded rulesets and collapsing concurrent loads
//   - Default ruleset selection
//   - Ruleset discovery and listing
//   - The JSON Schema of the ruleset format
//
// Configuration Format:
//
// Rulesets are stored as .json, .yaml or .yml files in the configs directory.
// Each ruleset defines either counts for a randomly generated floe
// (actor_count, hazard_count, food_count) or a fixed layout using the legend
// . empty, A-D penguins, H heavy block, L light block, S sea lion, O hole,
// o plugged hole and 1-5 food of that weight.
//
// Available Configurations:
//   - classic: the original 10x10 floe with three penguins
//   - solo: a smaller floe where one penguin is yours
//   - gauntlet: a fixed layout full of chain reactions
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("solo")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
