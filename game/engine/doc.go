// Package engine provides the core game logic for Sliding Penguins.
//
// The engine package implements the game mechanics including:
//   - The grid store and the penguin, hazard and food entities on it
//   - Sliding movement with chained collisions (push, stun, bounce, plug)
//   - One-shot penguin abilities and the computer player's policy
//   - The round-based turn order and the final standings
//   - Ruleset validation
//
// Core Types:
//
// Game owns one match: the Grid, the roster of penguins and the turn order.
// Resolver slides a single entity and everything it sets in motion, using an
// explicit work stack. Policy implements DecisionProvider for AI penguins.
// GameConfig describes a ruleset, either counts for a random board or a
// fixed layout.
//
// Usage:
//
//	seed := int64(42)
//	game, err := engine.NewGame(engine.DefaultGameConfig(), &seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Let the computer play every penguin
//	if err := game.PlayAll(game.Policy()); err != nil {
//		log.Fatal(err)
//	}
//	for _, s := range game.Standings() {
//		fmt.Println(s.Rank, s.ActorID, s.TotalWeight)
//	}
//
// Game Rules:
//
// Penguins slide across the ice until something stops them. Food stops a
// penguin and is eaten, heavy blocks knock the lightest fish out of its
// beak, light blocks stun it and slide on, sea lions bounce it back, and
// holes in the ice swallow it unless a sliding block has plugged them.
// Sliding off the edge of the floe eliminates a penguin. After the last
// round the penguin carrying the most weight wins.
package engine
