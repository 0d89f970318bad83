// Package service is the application layer of the sliding penguins game.
//
// GameService owns sessions and rulesets and drives each session's engine:
// the human player's turn is played from a TurnRequest, after which the
// computer penguins play until the human is up again or the last round ends.
// All-AI sessions are stepped with Advance.
//
// Storage is behind two small interfaces so transports and tests can swap it:
// SessionManager keeps live sessions, ConfigManager loads rulesets.
//
//	sessions := session.NewManager()
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs, logging.Default())
//
//	info, err := svc.CreateSession(ctx, service.CreateOptions{ConfigName: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := svc.PlayTurn(ctx, info.ID, service.TurnRequest{Direction: "up"})
//
// Each session carries its own lock; requests against different sessions
// never wait on each other.
package service
