// Package api serves the game over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                  create ({config_id, seed})
//   - GET    /api/sessions                  list (?sort=created|accessed&order=asc|desc&limit=N&config=ID)
//   - GET    /api/sessions/{id}             session info with state
//   - DELETE /api/sessions/{id}             delete
//
// Play:
//   - GET  /api/sessions/{id}/state         current GameState
//   - POST /api/sessions/{id}/turn          human turn ({direction, use_ability, pre_step})
//   - POST /api/sessions/{id}/advance       computer turns ({slots} or ?slots=N, 0 plays until the human is up)
//   - GET  /api/sessions/{id}/standings     ranking, final once the game is over
//   - GET  /api/sessions/{id}/events        event log (?page=&limit=&order=asc|desc)
//
// Rulesets:
//   - GET  /api/configs                     list
//   - POST /api/configs                     save a ruleset
//   - GET  /api/configs/schema              JSON Schema of a ruleset
//   - GET  /api/configs/{name}              one ruleset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                  live updates, see package websocket
//
// Errors are JSON with a status code mapped from the service error:
//
//	{"error": "session not found: ab12", "code": 404}
//
// 404 for unknown sessions and rulesets, 400 for malformed requests and
// invalid rulesets, 409 when the game state forbids the action (game over,
// not the player's turn, no human player).
package api
