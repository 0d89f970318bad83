// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, so an MCP agent and a browser can watch and play the same
// session. Results are rendered as plain text an agent can read.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, describe_cell
//   - play_turn, advance
//   - standings, event_history
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
