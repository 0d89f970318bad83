// Package websocket pushes live game updates to browser clients.
//
// A client connects to /ws?session=<id> and from then on receives one JSON
// Message per frame whenever that session changes: the new GameState plus
// the events of the turns that produced it. Clients do not send commands;
// moves go through the REST API or MCP.
//
//	hub := websocket.NewHub(log)
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastState(sessionID, state, events)
//
// The Hub goroutine owns the client registry. Registration, removal and
// fan-out are all requests on its channels, and a slow client is dropped
// rather than allowed to stall other watchers.
package websocket
