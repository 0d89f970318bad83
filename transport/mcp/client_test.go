package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/sliding-penguins/game/engine"
	"github.com/wricardo/sliding-penguins/game/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func sampleState() *engine.GameState {
	return &engine.GameState{
		Seed:           11,
		Width:          3,
		Height:         2,
		Round:          2,
		Rounds:         4,
		Current:        "P1",
		Controlled:     "P1",
		AwaitingPlayer: true,
		Grid:           [][]string{{"P1", "", "HB"}, {"Kr", "HI", "P2"}},
		Board:          "(board)\n",
		Actors: []engine.ActorView{
			{ID: "P1", Kind: engine.KindRoyal, Ability: "take one safe step before sliding", Position: engine.Position{X: 0, Y: 0}, Controlled: true, TotalWeight: 3},
			{ID: "P2", Kind: engine.KindKing, Position: engine.Position{X: 2, Y: 1}, Stunned: true},
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{"error": "session not found: zz99", "code": 404})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var response map[string]interface{}
	if err := client.apiCall(ctx, "GET", "/ok", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}

	err := client.apiCall(ctx, "GET", "/missing", nil, nil)
	if err == nil || err.Error() != "session not found: zz99" {
		t.Errorf("Expected the API error message, got %v", err)
	}

	err = client.apiCall(ctx, "GET", "/broken", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error: 500") {
		t.Errorf("Expected 'API error: 500', got %v", err)
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}

func TestClient_createSession(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			ConfigName: "classic",
			Seed:       99,
			GameState:  sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "classic",
		"seed":      float64(99),
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created session: ab12", "Config: classic", "Seed: 99", "Next: P1 (your turn)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
	if body["config_id"] != "classic" || body["seed"] != float64(99) {
		t.Errorf("Unexpected request body %v", body)
	}
}

func TestClient_playTurn(t *testing.T) {
	var got service.TurnRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/turn" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.TurnResult{
			Success:     true,
			TurnsPlayed: 2,
			Message:     "Round 3: your move, P1",
			Events: []engine.Event{
				{Seq: 4, Round: 2, Type: engine.EventTurnStart, Message: "P1 moves up"},
				{Seq: 5, Round: 2, Type: engine.EventConsumed, Message: "P1 eats Kr (3 units)"},
			},
			GameState: sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handlePlayTurn(context.Background(), callTool("play_turn", map[string]interface{}{
		"session_id":  "ab12",
		"direction":   "up",
		"use_ability": true,
		"pre_step":    "left",
		"intent":      "grab the krill",
	}))
	if err != nil {
		t.Fatalf("playTurn failed: %v", err)
	}

	if got.Direction != "up" || !got.UseAbility || got.PreStep != "left" {
		t.Errorf("Request not forwarded: %+v", got)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "✓ 2 turn(s) played") || !strings.Contains(text, "P1 eats Kr (3 units)") {
		t.Errorf("Unexpected result: %s", text)
	}
	if strings.Contains(text, "P1 moves up") {
		t.Errorf("Expected turn_start events to be left out: %s", text)
	}
}

func TestClient_missingSessionID(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"game_state":    client.handleGameState,
		"play_turn":     client.handlePlayTurn,
		"advance":       client.handleAdvance,
		"standings":     client.handleStandings,
		"event_history": client.handleEventHistory,
		"get_session":   client.handleGetSession,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callTool(name, nil))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !result.IsError || !strings.Contains(resultText(t, result), "session_id is required") {
				t.Errorf("Expected a session_id error, got %+v", result)
			}
		})
	}
}

func TestClient_eventHistoryQuery(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Events:      []engine.Event{{Seq: 9, Round: 4, Type: engine.EventGameOver, Message: "Game over"}},
			TotalEvents: 9,
			Page:        1,
			TotalPages:  9,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleEventHistory(context.Background(), callTool("event_history", map[string]interface{}{
		"session_id": "ab12",
		"limit":      float64(1),
		"order":      "desc",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if query != "limit=1&order=desc" {
		t.Errorf("Unexpected query %q", query)
	}
	if text := resultText(t, result); !strings.Contains(text, "9. [R4] game_over: Game over") {
		t.Errorf("Unexpected history: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	result := formatGameState(sampleState())

	for _, want := range []string{
		"Round: 2/4",
		"Next: P1 (your turn)",
		"You play: P1",
		"(board)",
		"- P1 royal at (0,0), carrying 3 units [you]",
		"- P2 king at (2,1), carrying 0 units [stunned]",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in formatted output, got: %s", want, result)
		}
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	state := sampleState()
	state.GameOver = true
	state.Standings = []engine.Standing{
		{Rank: 1, ActorID: "P1", Kind: engine.KindRoyal, TotalWeight: 3, Controlled: true},
		{Rank: 2, ActorID: "P2", Kind: engine.KindKing, Eliminated: true},
	}

	result := formatGameState(state)
	for _, want := range []string{"GAME OVER after 4 rounds", "1. P1 royal: 3 units (you)", "2. P2 king: 0 units (eliminated)"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in result, got: %s", want, result)
		}
	}
	if formatGameState(nil) != "Game state unavailable" {
		t.Error("Expected a placeholder for a missing state")
	}
}

func TestDescribeCell(t *testing.T) {
	state := sampleState()
	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "P1: royal penguin carrying 3 units"},
		{1, 0, "(1,0) ..: empty ice"},
		{2, 0, "heavy block"},
		{0, 1, "krill"},
		{1, 1, "open hole"},
		{5, 0, "off the floe"},
		{0, -1, "off the floe"},
	}
	for _, tt := range tests {
		if got := describeCell(state, tt.x, tt.y); !strings.Contains(got, tt.want) {
			t.Errorf("describeCell(%d,%d) = %q, want it to contain %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{
		"Sliding Penguins - Complete Instructions",
		"GAME OBJECTIVE:",
		"MOVEMENT:",
		"ABILITIES (one use per game):",
		"GRID LEGEND:",
		"MOVEMENT COMMANDS:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}
