package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/sliding-penguins/game/engine"
	"github.com/wricardo/sliding-penguins/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sliding Penguins",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sliding Penguins - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Penguins slide across an ice floe eating fish. After the last round the
penguin carrying the most weight wins. You control one penguin; the others
are played by the computer.

AVAILABLE TOOLS:
- create_session: Start a game (optional config_id and seed)
- list_sessions / get_session: Inspect sessions
- game_state: Board, round and every penguin
- play_turn: Slide your penguin (up/down/left/right), optionally using its ability
- advance: Let computer penguins play (for all-computer games)
- standings: Current or final ranking
- event_history: What happened, turn by turn
- list_configs: Available rulesets
- describe_cell: What sits on one cell
- game_instructions: Full rules

NOTE: The 'intent' parameter on play_turn serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

var directionEnum = []string{"up", "down", "left", "right"}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. Computer penguins seated before yours play straight away.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Ruleset to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible game (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the round and every penguin",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_turn",
		Description: "Slide your penguin. The computer then plays until it is your turn again or the game ends.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Direction to slide",
				},
				"use_ability": map[string]interface{}{
					"type":        "boolean",
					"description": "Use your penguin's one-shot ability this turn",
				},
				"pre_step": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Royal penguins only: the single step taken before sliding when the ability is used",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handlePlayTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance",
		Description: "Let computer penguins play. Refused while it is your turn.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"slots": map[string]interface{}{
					"type":        "integer",
					"description": "Turns to play; 0 or omitted plays until your turn or the end",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "standings",
		Description: "Rank the penguins by carried weight",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleStandings)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the event log of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Events per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "asc for oldest first, desc for newest first",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rulesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what sits on one cell of the board (0-based coordinates, y grows downwards)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := args["seed"].(float64); ok {
		body["seed"] = int64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		session.ID, session.ConfigName, session.Seed, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil {
			if s.GameState.GameOver {
				status = "game over"
			} else {
				status = fmt.Sprintf("round %d/%d", s.GameState.Round, s.GameState.Rounds)
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlayTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/turn")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.TurnRequest{}
	req.Direction, _ = args["direction"].(string)
	req.UseAbility, _ = args["use_ability"].(bool)
	req.PreStep, _ = args["pre_step"].(string)
	// intent is for the caller's benefit only

	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", path, req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/advance")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slots := 0
	if v, ok := args["slots"].(float64); ok {
		slots = int(v)
	}

	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"slots": slots}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleStandings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/standings")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var standings service.StandingsResponse
	if err := c.apiCall(ctx, "GET", path, nil, &standings); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatStandings(&standings)), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/events")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		board := "random board"
		if cfg.FixedLayout {
			board = "fixed layout"
		}
		player := "computer only"
		if cfg.HumanPlayer {
			player = "you play one penguin"
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Floe: %dx%d, Penguins: %d, Rounds: %d, %s, %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Width, cfg.Height, cfg.Actors, cfg.Rounds, board, player)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(describeCell(&state, int(xf), int(yf))), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Sliding Penguins - Complete Instructions

GAME OBJECTIVE:
Eat as much fish as you can. After the last round the penguin carrying the
greatest total weight wins. Ties keep turn order.

TURNS:
Penguins act in turn order, one slide per turn. A round ends when every
penguin has had its slot. Stunned penguins lose their next turn; eliminated
penguins are out for good but keep their place in the standings.

MOVEMENT:
A slide keeps going cell by cell until something stops it:
• Empty ice: keep sliding
• Food (Kr Cr An Sq Ma): eaten, the slide stops there
• Heavy block (HB): stop in front of it and drop your lightest fish
• Light block (LB): it slides on in your direction, you are stunned
• Sea lion (SL): it slides on and you bounce back the way you came
• Another penguin: it is pushed and slides on, you stop
• Hole (HI): you fall in and are eliminated; a block sliding into a hole plugs it (PH) and plugged holes are safe ice
• Board edge: sliding off the floe eliminates you

ABILITIES (one use per game):
• King: stop after at most 5 cells
• Emperor: stop after at most 3 cells
• Royal: take one safe step before sliding (choose it with pre_step)
• Rockhopper: jump over the next hazard in your path

GRID LEGEND:
blank cell empty ice, P1 P2 ... penguins, HB heavy block, LB light block,
SL sea lion, HI open hole, PH plugged hole, Kr Cr An Sq Ma fish
Coordinates are (x,y) with (0,0) top-left and y growing downwards.

MOVEMENT COMMANDS:
play_turn with direction up, down, left or right. Add use_ability true to
fire your ability this turn. Computer penguins then play until it is your
turn again.

STRATEGY:
• Check describe_cell before sliding toward the edge or a hole
• A short slide with the King or Emperor ability can stop you on a fish
• Heavy blocks cost you your lightest fish; count the cost first

Good luck on the ice!`

// Formatting

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\nLast Accessed: %s\n\n",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	b.WriteString(formatGameState(session.GameState))
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}
	var b strings.Builder
	if state.GameOver {
		fmt.Fprintf(&b, "🏁 GAME OVER after %d rounds\n", state.Rounds)
	} else {
		fmt.Fprintf(&b, "Round: %d/%d\n", state.Round, state.Rounds)
		if state.Current != "" {
			fmt.Fprintf(&b, "Next: %s", state.Current)
			if state.AwaitingPlayer {
				b.WriteString(" (your turn)")
			}
			b.WriteString("\n")
		}
	}
	if state.Controlled != "" {
		fmt.Fprintf(&b, "You play: %s\n", state.Controlled)
	}
	b.WriteString("\n")
	b.WriteString(state.Board)
	b.WriteString("\nPenguins:\n")
	for _, a := range state.Actors {
		b.WriteString(formatActor(a))
	}
	if len(state.Standings) > 0 {
		b.WriteString("\n")
		b.WriteString(formatRanking(state.Standings))
	}
	return b.String()
}

func formatActor(a engine.ActorView) string {
	var flags []string
	if a.Controlled {
		flags = append(flags, "you")
	}
	if a.Eliminated {
		flags = append(flags, "eliminated")
	}
	if a.Stunned {
		flags = append(flags, "stunned")
	}
	if a.AbilityUsed {
		flags = append(flags, "ability used")
	}
	status := ""
	if len(flags) > 0 {
		status = " [" + strings.Join(flags, ", ") + "]"
	}
	where := a.Position.String()
	if a.Eliminated {
		where = "-"
	}
	return fmt.Sprintf("- %s %s at %s, carrying %d units%s\n", a.ID, a.Kind, where, a.TotalWeight, status)
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %d turn(s) played\n", result.TurnsPlayed)
	} else {
		b.WriteString("✗ Turn failed\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if len(result.Events) > 0 {
		b.WriteString("\nWhat happened:\n")
		for _, ev := range result.Events {
			if ev.Type == engine.EventTurnStart || ev.Type == engine.EventSlide {
				continue
			}
			fmt.Fprintf(&b, "  R%d %s\n", ev.Round, ev.Message)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatStandings(resp *service.StandingsResponse) string {
	header := fmt.Sprintf("Provisional standings (round %d):\n", resp.Round)
	if resp.Final {
		header = "Final standings:\n"
	}
	return header + formatRanking(resp.Standings)
}

func formatRanking(standings []engine.Standing) string {
	var b strings.Builder
	for _, s := range standings {
		note := ""
		if s.Controlled {
			note += " (you)"
		}
		if s.Eliminated {
			note += " (eliminated)"
		}
		fmt.Fprintf(&b, "%d. %s %s: %d units%s\n", s.Rank, s.ActorID, s.Kind, s.TotalWeight, note)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event History (Page %d/%d) - Total: %d\n\n", history.Page, history.TotalPages, history.TotalEvents)
	for _, ev := range history.Events {
		fmt.Fprintf(&b, "%d. [R%d] %s: %s\n", ev.Seq, ev.Round, ev.Type, ev.Message)
	}
	return b.String()
}

// cellNames spells out board symbols. Penguins show as their ID.
var cellNames = map[string]string{
	"":   "empty ice",
	"HB": "heavy block (stops you and strips your lightest fish)",
	"LB": "light block (slides on when struck, stuns you)",
	"SL": "sea lion (bounces you back)",
	"HI": "open hole (eliminates penguins that slide in)",
	"PH": "plugged hole (safe ice)",
	"Kr": "krill",
	"Cr": "crustacean",
	"An": "anchovy",
	"Sq": "squid",
	"Ma": "mackerel",
}

func describeCell(state *engine.GameState, x, y int) string {
	if y < 0 || y >= len(state.Grid) || x < 0 || x >= len(state.Grid[y]) {
		return fmt.Sprintf("(%d,%d) is off the floe: sliding there means falling into the sea", x, y)
	}
	symbol := state.Grid[y][x]
	for _, a := range state.Actors {
		if !a.Eliminated && a.Position.X == x && a.Position.Y == y {
			return fmt.Sprintf("(%d,%d) %s: %s penguin carrying %d units (ability: %s)",
				x, y, a.ID, a.Kind, a.TotalWeight, a.Ability)
		}
	}
	name, ok := cellNames[symbol]
	if !ok {
		name = "unknown"
	}
	if symbol == "" {
		symbol = ".."
	}
	return fmt.Sprintf("(%d,%d) %s: %s", x, y, symbol, name)
}
