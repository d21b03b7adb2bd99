package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/game/service"
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

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mushroom Man",
		"3.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mushroom Man - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk the player (@) to the exit (e) of every level in the pack. Levels are
grids of items, obstacles and hazards; the grid is redrawn after every move.

AVAILABLE TOOLS:
- game_state: Get current game state
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- reset_game: Restart the current level
- select_level: Jump to a level by number, or to the next/previous level
- move_history: View past moves
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_packs: List available level packs
- game_instructions: Get the rules and the cell legend
- describe_cell: Get detailed info about a specific grid cell

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally choosing a level pack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pack_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level pack to play (optional, see list_packs)",
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
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart the level before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first move that fails", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart the level before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart the current level with an empty inventory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_level",
		Description: "Jump to a level by its number, or to the next or previous level of the pack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "Level number as shown in game_state",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"next", "previous"},
					"description": "Move relative to the current level instead of by number",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSelectLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_packs",
		Description: "List available level packs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPacks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific cell of the board, including what happens when the player walks into it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell to describe (0-based, from the top)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell to describe (0-based, from the left)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
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
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// toolArgs returns the call arguments, or an empty map when none were sent
func toolArgs(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	packID, _ := args["pack_id"].(string)

	body := map[string]string{}
	if packID != "" {
		body["pack_id"] = packID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPack: %s\n", session.ID, session.PackID)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := 0
		if s.GameState != nil {
			level = s.GameState.Level
		}
		fmt.Fprintf(&b, "- %s (Pack: %s, Level: %d, Created: %s)\n",
			s.ID, s.PackID, level, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := toolArgs(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := toolArgs(request)["session_id"].(string)

	var state engine.Snapshot
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	// intent is only there for the caller's benefit

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if s, ok := m.(string); ok {
			moves = append(moves, s)
		}
	}
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must be a non-empty array of directions"), nil
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/bulk-move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := toolArgs(request)["session_id"].(string)

	var response struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}
	err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Level restarted\n\n"
	if response.State != nil {
		result += formatGameState(response.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSelectLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	sessionID, _ := args["session_id"].(string)

	var req service.LevelRequest
	req.Direction, _ = args["direction"].(string)
	req.Level, _ = intArg(args, "level")
	if req.Direction == "" && req.Level == 0 {
		return mcp.NewToolResultError("either level or direction is required"), nil
	}

	var state engine.Snapshot
	err := c.apiCall("POST", sessionPath(sessionID, "/level"), req, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok && page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok && limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", path, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListPacks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var packs []service.PackInfo
	err := c.apiCall("GET", "/api/packs", nil, &packs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Level Packs (%d):\n\n", len(packs))
	for _, p := range packs {
		def := ""
		if p.Default {
			def = " [default]"
		}
		fmt.Fprintf(&b, "- %s: %d levels, numbered %d-%d%s\n",
			p.PackID, p.Levels, p.FirstLevel, p.FirstLevel+p.Levels-1, def)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	sessionID, _ := args["session_id"].(string)
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}

	var state engine.Snapshot
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, row, col)), nil
}

const gameInstructions = `Mushroom Man - Complete Instructions

GAME OBJECTIVE:
Reach the exit (e) of the current level to advance to the next one. Finish
the last level of the pack to complete it. Walking into a hazard kills the
player; restart the level with reset_game.

BOARD LEGEND:
@ = You (the player)
. = Empty floor
s = Start cell (walkable)
w = Wall, i = Metal wall (impassable)
f = Money, k = Key, c = Cement, o = Oxygen (picked up by walking in)
g = Guard: takes one money to pass, blocked without it
l = Lock: opens with one key, blocked without it
h = Hole: one cement fills it, without cement you fall in
~ = Water: one oxygen to swim through, without oxygen you drown
j = Jelly bean: pushed one cell ahead if the cell behind it is empty
b = Bomb: explodes when touched, clearing the cells around it
n = Gun: fires in the direction you walk, clearing two cells
d = Barrel (impassable, but deadly inside a blast)
t = Teleport (not yet supported)
e = Exit: advances to the next level
# = Outside the board (only in the 3x3 local view)

COORDINATES:
Positions are (row,col), 0-based, row 0 at the top. "up" decreases the row,
"left" decreases the column.

ITEMS AND HAZARDS:
- Inventory resets to zero whenever a level is entered or restarted.
- A blast or shot that reaches a barrel or the exit kills the player.
- Moving off the edge of the board does nothing.

MOVEMENT COMMANDS:
- move: one step, with an intent explaining why
- bulk_move: up to 50 steps; stops on the first blocked, fatal or unsupported step
- Use reset=true on move or bulk_move to restart the level first

STRATEGY:
- Read the board row by row; one character is one cell.
- Collect money before approaching guards and keys before locks.
- Check the 3x3 local view and possible moves after every bulk move.
- Use describe_cell when unsure what a character means.

Good luck, Mushroom Man!`

// describeCell explains one board cell and what walking into it does
func describeCell(state *engine.Snapshot, row, col int) string {
	if row < 0 || row >= len(state.Rows) || col < 0 || col >= len(state.Rows[row]) {
		return fmt.Sprintf("Cell (%d,%d) is outside the board (%dx%d). Moving there does nothing.",
			row, col, state.Height, state.Width)
	}

	cells, err := engine.DecodeRow(state.Rows[row])
	if err != nil || col >= len(cells) {
		return fmt.Sprintf("Cell (%d,%d) could not be decoded: %v", row, col, err)
	}
	cell := cells[col]

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): %s\n", row, col, cell)
	fmt.Fprintf(&b, "Board char: %c\n", engine.BoardChar(cell))
	fmt.Fprintf(&b, "Effect when entered: %s\n", engine.EffectOf(cell))
	if (engine.Coord{Row: row, Col: col}) == state.PlayerPos {
		b.WriteString("The player is standing here.\n")
	}
	return b.String()
}

// Formatting helpers

func formatSessionInfo(s *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nPack: %s\nCreated: %s\nLast accessed: %s\n",
		s.ID, s.PackID, s.CreatedAt.Format(time.RFC3339), s.LastAccessedAt.Format(time.RFC3339))
	if s.GameState != nil {
		result += "\n" + formatGameState(s.GameState)
	}
	return result
}

func formatGameState(state *engine.Snapshot) string {
	var b strings.Builder

	switch {
	case state.Complete:
		b.WriteString("🎉 PACK COMPLETE!\n")
	case state.GameOver:
		b.WriteString("💀 GAME OVER\n")
	}

	fmt.Fprintf(&b, "Level %d", state.Level)
	if state.TotalLevels > 0 {
		fmt.Fprintf(&b, " (%d levels in pack %s)", state.TotalLevels, state.PackID)
	}
	b.WriteString("\n")
	if state.LevelName != "" {
		fmt.Fprintf(&b, "Name: %s by %s\n", state.LevelName, state.LevelAuthor)
	}
	fmt.Fprintf(&b, "Position: (%d,%d)\n", state.PlayerPos.Row, state.PlayerPos.Col)
	fmt.Fprintf(&b, "Inventory: %s\n", formatInventory(state.Inventory))
	fmt.Fprintf(&b, "Moves: %d (this level: %d)\n", state.TotalMoves, state.CurrentMovesCount)
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	if len(state.Board) > 0 {
		b.WriteString("\nBoard:\n")
		for _, line := range state.Board {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(state.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(state.PossibleMoves, ", "))
	}
	return b.String()
}

// formatInventory lists the non-zero item counts in name order
func formatInventory(inv map[string]int) string {
	var items []string
	for name, n := range inv {
		if n > 0 {
			items = append(items, fmt.Sprintf("%s=%d", name, n))
		}
	}
	if len(items) == 0 {
		return "empty"
	}
	sort.Strings(items)
	return strings.Join(items, " ")
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "%s (%d,%d)→(%d,%d) tile=%s (%s)\n",
			s.Dir, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.TileChar, s.TileType)
	} else if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Attempted (%d,%d) tile=%s (%s)\n", a.Row, a.Col, a.TileChar, a.TileType)
	}

	for _, ev := range result.Events {
		if ev.Message != "" {
			fmt.Fprintf(&b, "- %s\n", ev.Message)
		}
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Start: level %d (%d,%d)  End: level %d (%d,%d)\n",
		result.StartLevel, result.StartPos.Row, result.StartPos.Col,
		result.EndLevel, result.EndPos.Row, result.EndPos.Col)

	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s (%s)\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Attempted (%d,%d) tile=%s (%s)\n", a.Row, a.Col, a.TileChar, a.TileType)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	if len(result.LocalView3x3) > 0 {
		b.WriteString("\nLocal view:\n")
		b.WriteString(strings.Join(result.LocalView3x3, "\n"))
		b.WriteString("\n")
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

// formatStepLine renders a single compact step line
func formatStepLine(s service.StepInfo) string {
	status := "✓"
	switch {
	case s.Died:
		status = "💀"
	case s.Advanced:
		status = "→ next level"
	case !s.Success:
		status = "✗"
	}
	return fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) tile=%s %s\n",
		s.Idx, s.Dir, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.TileChar, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s [Level %d (%d,%d)→(%d,%d)]\n",
			move.MoveNumber, move.Action, status, move.Level,
			move.FromPosition.Row, move.FromPosition.Col, move.ToPosition.Row, move.ToPosition.Col)
	}

	return b.String()
}
