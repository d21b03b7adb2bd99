// Package mcp exposes Mushroom Man to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API served by package api, and the JSON answer is rendered as text
// an agent can read (board, inventory, step traces).
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, inventory and level of a session
//   - move, bulk_move: single and batched moves with an intent note
//   - reset_game, select_level: restart or switch levels
//   - move_history: paginated move log
//   - list_packs: level packs known to the server
//   - game_instructions: rules and board legend
//   - describe_cell: what a cell is and what entering it does
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
