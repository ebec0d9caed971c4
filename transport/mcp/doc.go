// Package mcp exposes the game to MCP clients such as LLM agents.
//
// The Client is a thin proxy: every tool call becomes a REST request to a
// running server (see package api), and the JSON response is rendered as
// plain text for the agent. The server therefore stays the single owner of
// the active game; the MCP process keeps no state of its own.
//
// Tools:
//   - new_game, game_state, board, history, list_configs, game_rules
//   - roll, buy, decline, choose_tax, pay_bail, use_jail_card, build, end_turn
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
//
// Rejected actions come back as tool errors carrying the server's message,
// for example "rolling is not allowed in the current phase".
package mcp
