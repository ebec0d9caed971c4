// Package service provides the business logic layer for the tycoon game.
//
// The service package implements:
//   - Single active game lifecycle (start, replace, end)
//   - Human seat actions validated against whose turn it is
//   - Automated seats played through the decision policy
//   - Recorded event history with pagination
//   - Bot-only simulations for strategy comparison
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager holds the active Session and replaces it on NewGame.
// ConfigManager loads named game variants.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and the
// terminal client) and the rules engine. A Session wraps one engine, binds
// its participants to Seats and records every engine event with a sequence
// number and a readable message. After each human action the service plays
// the automated seats until the human is up again, so callers only ever see
// the human's decisions.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.NewGame(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Roll(ctx)
//	if result.Turn.Offer != nil {
//		result, err = gameService.Buy(ctx)
//	}
//	result, err = gameService.EndTurn(ctx)
package service
