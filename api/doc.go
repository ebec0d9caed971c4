// Package api provides HTTP REST API handlers for the tycoon game.
//
// Endpoints:
//
// Game Lifecycle:
//   - POST /api/game - Start a game ({"config_id": "classic"}, optional)
//   - GET /api/game - Active game info and seats
//   - DELETE /api/game - End the active game
//
// Game State:
//   - GET /api/game/state - Snapshot of players, properties and phase
//   - GET /api/game/board - The 40 tiles with ownership
//   - GET /api/game/history - Recorded events (?page=1&limit=20&order=desc)
//
// Human Seat Actions:
//   - POST /api/game/roll
//   - POST /api/game/buy
//   - POST /api/game/decline
//   - POST /api/game/tax - {"choice": "percent"|"flat"}
//   - POST /api/game/bail
//   - POST /api/game/jail-card
//   - POST /api/game/build - {"property_id": 39, "kind": "house"|"hotel"}
//   - POST /api/game/end-turn - Plays the automated seats until the human is up
//
// Configuration:
//   - GET /api/configs
//   - GET /api/configs/{name}
//
// Other:
//   - GET /ws - Spectator WebSocket stream
//   - GET /health
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code:
//
//	{
//	  "error": "rolling is not allowed in the current phase",
//	  "code": 409
//	}
//
// 404 means there is no active game or the configuration is unknown, 409 a
// rule rejected the action (wrong phase, not your turn, insufficient funds),
// 400 a malformed request.
package api
