// Package websocket streams the active game to spectators.
//
// A central Hub owns every connection. Each client gets a dedicated read
// and write goroutine; the hub loop registers, unregisters and fans out
// messages. Clients are read-only: actions go through the REST API or MCP.
//
// Message Protocol:
//
// Every frame is one JSON message:
//   - {"type": "state", "game_id": "...", "game_state": {...}} on connect and after actions
//   - {"type": "event", "event": {"seq": 4, "type": "property_bought", ...}} per recorded event
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	unsubscribe := gameService.Subscribe(hub.PublishEvent)
//	defer unsubscribe()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, nil)
//	})
//
// Slow clients whose send buffer fills up are dropped rather than blocking
// the game.
package websocket
