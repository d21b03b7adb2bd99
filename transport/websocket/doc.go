// Package websocket pushes Mushroom Man game updates to presentation clients.
//
// A central Hub tracks the connections watching each session. Every move
// made through the REST API is broadcast to the session's clients as one JSON
// message per frame:
//
//	{
//	  "session_id": "a1b2",
//	  "event": "move",
//	  "game_state": { ...snapshot... },
//	  "events": [{"type": "cell_changed", ...}, {"type": "sound", "sound": "explosion"}]
//	}
//
// Resets and level changes are sent with event "state_update" and no events.
// Clients connect with /ws?session=<id>; anything they send is ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastMove(sessionID, result.GameState, result.Events)
package websocket
