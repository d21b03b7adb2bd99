// Package api provides the HTTP REST API for Mushroom Man.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"pack_id": "..."} (optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed, ?order, ?limit, ?pack)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot with possible moves
//   - POST /api/sessions/{id}/move - {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset - Restart the current level
//   - POST /api/sessions/{id}/level - {"level": 12} or {"direction": "next"}
//   - GET /api/sessions/{id}/history - Paginated moves (?page, ?limit, ?order)
//
// Level Packs:
//   - GET /api/packs - List packs
//   - GET /api/packs/{id} - Levels of one pack
//
// Other:
//   - GET /api, GET /api/health - Health check
//   - GET /ws?session={id} - WebSocket feed of state updates
//   - / - Static files from ./static
//
// Errors are returned as {"error": "..."}. Unknown sessions, packs and levels
// map to 404, malformed requests and invalid directions to 400.
package api
