// Package service provides the business logic layer for Mushroom Man.
//
// The service package implements:
//   - Multi-session game management
//   - Level pack selection
//   - Move processing and event reporting
//   - Level restart and level select
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// PackManager loads and lists level packs.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance playing one
// level pack. Signals produced by the engine while resolving a move are
// translated into GameEvents so clients can animate cell changes and play
// sound cues.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	packMgr, _ := packs.NewManager("levels", "classic")
//	gameService := service.NewGameService(sessionMgr, packMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "right", false)
package service
