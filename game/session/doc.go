// Package session provides in-memory session management for Mushroom Man.
//
// Each session owns a GameEngine playing one level pack. Sessions are kept
// only in memory; nothing is saved between server runs.
//
// Session Identifiers:
//
// Generated session IDs are 4 hex characters drawn from crypto/rand and
// re-drawn on collision. Create gives up with ErrNoFreeSessionID after a
// bounded number of draws. Lookups are case-insensitive.
//
// Concurrency:
//
// The manager is safe for concurrent use. It guards its map, not the engines
// it hands out; the service layer serialises moves on a session.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", pack)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
