package service

import (
	"context"
	"time"

	"github.com/wricardo/mushroomman/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, packID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SelectLevel(ctx context.Context, sessionID string, req LevelRequest) (*engine.Snapshot, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Level packs
	ListPacks(ctx context.Context) ([]*PackInfo, error)
	GetPack(ctx context.Context, packID string) (*PackDetail, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, packID string, pack *engine.LevelPack) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// PackManager handles level pack loading
type PackManager interface {
	LoadPack(name string) (*engine.LevelPack, error)
	ListPacks() ([]*PackInfo, error)
	GetDefault() *engine.LevelPack
	DefaultID() string
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	PackID         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
