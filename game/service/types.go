package service

import (
	"time"

	"github.com/wricardo/mushroomman/game/engine"
)

// Event types reported in MoveResult and BulkMoveResult
const (
	EventMove          = "move"
	EventCellChanged   = "cell_changed"
	EventPlayerDied    = "player_died"
	EventLevelAdvanced = "level_advanced"
	EventSound         = "sound"
	EventHitWall       = "hit_wall"
	EventComplete      = "complete"
	EventReset         = "reset"
)

// Stop reason codes for BulkMoveResult
const (
	StopBlocked          = "blocked"
	StopDied             = "died"
	StopOffGrid          = "off_grid"
	StopUnsupported      = "unsupported"
	StopComplete         = "complete"
	StopInvalidDirection = "invalid_direction"
	StopGameOver         = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	PackID         string           `json:"pack_id"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	GameState      *engine.Snapshot `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool             `json:"success"`
	GameState   *engine.Snapshot `json:"game_state"`
	Message     string           `json:"message"`
	Events      []GameEvent      `json:"events,omitempty"`
	Step        *StepInfo        `json:"step,omitempty"`
	AttemptedTo *AttemptInfo     `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int              `json:"moves_executed"`
	RequestedMoves int              `json:"requested_moves"`
	Success        bool             `json:"success"`
	GameState      *engine.Snapshot `json:"game_state"`
	Events         []GameEvent      `json:"events"`
	StoppedReason  string           `json:"stopped_reason,omitempty"`
	StopReasonCode string           `json:"stop_reason_code,omitempty"` // blocked|died|off_grid|unsupported|complete|invalid_direction|game_over
	StoppedOnMove  int              `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos   engine.Coord `json:"start_pos"`
	EndPos     engine.Coord `json:"end_pos"`
	StartLevel int          `json:"start_level"`
	EndLevel   int          `json:"end_level"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Complete      bool     `json:"complete"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
	LocalView3x3  []string `json:"local_view_3x3,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx      int          `json:"idx"`
	Dir      string       `json:"dir"`
	Level    int          `json:"level"`
	From     engine.Coord `json:"from"`
	To       engine.Coord `json:"to"`
	TileChar string       `json:"tile_char"`
	TileType string       `json:"tile_type"`
	Success  bool         `json:"success"`
	Advanced bool         `json:"advanced,omitempty"`
	Died     bool         `json:"died,omitempty"`
}

// AttemptInfo details the cell a failed move tried to enter
type AttemptInfo struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	TileChar string `json:"tile_char"`
	TileType string `json:"tile_type"`
	OffGrid  bool   `json:"off_grid,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  *engine.Coord `json:"position,omitempty"`
	Sound     string        `json:"sound,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelRequest selects a level either by number or relative to the current one
type LevelRequest struct {
	Level     int    `json:"level,omitempty"`
	Direction string `json:"direction,omitempty"` // "next" or "previous"
}

// PackInfo provides information about a level pack
type PackInfo struct {
	PackID     string `json:"pack_id"` // The identifier to use for session creation
	Filename   string `json:"filename,omitempty"`
	Levels     int    `json:"levels"`
	FirstLevel int    `json:"first_level"`
	Checksum   uint32 `json:"checksum"`
	Default    bool   `json:"default"`
}

// LevelSummary describes one level of a pack
type LevelSummary struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Author string `json:"author"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PackDetail lists the levels of one pack
type PackDetail struct {
	PackID   string         `json:"pack_id"`
	Checksum uint32         `json:"checksum"`
	Levels   []LevelSummary `json:"levels"`
}
