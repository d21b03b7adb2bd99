package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mushroomman/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	packs    PackManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, packs PackManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		packs:    packs,
	}
}

// CreateSession creates a new game session on the named pack, or the default pack
func (s *gameServiceImpl) CreateSession(ctx context.Context, packID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pack *engine.LevelPack
	packID = strings.TrimSuffix(strings.TrimSpace(packID), ".dat")
	if packID != "" {
		var err error
		pack, err = s.packs.LoadPack(packID)
		if err != nil {
			// Provide helpful error message with available options
			if available, listErr := s.packs.ListPacks(); listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, p := range available {
					ids = append(ids, p.PackID)
				}
				return nil, fmt.Errorf("failed to load pack '%s' (available packs: %v): %w", packID, ids, err)
			}
			return nil, fmt.Errorf("failed to load pack %s: %w", packID, err)
		}
	} else {
		pack = s.packs.GetDefault()
		packID = s.packs.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", packID, pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.WithFields(log.Fields{"session": session.ID, "pack": packID}).Info("session created")

	return sessionInfo(session), nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		PackID:         sess.PackID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      decorate(sess.Engine),
	}
}

// decorate adds the decision aids to a fresh snapshot
func decorate(eng *engine.GameEngine) *engine.Snapshot {
	state := eng.GetState()
	state.PossibleMoves = eng.GetPossibleMoves()
	return state
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session. A move the game refuses, such as
// one made while dead, is reported as an unsuccessful result rather than an error.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	if _, err := engine.DirectionDelta(direction); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	out, moveErr := sess.Engine.Move(direction)
	state := decorate(sess.Engine)

	result := &MoveResult{
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
	if moveErr != nil {
		result.Message = moveErr.Error()
	}
	if out == nil {
		logMove(sessionID, direction, nil, moveErr)
		return result, nil
	}

	result.Success = out.Success && moveErr == nil
	result.Events = append(result.Events, eventsFor(out, sess.Engine)...)
	if result.Success {
		step := stepInfo(1, out)
		result.Step = &step
	} else {
		result.AttemptedTo = attemptInfo(out)
	}

	logMove(sessionID, direction, out, moveErr)
	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first one
// that does not succeed
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartPos = start.PlayerPos
	result.StartLevel = start.Level

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		stop := func(code, reason string) {
			result.Success = false
			result.StopReasonCode = code
			result.StoppedReason = reason
			result.StoppedOnMove = i + 1
		}

		if sess.Engine.IsComplete() {
			stop(StopComplete, "all levels complete")
			break
		}
		if sess.Engine.IsGameOver() {
			stop(StopGameOver, "player is dead, reset the level")
			break
		}

		out, moveErr := sess.Engine.Move(move)
		if out == nil {
			stop(StopInvalidDirection, fmt.Sprintf("move %d: %v", i+1, moveErr))
			break
		}
		logMove(sessionID, move, out, moveErr)
		result.Events = append(result.Events, eventsFor(out, sess.Engine)...)

		switch {
		case moveErr != nil:
			stop(StopUnsupported, fmt.Sprintf("move %d (%s): %v", i+1, move, moveErr))
			result.AttemptedTo = attemptInfo(out)
		case out.Died:
			result.Steps = append(result.Steps, stepInfo(i+1, out))
			stop(StopDied, fmt.Sprintf("move %d (%s): %s", i+1, move, sess.Engine.GetState().Message))
		case out.OffGrid:
			stop(StopOffGrid, fmt.Sprintf("move %d (%s) leaves the level", i+1, move))
			result.AttemptedTo = attemptInfo(out)
		case !out.Success:
			stop(StopBlocked, fmt.Sprintf("move %d blocked: %s", i+1, move))
			result.AttemptedTo = attemptInfo(out)
		default:
			result.MovesExecuted++
			result.Steps = append(result.Steps, stepInfo(i+1, out))
		}
		if !result.Success {
			break
		}
	}

	end := decorate(sess.Engine)
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.EndLevel = end.Level
	result.GameOver = end.GameOver
	result.Complete = end.Complete
	result.Message = end.Message
	result.PossibleMoves = end.PossibleMoves
	result.LocalView3x3 = end.LocalView3x3

	log.WithFields(log.Fields{
		"session":  sessionID,
		"executed": result.MovesExecuted,
		"request":  result.RequestedMoves,
		"stop":     result.StopReasonCode,
		"end":      result.EndPos.String(),
		"level":    result.EndLevel,
	}).Info("[BULK]")

	return result, nil
}

// Reset restarts the current level of a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.Reset()
	return decorate(sess.Engine), nil
}

// SelectLevel jumps a session to another level of its pack
func (s *gameServiceImpl) SelectLevel(ctx context.Context, sessionID string, req LevelRequest) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	switch strings.ToLower(req.Direction) {
	case "next":
		_, err = sess.Engine.NextLevel()
	case "previous", "prev":
		_, err = sess.Engine.PreviousLevel()
	case "":
		_, err = sess.Engine.SelectLevel(req.Level)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevelRequest, req.Direction)
	}
	if err != nil {
		return nil, err
	}
	return decorate(sess.Engine), nil
}

// ErrInvalidLevelRequest is returned for a level direction other than next or previous
var ErrInvalidLevelRequest = errors.New("invalid level request")

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return decorate(sess.Engine), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListPacks returns the available level packs
func (s *gameServiceImpl) ListPacks(ctx context.Context) ([]*PackInfo, error) {
	return s.packs.ListPacks()
}

// GetPack lists the levels of one pack
func (s *gameServiceImpl) GetPack(ctx context.Context, packID string) (*PackDetail, error) {
	pack, err := s.packs.LoadPack(packID)
	if err != nil {
		return nil, err
	}

	detail := &PackDetail{
		PackID:   strings.TrimSuffix(strings.TrimSpace(packID), ".dat"),
		Checksum: pack.Checksum,
		Levels:   make([]LevelSummary, 0, pack.Len()),
	}
	for _, l := range pack.Levels {
		detail.Levels = append(detail.Levels, LevelSummary{
			Number: l.Number,
			Name:   l.Name,
			Author: l.Author,
			Width:  l.Grid.Cols(),
			Height: l.Grid.Rows(),
		})
	}
	return detail, nil
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Level restarted",
		Timestamp: time.Now(),
	}
}

// eventsFor turns the signals of one move into game events
func eventsFor(out *engine.MoveOutcome, eng *engine.GameEngine) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	for _, sig := range out.Signals {
		switch sig := sig.(type) {
		case engine.PositionChanged:
			to := sig.To
			events = append(events, GameEvent{
				Type:      EventMove,
				Message:   fmt.Sprintf("Moved %s to %s", out.Direction, sig.To),
				Timestamp: now,
				Position:  &to,
			})
		case engine.CellChanged:
			at := sig.At
			events = append(events, GameEvent{
				Type:      EventCellChanged,
				Message:   fmt.Sprintf("Cell %s is now %s", sig.At, sig.Cell),
				Timestamp: now,
				Position:  &at,
			})
		case engine.PlayerDied:
			events = append(events, GameEvent{
				Type:      EventPlayerDied,
				Message:   "You " + sig.Message,
				Timestamp: now,
			})
		case engine.LevelAdvanceRequested:
			if eng.IsComplete() {
				events = append(events, GameEvent{
					Type:      EventComplete,
					Message:   "All levels complete!",
					Timestamp: now,
				})
				continue
			}
			level := eng.GetLevel()
			events = append(events, GameEvent{
				Type:      EventLevelAdvanced,
				Message:   fmt.Sprintf("Entered level %d: %s", level.Number, level.Name),
				Timestamp: now,
			})
		case engine.SoundCue:
			events = append(events, GameEvent{
				Type:      EventSound,
				Message:   "Play " + sig.Sound.String(),
				Timestamp: now,
				Sound:     sig.Sound.String(),
			})
		}
	}

	if out.Blocked {
		target := out.Target
		events = append(events, GameEvent{
			Type:      EventHitWall,
			Message:   fmt.Sprintf("Bumped into %s at %s", out.TargetCell, out.Target),
			Timestamp: now,
			Position:  &target,
			Sound:     engine.SoundHitWall.String(),
		})
	}
	return events
}

func tileOf(cell engine.Cell) (string, string) {
	return string(engine.BoardChar(cell)), cell.Kind.String()
}

func stepInfo(idx int, out *engine.MoveOutcome) StepInfo {
	tileChar, tileType := tileOf(out.TargetCell)
	return StepInfo{
		Idx:      idx,
		Dir:      out.Direction,
		Level:    out.Level,
		From:     out.From,
		To:       out.To,
		TileChar: tileChar,
		TileType: tileType,
		Success:  out.Success,
		Advanced: out.Advanced,
		Died:     out.Died,
	}
}

func attemptInfo(out *engine.MoveOutcome) *AttemptInfo {
	info := &AttemptInfo{Row: out.Target.Row, Col: out.Target.Col}
	if out.OffGrid {
		info.TileChar = string(rune(engine.BoardOutside))
		info.TileType = "outside"
		info.OffGrid = true
		return info
	}
	info.TileChar, info.TileType = tileOf(out.TargetCell)
	return info
}

func logMove(sessionID, direction string, out *engine.MoveOutcome, err error) {
	fields := log.Fields{"session": sessionID, "dir": direction}
	if out == nil {
		log.WithFields(fields).WithError(err).Warn("[MOVE] rejected")
		return
	}

	fields["from"] = out.From.String()
	fields["to"] = out.To.String()
	fields["tile"] = out.TargetCell.String()
	status := "OK"
	switch {
	case err != nil:
		status = "ERROR"
	case out.Died:
		status = "DIED"
	case out.Advanced:
		status = "ADVANCED"
	case out.OffGrid:
		status = "OFF_GRID"
	case out.Blocked:
		status = "BLOCKED"
	}
	fields["status"] = status
	log.WithFields(fields).Info("[MOVE]")
}
