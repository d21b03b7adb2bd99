package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPlayerDead   = errors.New("player is dead, restart the level")
	ErrPackComplete = errors.New("all levels complete")
	ErrNoPack       = errors.New("level pack has no levels")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *Snapshot
	Reset() *Snapshot
	IsGameOver() bool
	IsComplete() bool
	GetPlayerPosition() Coord
	GetInventory() Inventory

	// Movement operations
	Move(direction string) (*MoveOutcome, error)
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Levels
	GetPack() *LevelPack
	GetLevel() *Level
	SelectLevel(number int) (*Snapshot, error)
	NextLevel() (*Snapshot, error)
	PreviousLevel() (*Snapshot, error)

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []string
}

// MoveOutcome describes one resolved move
type MoveOutcome struct {
	Direction string
	Level     int
	From      Coord
	To        Coord
	// Target is the cell the player tried to enter, with its kind before the move
	Target     Coord
	TargetCell Cell
	OffGrid    bool
	Success    bool
	Blocked    bool
	Died       bool
	Advanced   bool
	Signals    []Signal
}

// GameEngine implements the Engine interface over one level pack
type GameEngine struct {
	pack     *LevelPack
	packID   string
	play     *PlayState
	message  string
	dead     bool
	complete bool

	moveHistory  []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
}

// NewEngine starts play on the first level of the pack
func NewEngine(packID string, pack *LevelPack) (*GameEngine, error) {
	if pack == nil || pack.Len() == 0 {
		return nil, ErrNoPack
	}
	play, err := EnterLevel(pack, pack.First().Number)
	if err != nil {
		return nil, err
	}
	return &GameEngine{
		pack:   pack,
		packID: packID,
		play:   play,
	}, nil
}

// GetState returns a render snapshot of the current game state
func (e *GameEngine) GetState() *Snapshot {
	snap := NewSnapshot(e.play)
	snap.PackID = e.packID
	snap.TotalLevels = e.pack.Len()
	snap.Message = e.message
	snap.GameOver = e.dead
	snap.Complete = e.complete
	snap.TotalMoves = len(e.moveHistory)
	snap.CurrentMovesCount = len(e.currentMoves)
	snap.LocalView3x3 = e.GetLocalView()
	return snap
}

// Reset restarts the current level. Inventory is cleared, history is kept.
func (e *GameEngine) Reset() *Snapshot {
	play, err := EnterLevel(e.pack, e.play.Level.Number)
	if err == nil {
		e.play = play
	}
	e.dead = false
	e.complete = false
	e.message = ""
	e.currentMoves = nil
	return e.GetState()
}

// IsGameOver returns whether the player died on the current level
func (e *GameEngine) IsGameOver() bool {
	return e.dead
}

// IsComplete returns whether the player walked out of the last level
func (e *GameEngine) IsComplete() bool {
	return e.complete
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Coord {
	return e.play.Player
}

// GetInventory returns a copy of the inventory
func (e *GameEngine) GetInventory() Inventory {
	return e.play.Inventory.Clone()
}

// GetPack returns the level pack being played
func (e *GameEngine) GetPack() *LevelPack {
	return e.pack
}

// GetPackID returns the identifier the pack was loaded under
func (e *GameEngine) GetPackID() string {
	return e.packID
}

// GetLevel returns the template of the level being played
func (e *GameEngine) GetLevel() *Level {
	return e.play.Level
}

// PlayState returns a copy of the working state
func (e *GameEngine) PlayState() *PlayState {
	return e.play.Clone()
}

// Move resolves one step in the given direction
func (e *GameEngine) Move(direction string) (*MoveOutcome, error) {
	delta, err := DirectionDelta(direction)
	if err != nil {
		return nil, err
	}
	if e.complete {
		return nil, ErrPackComplete
	}
	if e.dead {
		return nil, ErrPlayerDead
	}

	from := e.play.Player
	out := &MoveOutcome{
		Direction: direction,
		Level:     e.play.Level.Number,
		From:      from,
		To:        from,
		Target:    from.Add(delta),
	}
	if e.play.Grid.InBounds(out.Target) {
		out.TargetCell = e.play.Grid.At(out.Target)
	} else {
		out.OffGrid = true
	}

	next, signals, err := ResolveMove(e.play, delta)
	if err != nil {
		e.message = err.Error()
		e.addMoveToHistory(direction, out.Level, from, from, false)
		return out, err
	}
	e.play = next
	out.Signals = signals
	out.To = next.Player

	death, died := Death(signals)
	adv, advanced := AdvanceRequest(signals)
	out.Died = died
	out.Advanced = advanced && !died
	out.Success = Moved(signals) || out.Advanced

	// Recorded before advancing so the exit move closes the old level's segment
	e.addMoveToHistory(direction, out.Level, from, out.To, out.Success)

	switch {
	case died:
		e.dead = true
		e.message = "You " + death.Message
	case out.Advanced:
		e.advance(adv.Next)
	case Moved(signals):
		e.message = ""
	default:
		out.Blocked = !out.OffGrid
		e.message = "Blocked"
	}
	return out, nil
}

func (e *GameEngine) advance(next int) {
	play, err := EnterLevel(e.pack, next)
	if err != nil {
		e.complete = true
		e.message = "All levels complete!"
		return
	}
	e.play = play
	e.message = fmt.Sprintf("Level %d: %s", play.Level.Number, play.Level.Name)
	e.currentMoves = nil
}

// CanMove checks if a move in the direction would succeed without dying
func (e *GameEngine) CanMove(direction string) bool {
	if e.dead || e.complete {
		return false
	}
	delta, err := DirectionDelta(direction)
	if err != nil {
		return false
	}
	_, signals, err := ResolveMove(e.play, delta)
	if err != nil {
		return false
	}
	if _, died := Death(signals); died {
		return false
	}
	_, advances := AdvanceRequest(signals)
	return Moved(signals) || advances
}

// GetPossibleMoves returns all directions the player can safely move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// SelectLevel jumps to another level of the pack
func (e *GameEngine) SelectLevel(number int) (*Snapshot, error) {
	play, err := EnterLevel(e.pack, number)
	if err != nil {
		return nil, err
	}
	e.play = play
	e.dead = false
	e.complete = false
	e.message = fmt.Sprintf("Level %d: %s", play.Level.Number, play.Level.Name)
	e.currentMoves = nil
	return e.GetState(), nil
}

// NextLevel selects the level after the current one
func (e *GameEngine) NextLevel() (*Snapshot, error) {
	return e.SelectLevel(e.play.Level.Number + 1)
}

// PreviousLevel selects the level before the current one
func (e *GameEngine) PreviousLevel() (*Snapshot, error) {
	return e.SelectLevel(e.play.Level.Number - 1)
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetCurrentMoves returns the moves made on the current level since it was
// entered, reset or selected
func (e *GameEngine) GetCurrentMoves() []MoveHistoryEntry {
	return e.currentMoves
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// GetLocalView returns the 3x3 board around the player
func (e *GameEngine) GetLocalView() []string {
	return LocalView(e.play.Grid, e.play.Player)
}

// BulkMove executes moves in sequence until one fails or play stops
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))
	for _, direction := range moves {
		if e.dead || e.complete {
			break
		}
		out, err := e.Move(direction)
		ok := err == nil && out.Success
		results = append(results, ok)
		if !ok {
			break
		}
	}
	return results
}

func (e *GameEngine) addMoveToHistory(action string, level int, from, to Coord, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: from,
		ToPosition:   to,
		Level:        level,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   len(e.moveHistory) + 1,
	}
	// Cumulative history survives resets, the current segment does not
	e.moveHistory = append(e.moveHistory, entry)
	e.currentMoves = append(e.currentMoves, entry)
}
