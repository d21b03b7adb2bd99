package engine

// Signal is an outward notification produced while resolving a move
type Signal interface {
	signal()
}

// PositionChanged reports the player moving From one cell To another.
type PositionChanged struct {
	From Coord
	To   Coord
}

// CellChanged reports a tile being replaced.
type CellChanged struct {
	At   Coord
	Cell Cell
}

// PlayerDied ends play on the current level.
type PlayerDied struct {
	Message string
}

// LevelAdvanceRequested asks the level-loading collaborator for level Next.
type LevelAdvanceRequested struct {
	Next int
}

// Sound is an audio cue
type Sound uint8

const (
	SoundPlayerDie Sound = iota
	SoundHitWall
	SoundExplosion
)

func (s Sound) String() string {
	switch s {
	case SoundPlayerDie:
		return "player_die"
	case SoundHitWall:
		return "hit_wall"
	case SoundExplosion:
		return "explosion"
	}
	return "unknown"
}

// SoundCue asks the audio collaborator to play a sound.
type SoundCue struct {
	Sound Sound
}

func (PositionChanged) signal()       {}
func (CellChanged) signal()           {}
func (PlayerDied) signal()            {}
func (LevelAdvanceRequested) signal() {}
func (SoundCue) signal()              {}

// Moved reports whether the signals include a position change
func Moved(signals []Signal) bool {
	for _, s := range signals {
		if _, ok := s.(PositionChanged); ok {
			return true
		}
	}
	return false
}

// Death returns the first death among the signals
func Death(signals []Signal) (PlayerDied, bool) {
	for _, s := range signals {
		if d, ok := s.(PlayerDied); ok {
			return d, true
		}
	}
	return PlayerDied{}, false
}

// AdvanceRequest returns the level advance among the signals
func AdvanceRequest(signals []Signal) (LevelAdvanceRequested, bool) {
	for _, s := range signals {
		if a, ok := s.(LevelAdvanceRequested); ok {
			return a, true
		}
	}
	return LevelAdvanceRequested{}, false
}
