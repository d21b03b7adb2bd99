package engine

import (
	"errors"
	"fmt"
)

var ErrLevelNotFound = errors.New("level not found")

// LevelPack is the ordered set of level templates from one level file.
// Checksum is read from the header and not verified unless a ChecksumVerifier is supplied.
type LevelPack struct {
	Checksum uint32
	Levels   []*Level
}

// Len returns the number of levels
func (p *LevelPack) Len() int {
	return len(p.Levels)
}

// First returns the level play starts on
func (p *LevelPack) First() *Level {
	if len(p.Levels) == 0 {
		return nil
	}
	return p.Levels[0]
}

// Level looks a level up by its assigned number
func (p *LevelPack) Level(number int) (*Level, bool) {
	// Numbers are contiguous within one parse, so try the direct offset first.
	if first := p.First(); first != nil {
		if i := number - first.Number; i >= 0 && i < len(p.Levels) && p.Levels[i].Number == number {
			return p.Levels[i], true
		}
	}
	for _, l := range p.Levels {
		if l.Number == number {
			return l, true
		}
	}
	return nil, false
}

// EnterLevel creates a fresh play state for the given level number with an
// empty inventory and the player on the start cell.
func EnterLevel(pack *LevelPack, number int) (*PlayState, error) {
	if pack == nil {
		return nil, fmt.Errorf("%w: no level pack loaded", ErrLevelNotFound)
	}
	level, ok := pack.Level(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrLevelNotFound, number)
	}
	return &PlayState{
		Level:     level,
		Grid:      level.Grid.Clone(),
		Inventory: make(Inventory),
		Player:    level.StartPos,
	}, nil
}
