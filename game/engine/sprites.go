package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidTeleport = errors.New("invalid teleport id")

// Sprite sheet indices, 6 columns by 7 rows.
var spriteIndices = map[CellKind][]int{
	Empty:     {26},
	Wall:      {6},
	Start:     {26},
	Exit:      {5},
	Bomb:      {1},
	Cement:    {20},
	Barrel:    {10},
	Money:     {13},
	Guard:     {14},
	Hole:      {4},
	MetalWall: {7},
	JellyBean: {11},
	Key:       {2},
	Lock:      {3},
	Gun:       {9},
	Oxygen:    {19},
	Water:     {8},
}

// Animation frames per teleport id
var teleportFrames = [MaxTeleportID + 1][]int{
	1: {15, 16, 17},
	2: {21, 22, 23},
	3: {27, 28, 29},
	4: {33, 34, 35},
	5: {39, 40, 41},
}

// PlayerSprite is the sprite index for the player
const PlayerSprite = 0

// SpriteIndices returns the presentation frames for a cell
func SpriteIndices(c Cell) ([]int, error) {
	if c.Kind == Teleport {
		if c.TeleportID < MinTeleportID || c.TeleportID > MaxTeleportID {
			return nil, fmt.Errorf("%w: %d", ErrInvalidTeleport, c.TeleportID)
		}
		return append([]int(nil), teleportFrames[c.TeleportID]...), nil
	}
	frames, ok := spriteIndices[c.Kind]
	if !ok {
		return nil, fmt.Errorf("no sprite for %s", c.Kind)
	}
	return append([]int(nil), frames...), nil
}
