// Package engine provides the core game logic for Mushroom Man.
//
// The engine package implements:
//   - The cell vocabulary and the effect each cell has on a player entering it
//   - The level pack text format parser
//   - Move resolution against a play state (grid, inventory, player position)
//   - A stateful GameEngine that walks a player through a whole pack
//
// Core Types:
//
// Cell describes a tile and EffectOf maps it to an Effect. Grid is the
// rectangular map. ParseLevelPack decodes a level file into a LevelPack of
// immutable Level templates; EnterLevel clones one into a PlayState.
// ResolveMove applies a single step and returns the new state together with
// the Signals it produced (position and cell changes, deaths, level advance
// requests and sound cues). Signals are the only output; the engine keeps
// no references to rendering or audio.
//
// Usage:
//
//	pack, err := engine.LoadPack(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, err := engine.EnterLevel(pack, pack.First().Number)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, signals, err := engine.ResolveMove(state, engine.Delta{Cols: 1})
//
// Level Format:
//
// A pack starts with the line "Mushroom Man 3.0", a decimal checksum and a
// blank line, followed by level blocks. Each block is a name line, an author
// line, one line per grid row and a terminating blank line. A pack must hold
// at least MinLevels levels.
package engine
