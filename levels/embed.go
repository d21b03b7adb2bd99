// Package levels bundles the level packs that ship with the game.
package levels

import _ "embed"

// BuiltinID is the pack id the embedded pack is served under
const BuiltinID = "classic"

// Classic is the default 100 level pack
//
//go:embed classic.dat
var Classic []byte
