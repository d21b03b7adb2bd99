// Package packs discovers, parses and caches Mushroom Man level packs.
//
// A pack is a *.dat file in the levels directory, addressed by its file name
// without the extension. The embedded classic pack from the levels package is
// served under the id "classic" unless a classic.dat on disk replaces it.
//
// All packs parsed by one Manager draw level numbers from a single shared
// sequence, so the second pack loaded starts numbering after the last level of
// the first. Reloading a pack assigns it fresh numbers.
//
// Usage:
//
//	manager, err := packs.NewManager("levels", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pack, err := manager.LoadPack("extra.dat")
//
//	infos, err := manager.ListPacks()
package packs
