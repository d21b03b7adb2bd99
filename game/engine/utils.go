package engine

// CountCellKind counts the cells of a specific kind in the grid
func CountCellKind(g *Grid, kind CellKind) int {
	count := 0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(Coord{Row: r, Col: c}).Kind == kind {
				count++
			}
		}
	}
	return count
}

// CountCellKinds tallies every kind present in the grid
func CountCellKinds(g *Grid) map[CellKind]int {
	counts := make(map[CellKind]int)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			counts[g.At(Coord{Row: r, Col: c}).Kind]++
		}
	}
	return counts
}

// ManhattanDistance calculates the Manhattan distance between two coordinates
func ManhattanDistance(from, to Coord) int {
	return abs(from.Row-to.Row) + abs(from.Col-to.Col)
}

// FindNearest finds the closest cell of the given kind and returns its position and distance
func FindNearest(g *Grid, from Coord, kind CellKind) (Coord, int, bool) {
	minDistance := -1
	var nearest Coord
	found := false

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			at := Coord{Row: r, Col: c}
			if g.At(at).Kind != kind {
				continue
			}
			distance := ManhattanDistance(from, at)
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearest = at
				found = true
			}
		}
	}

	return nearest, minDistance, found
}

// TeleportIDs returns the distinct teleporter ids used in the grid, ascending
func TeleportIDs(g *Grid) []uint8 {
	var seen [MaxTeleportID + 1]bool
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if cell := g.At(Coord{Row: r, Col: c}); cell.Kind == Teleport && cell.TeleportID <= MaxTeleportID {
				seen[cell.TeleportID] = true
			}
		}
	}
	var ids []uint8
	for id := MinTeleportID; id <= MaxTeleportID; id++ {
		if seen[id] {
			ids = append(ids, uint8(id))
		}
	}
	return ids
}
