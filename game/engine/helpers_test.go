package engine

import (
	"fmt"
	"strings"
	"testing"
)

type testLevel struct {
	name   string
	author string
	rows   []string
}

// packText renders a level pack in file format
func packText(checksum string, levels ...testLevel) string {
	var b strings.Builder
	b.WriteString(Header + "\n")
	b.WriteString(checksum + "\n")
	b.WriteString("\n")
	for _, l := range levels {
		b.WriteString(l.name + "\n")
		b.WriteString(l.author + "\n")
		for _, row := range l.rows {
			b.WriteString(row + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func fillerLevels(n int) []testLevel {
	levels := make([]testLevel, n)
	for i := range levels {
		levels[i] = testLevel{
			name:   fmt.Sprintf("Filler %d", i+1),
			author: "tests",
			rows:   []string{"s e"},
		}
	}
	return levels
}

// fullPack pads the given levels with fillers up to MinLevels
func fullPack(levels ...testLevel) []byte {
	if missing := MinLevels - len(levels); missing > 0 {
		levels = append(levels, fillerLevels(missing)...)
	}
	return []byte(packText("0", levels...))
}

// stateFromRows builds a play state on level number 7 from level-file rows
func stateFromRows(t *testing.T, rows ...string) *PlayState {
	t.Helper()
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		decoded, _, err := decodeRow([]byte(row))
		if err != nil {
			t.Fatalf("bad test row %q: %v", row, err)
		}
		cells[i] = decoded
	}
	grid, err := GridFromRows(cells)
	if err != nil {
		t.Fatalf("bad test grid: %v", err)
	}
	start, ok := grid.Find(Start)
	if !ok {
		t.Fatalf("test grid has no start")
	}
	level := &Level{Name: "test", Number: 7, Grid: grid, StartPos: start, PlayerPos: start}
	return &PlayState{Level: level, Grid: grid.Clone(), Inventory: make(Inventory), Player: start}
}

func encodeGrid(g *Grid) []string {
	rows := make([]string, g.Rows())
	for r := range rows {
		rows[r] = EncodeRow(g.Row(r))
	}
	return rows
}

func assertRows(t *testing.T, g *Grid, want ...string) {
	t.Helper()
	got := encodeGrid(g)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("grid = %q, want %q", got, want)
	}
}
