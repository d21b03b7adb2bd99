package solver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/levels"
)

func classicPack(t *testing.T) *engine.LevelPack {
	t.Helper()
	pack, err := engine.LoadPack(levels.Classic)
	if err != nil {
		t.Fatalf("LoadPack: %v", err)
	}
	return pack
}

// startOf parses a one-level pack and enters it
func startOf(t *testing.T, rows ...string) *engine.PlayState {
	t.Helper()
	data := fmt.Sprintf("%s\n0\n\nTest\ntester\n%s\n\n", engine.Header, strings.Join(rows, "\n"))
	pack, err := engine.ParseLevelPack([]byte(data), nil, engine.WithMinLevels(1))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	start, err := engine.EnterLevel(pack, pack.First().Number)
	if err != nil {
		t.Fatalf("EnterLevel: %v", err)
	}
	return start
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		want    string
		wantErr error
	}{
		{
			name: "straight line",
			rows: []string{"wwwww", "ws ew", "wwwww"},
			want: "right right",
		},
		{
			name: "detour around a hole",
			rows: []string{"wwwww", "wshew", "w   w", "wwwww"},
			want: "down right right up",
		},
		{
			name: "cement fills the hole",
			rows: []string{"wwwwww", "wschew", "wwwwww"},
			want: "right right right",
		},
		{
			name: "bomb clears the wall",
			rows: []string{"wwwwww", "ws bwe", "wwwwww"},
			want: "right right right right",
		},
		{
			name: "gun shoots the barrel",
			rows: []string{"wwwwww", "wsndew", "wwwwww"},
			want: "right right right",
		},
		{
			name:    "jelly bean pushed against the exit",
			rows:    []string{"wwwwwww", "wsj  ew", "wwwwwww"},
			wantErr: ErrNoSolution,
		},
		{
			name:    "barrel in the way",
			rows:    []string{"wwwww", "wsdew", "wwwww"},
			wantErr: ErrNoSolution,
		},
		{
			name:    "lock without key",
			rows:    []string{"wwwww", "wslew", "wwwww"},
			wantErr: ErrNoSolution,
		},
		{
			name:    "bomb next to the exit",
			rows:    []string{"wwwww", "wsbew", "wwwww"},
			wantErr: ErrNoSolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, _, err := Solve(startOf(t, tt.rows...), 10000)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if got := strings.Join(path, " "); got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSolve_TeleportsAreUnplayable(t *testing.T) {
	start := startOf(t, "wwwwww", "wst11we", "wwwwww")

	_, stats, err := Solve(start, 10000)
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
	if stats.Unplayable == 0 {
		t.Error("stepping onto the teleport should be counted as unplayable")
	}
}

func TestSolve_SearchLimit(t *testing.T) {
	pack := classicPack(t)
	_, stats, err := SolveLevel(pack, pack.First().Number, 1)
	if !errors.Is(err, ErrSearchLimit) {
		t.Fatalf("err = %v, want ErrSearchLimit", err)
	}
	if stats.Explored <= 1 {
		t.Errorf("explored = %d, want more than the limit", stats.Explored)
	}
}

func TestSolveLevel(t *testing.T) {
	pack := classicPack(t)

	path, stats, err := SolveLevel(pack, pack.First().Number, 10000)
	if err != nil {
		t.Fatalf("SolveLevel: %v", err)
	}
	if got := strings.Join(path, " "); got != "right right right right right down down" {
		t.Errorf("path = %q", got)
	}
	if stats.Explored == 0 {
		t.Error("expected explored states to be reported")
	}

	if _, _, err := SolveLevel(pack, 0, 10000); !errors.Is(err, engine.ErrLevelNotFound) {
		t.Errorf("err = %v, want ErrLevelNotFound", err)
	}
}

// Replaying a solution through ResolveMove must end on the exit
func TestSolveLevel_ClassicSolutionsReplay(t *testing.T) {
	pack := classicPack(t)

	for _, level := range pack.Levels {
		path, _, err := SolveLevel(pack, level.Number, 100000)
		if err != nil {
			t.Errorf("level %d (%s): %v", level.Number, level.Name, err)
			continue
		}

		state, _ := engine.EnterLevel(pack, level.Number)
		for i, direction := range path {
			delta, _ := engine.DirectionDelta(direction)
			next, signals, err := engine.ResolveMove(state, delta)
			if err != nil {
				t.Fatalf("level %d move %d: %v", level.Number, i+1, err)
			}
			if _, died := engine.Death(signals); died {
				t.Fatalf("level %d: died on move %d", level.Number, i+1)
			}
			_, advanced := engine.AdvanceRequest(signals)
			if advanced != (i == len(path)-1) {
				t.Fatalf("level %d: advance on move %d of %d", level.Number, i+1, len(path))
			}
			state = next
		}
	}
}

func TestStateKey(t *testing.T) {
	a := startOf(t, "wwwww", "wskew", "wwwww")
	b := a.Clone()
	if stateKey(a) != stateKey(b) {
		t.Fatal("clones should share a key")
	}

	b.Inventory[engine.ItemKey] = 1
	if stateKey(a) == stateKey(b) {
		t.Error("inventory should be part of the key")
	}

	c := a.Clone()
	c.Grid.Set(engine.Coord{Row: 1, Col: 2}, engine.C(engine.Empty))
	if stateKey(a) == stateKey(c) {
		t.Error("grid contents should be part of the key")
	}
}
