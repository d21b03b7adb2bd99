package engine

import (
	"errors"
	"testing"
)

// scenarioLevel is the 3x3 level used across the engine tests
var scenarioLevel = testLevel{
	name:   "Scenario",
	author: "tests",
	rows:   []string{"sw ", " f ", "  e"},
}

func createTestEngine(t *testing.T, levels ...testLevel) *GameEngine {
	t.Helper()
	pack, err := LoadPack(fullPack(levels...))
	if err != nil {
		t.Fatalf("failed to load pack: %v", err)
	}
	e, err := NewEngine("test", pack)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)

	if e.GetLevel().Number != 1 || e.GetLevel().Name != "Scenario" {
		t.Errorf("level = %d %q, want 1 Scenario", e.GetLevel().Number, e.GetLevel().Name)
	}
	if e.GetPlayerPosition() != (Coord{0, 0}) {
		t.Errorf("player = %v, want (0,0)", e.GetPlayerPosition())
	}
	if e.IsGameOver() || e.IsComplete() {
		t.Error("new game should be in progress")
	}
	if e.GetPackID() != "test" || e.GetPack().Len() != MinLevels {
		t.Errorf("pack = %q with %d levels", e.GetPackID(), e.GetPack().Len())
	}
}

func TestNewEngine_EmptyPack(t *testing.T) {
	if _, err := NewEngine("x", nil); !errors.Is(err, ErrNoPack) {
		t.Errorf("err = %v, want ErrNoPack", err)
	}
	if _, err := NewEngine("x", &LevelPack{}); !errors.Is(err, ErrNoPack) {
		t.Errorf("err = %v, want ErrNoPack", err)
	}
}

// End to end: blocked by the wall, collect the money, reach the exit.
func TestEngine_Scenario(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)

	out, err := e.Move("right")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Success || !out.Blocked || e.GetPlayerPosition() != (Coord{0, 0}) {
		t.Fatalf("moving into the wall: success=%v blocked=%v pos=%v", out.Success, out.Blocked, e.GetPlayerPosition())
	}
	if out.TargetCell.Kind != Wall {
		t.Errorf("target = %s, want wall", out.TargetCell)
	}

	for _, dir := range []string{"down", "right", "right"} {
		out, err := e.Move(dir)
		if err != nil || !out.Success {
			t.Fatalf("move %s failed: %v", dir, err)
		}
	}
	if e.GetInventory().Count(ItemMoney) != 1 {
		t.Errorf("money = %d, want 1", e.GetInventory().Count(ItemMoney))
	}
	if e.GetPlayerPosition() != (Coord{1, 2}) {
		t.Errorf("player = %v, want (1,2)", e.GetPlayerPosition())
	}

	out, err = e.Move("down")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adv, ok := AdvanceRequest(out.Signals)
	if !ok || adv.Next != 2 {
		t.Fatalf("advance = %v %v, want level 2", adv, ok)
	}
	if !out.Advanced || !out.Success {
		t.Error("reaching the exit is a successful move")
	}
	if e.GetLevel().Number != 2 {
		t.Errorf("level = %d, want 2", e.GetLevel().Number)
	}
	if e.GetInventory().Count(ItemMoney) != 0 {
		t.Error("inventory must reset on level entry")
	}

	history := e.GetMoveHistory()
	if len(history) != 5 {
		t.Fatalf("history has %d entries, want 5", len(history))
	}
	if history[0].Success || !history[4].Success || history[4].Level != 1 {
		t.Errorf("history = %+v", history)
	}
	if last := e.GetLastMove(); last == nil || last.MoveNumber != 5 {
		t.Errorf("last move = %+v", last)
	}
}

func TestEngine_Death(t *testing.T) {
	e := createTestEngine(t, testLevel{name: "Pit", author: "a", rows: []string{"sh "}})

	out, err := e.Move("right")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Died || out.Success {
		t.Errorf("died = %v success = %v", out.Died, out.Success)
	}
	if !e.IsGameOver() {
		t.Fatal("engine should be game over")
	}
	if got := e.GetState().Message; got != "You fell into a hole" {
		t.Errorf("message = %q", got)
	}

	if _, err := e.Move("left"); !errors.Is(err, ErrPlayerDead) {
		t.Errorf("err = %v, want ErrPlayerDead", err)
	}
	if e.CanMove("left") || len(e.GetPossibleMoves()) != 0 {
		t.Error("a dead player has no moves")
	}

	snap := e.Reset()
	if e.IsGameOver() || snap.GameOver {
		t.Error("reset should revive the player")
	}
	if snap.PlayerPos != (Coord{0, 0}) || snap.Rows[0] != "sh " {
		t.Errorf("reset snapshot = %v %q", snap.PlayerPos, snap.Rows)
	}
	if snap.TotalMoves != 1 || snap.CurrentMovesCount != 0 {
		t.Errorf("total = %d current = %d, want 1 and 0", snap.TotalMoves, snap.CurrentMovesCount)
	}
}

func TestEngine_ResetRestoresLevel(t *testing.T) {
	e := createTestEngine(t, testLevel{name: "Bank", author: "a", rows: []string{"sff"}})
	e.Move("right")
	e.Move("right")
	if e.GetInventory().Count(ItemMoney) != 2 {
		t.Fatalf("money = %d, want 2", e.GetInventory().Count(ItemMoney))
	}

	snap := e.Reset()
	if snap.Inventory["money"] != 0 {
		t.Errorf("inventory after reset = %v", snap.Inventory)
	}
	if snap.Rows[0] != "sff" {
		t.Errorf("row after reset = %q, want a fresh copy", snap.Rows[0])
	}
	if len(e.GetMoveHistory()) != 2 || len(e.GetCurrentMoves()) != 0 {
		t.Errorf("history %d current %d", len(e.GetMoveHistory()), len(e.GetCurrentMoves()))
	}
}

func TestEngine_CanMove(t *testing.T) {
	e := createTestEngine(t, testLevel{name: "Choices", author: "a", rows: []string{" w ", "hs~", " e "}})

	tests := []struct {
		direction string
		want      bool
	}{
		{"up", false},    // wall
		{"left", false},  // hole without cement
		{"right", false}, // water without oxygen
		{"down", true},   // exit
		{"sideways", false},
	}
	for _, tt := range tests {
		if got := e.CanMove(tt.direction); got != tt.want {
			t.Errorf("CanMove(%s) = %v, want %v", tt.direction, got, tt.want)
		}
	}
	moves := e.GetPossibleMoves()
	if len(moves) != 1 || moves[0] != "down" {
		t.Errorf("possible moves = %v, want [down]", moves)
	}

	// CanMove is a dry run.
	if e.GetPlayerPosition() != (Coord{1, 1}) || e.GetLevel().Number != 1 {
		t.Error("CanMove changed the game")
	}
}

func TestEngine_InvalidDirection(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)
	if _, err := e.Move("north"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("err = %v, want ErrInvalidDirection", err)
	}
	if len(e.GetMoveHistory()) != 0 {
		t.Error("an invalid direction is not recorded")
	}
}

func TestEngine_OffGridIsNotBlocked(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)
	out, err := e.Move("up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OffGrid || out.Blocked || out.Success {
		t.Errorf("off grid = %v blocked = %v success = %v", out.OffGrid, out.Blocked, out.Success)
	}
}

func TestEngine_Teleport(t *testing.T) {
	e := createTestEngine(t, testLevel{name: "Warp", author: "a", rows: []string{"st11"}})
	out, err := e.Move("right")
	if !errors.Is(err, ErrUnsupportedEffect) {
		t.Fatalf("err = %v, want ErrUnsupportedEffect", err)
	}
	if out == nil || out.Success {
		t.Error("an unsupported effect is a failed move")
	}
	if e.GetPlayerPosition() != (Coord{0, 0}) || e.IsGameOver() {
		t.Error("state must be unchanged")
	}
	if last := e.GetLastMove(); last == nil || last.Success {
		t.Errorf("last move = %+v", last)
	}
}

func TestEngine_LevelSelect(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)

	snap, err := e.SelectLevel(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Level != 50 || snap.LevelName != "Filler 49" {
		t.Errorf("snapshot level = %d %q", snap.Level, snap.LevelName)
	}

	if _, err := e.NextLevel(); err != nil || e.GetLevel().Number != 51 {
		t.Errorf("NextLevel: level %d err %v", e.GetLevel().Number, err)
	}
	if _, err := e.PreviousLevel(); err != nil || e.GetLevel().Number != 50 {
		t.Errorf("PreviousLevel: level %d err %v", e.GetLevel().Number, err)
	}

	if _, err := e.SelectLevel(MinLevels + 1); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("err = %v, want ErrLevelNotFound", err)
	}
	if _, err := e.SelectLevel(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.PreviousLevel(); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("err = %v, want ErrLevelNotFound", err)
	}
	if e.GetLevel().Number != 1 {
		t.Error("a failed select must keep the current level")
	}
}

func TestEngine_Complete(t *testing.T) {
	e := createTestEngine(t)
	if _, err := e.SelectLevel(MinLevels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Filler levels are "s e".
	e.Move("right")
	out, err := e.Move("right")
	if err != nil || !out.Advanced {
		t.Fatalf("exit move: %+v %v", out, err)
	}
	if !e.IsComplete() {
		t.Fatal("walking out of the last level completes the pack")
	}
	if got := e.GetState().Message; got != "All levels complete!" {
		t.Errorf("message = %q", got)
	}
	if _, err := e.Move("left"); !errors.Is(err, ErrPackComplete) {
		t.Errorf("err = %v, want ErrPackComplete", err)
	}

	e.Reset()
	if e.IsComplete() || e.GetLevel().Number != MinLevels {
		t.Error("reset after completion restarts the last level")
	}
}

func TestEngine_Snapshot(t *testing.T) {
	e := createTestEngine(t, testLevel{name: "Snap", author: "Ann", rows: []string{"st31 ", " ~ "}})
	e.Move("down")

	snap := e.GetState()
	if snap.PackID != "test" || snap.TotalLevels != MinLevels || snap.LevelAuthor != "Ann" {
		t.Errorf("header = %q %d %q", snap.PackID, snap.TotalLevels, snap.LevelAuthor)
	}
	if snap.Width != 3 || snap.Height != 2 {
		t.Errorf("size = %dx%d", snap.Width, snap.Height)
	}
	if snap.Rows[0] != "st31 " || snap.Rows[1] != " ~ " {
		t.Errorf("rows = %q", snap.Rows)
	}
	if snap.Board[0] != "st." || snap.Board[1] != "@~." {
		t.Errorf("board = %q", snap.Board)
	}
	if snap.Sprites[0][1] != 27 || snap.Sprites[1][1] != 8 {
		t.Errorf("sprites = %v", snap.Sprites)
	}
	if len(snap.Inventory) != len(AllItems) {
		t.Errorf("inventory = %v", snap.Inventory)
	}
	want := []string{"#st", "#@~", "###"}
	for i := range want {
		if snap.LocalView3x3[i] != want[i] {
			t.Errorf("local view = %q, want %q", snap.LocalView3x3, want)
			break
		}
	}
}

func TestEngine_BulkMove(t *testing.T) {
	e := createTestEngine(t, scenarioLevel)

	results := e.BulkMove([]string{"down", "right", "up", "right"})
	// "up" from (1,1) hits the wall at (0,1) and stops the sequence.
	if len(results) != 3 || !results[0] || !results[1] || results[2] {
		t.Errorf("results = %v, want [true true false]", results)
	}
	if e.GetPlayerPosition() != (Coord{1, 1}) {
		t.Errorf("player = %v, want (1,1)", e.GetPlayerPosition())
	}
}
