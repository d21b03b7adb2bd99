package engine

import (
	"errors"
	"reflect"
	"testing"
)

var (
	right = Delta{Cols: 1}
	left  = Delta{Cols: -1}
	down  = Delta{Rows: 1}
	up    = Delta{Rows: -1}
)

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		direction string
		want      Delta
		wantErr   bool
	}{
		{"up", up, false},
		{"down", down, false},
		{"left", left, false},
		{"right", right, false},
		{"UP", up, false},
		{"north", Delta{}, true},
		{"", Delta{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			got, err := DirectionDelta(tt.direction)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDirection) {
					t.Errorf("err = %v, want ErrInvalidDirection", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DirectionDelta(%q) = %+v, %v; want %+v", tt.direction, got, err, tt.want)
			}
		})
	}
}

func TestResolveMove_Rejected(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		inv  Inventory
	}{
		{"wall", []string{"sw"}, nil},
		{"metal wall", []string{"si"}, nil},
		{"barrel", []string{"sd"}, nil},
		{"guard without money", []string{"sg"}, nil},
		{"guard with only a key", []string{"sg"}, Inventory{ItemKey: 1}},
		{"lock without key", []string{"sl"}, Inventory{ItemMoney: 2}},
		{"push into wall", []string{"sjw"}, nil},
		{"push off grid", []string{"sj"}, nil},
		{"push into another jelly bean", []string{"sjj "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateFromRows(t, tt.rows...)
			for item, n := range tt.inv {
				state.Inventory[item] = n
			}
			before := state.Clone()

			next, signals, err := ResolveMove(state, right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(signals) != 0 {
				t.Errorf("signals = %v, want none", signals)
			}
			if next.Player != before.Player {
				t.Errorf("player moved to %v", next.Player)
			}
			if !reflect.DeepEqual(next.Inventory, before.Inventory) {
				t.Errorf("inventory = %v, want %v", next.Inventory, before.Inventory)
			}
			assertRows(t, next.Grid, tt.rows...)
		})
	}
}

func TestResolveMove_Money(t *testing.T) {
	state := stateFromRows(t, "sf ")

	next, signals, err := ResolveMove(state, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Inventory.Count(ItemMoney) != 1 {
		t.Errorf("money = %d, want 1", next.Inventory.Count(ItemMoney))
	}
	if next.Player != (Coord{0, 1}) {
		t.Errorf("player = %v, want (0,1)", next.Player)
	}
	assertRows(t, next.Grid, "s  ")
	want := []Signal{
		CellChanged{At: Coord{0, 1}, Cell: C(Empty)},
		PositionChanged{From: Coord{0, 0}, To: Coord{0, 1}},
	}
	if !reflect.DeepEqual(signals, want) {
		t.Errorf("signals = %v, want %v", signals, want)
	}

	// The input state is untouched.
	if state.Inventory.Count(ItemMoney) != 0 || state.Player != (Coord{0, 0}) {
		t.Error("ResolveMove modified its input")
	}
	assertRows(t, state.Grid, "sf ")

	// Stepping back onto the cleared cell only moves the player.
	back, _, _ := ResolveMove(next, left)
	again, signals, err := ResolveMove(back, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Inventory.Count(ItemMoney) != 1 {
		t.Errorf("money = %d after revisiting, want 1", again.Inventory.Count(ItemMoney))
	}
	if len(signals) != 1 {
		t.Errorf("signals = %v, want a single position change", signals)
	}
}

func TestResolveMove_Pickups(t *testing.T) {
	tests := []struct {
		token string
		item  Item
	}{
		{"k", ItemKey},
		{"o", ItemOxygen},
		{"c", ItemCement},
		{"f", ItemMoney},
	}

	for _, tt := range tests {
		t.Run(tt.item.String(), func(t *testing.T) {
			state := stateFromRows(t, "s"+tt.token)
			state.Inventory[tt.item] = 2
			next, _, err := ResolveMove(state, right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := next.Inventory.Count(tt.item); got != 3 {
				t.Errorf("%s = %d, want 3", tt.item, got)
			}
			assertRows(t, next.Grid, "s ")
		})
	}
}

func TestResolveMove_Consume(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		item     Item
		held     int
		moved    bool
		died     string
		wantRows string
	}{
		{"guard takes money", "g", ItemMoney, 1, true, "", "s "},
		{"lock takes key", "l", ItemKey, 3, true, "", "s "},
		{"hole filled with cement", "h", ItemCement, 1, true, "", "s "},
		{"water crossed with oxygen", "~", ItemOxygen, 1, true, "", "s "},
		{"hole without cement", "h", ItemCement, 0, false, MsgFellInHole, "sh"},
		{"water without oxygen", "~", ItemOxygen, 0, false, MsgDrowned, "s~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateFromRows(t, "s"+tt.token)
			state.Inventory[tt.item] = tt.held

			next, signals, err := ResolveMove(state, right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Moved(signals) != tt.moved {
				t.Errorf("moved = %v, want %v", Moved(signals), tt.moved)
			}
			wantHeld := tt.held
			if tt.held > 0 {
				wantHeld--
			}
			if got := next.Inventory.Count(tt.item); got != wantHeld {
				t.Errorf("%s = %d, want %d", tt.item, got, wantHeld)
			}
			assertRows(t, next.Grid, tt.wantRows)

			death, died := Death(signals)
			if (tt.died != "") != died || death.Message != tt.died {
				t.Errorf("death = %v %q, want %q", died, death.Message, tt.died)
			}
			if died {
				if next.Player != state.Player {
					t.Error("a dead player must not move")
				}
				if last := signals[len(signals)-1]; last != (SoundCue{Sound: SoundPlayerDie}) {
					t.Errorf("last signal = %v, want the death sound", last)
				}
			}
		})
	}
}

func TestResolveMove_ConsumeSuccessCanReject(t *testing.T) {
	state := stateFromRows(t, "sl")
	state.Inventory[ItemKey] = 1

	r := &resolution{state: state.Clone(), delta: right, dest: Coord{0, 1}}
	err := r.apply(Consume{Item: ItemKey, OnFailure: Reject(), OnSuccess: Reject()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.state.Player != state.Player {
		t.Error("player moved although the success branch rejects")
	}
	if r.state.Inventory.Count(ItemKey) != 0 {
		t.Error("the key is spent before the success branch runs")
	}
	assertRows(t, r.state.Grid, "s ")
}

func TestResolveMove_AreaExplode(t *testing.T) {
	t.Run("clears the blast radius and moves", func(t *testing.T) {
		state := stateFromRows(t,
			"sbw ",
			"ff i",
			"~k  ",
		)
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRows(t, next.Grid,
			"    ",
			"   i",
			"~k  ",
		)
		if next.Player != (Coord{0, 1}) {
			t.Errorf("player = %v, want (0,1)", next.Player)
		}
		if signals[0] != (SoundCue{Sound: SoundExplosion}) {
			t.Errorf("first signal = %v, want the explosion sound", signals[0])
		}
		if _, died := Death(signals); died {
			t.Error("unexpected death")
		}
		// s, b, w, f, f cleared
		changed := 0
		for _, s := range signals {
			if _, ok := s.(CellChanged); ok {
				changed++
			}
		}
		if changed != 5 {
			t.Errorf("%d cell changes, want 5", changed)
		}
	})

	t.Run("exit in range kills the player", func(t *testing.T) {
		state := stateFromRows(t,
			"www ",
			"sbe ",
			"ii~ ",
		)
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		death, died := Death(signals)
		if !died || death.Message != MsgExitBlownUp {
			t.Fatalf("death = %v %q, want %q", died, death.Message, MsgExitBlownUp)
		}
		if next.Player != state.Player {
			t.Errorf("player = %v, want unchanged", next.Player)
		}
		// The exit survives for the death signal, everything else not immune is cleared.
		assertRows(t, next.Grid,
			"    ",
			"  e ",
			"ii~ ",
		)
	})

	t.Run("barrel in range kills the player", func(t *testing.T) {
		state := stateFromRows(t,
			"sb",
			"wd",
		)
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		death, died := Death(signals)
		if !died || death.Message != MsgExplosion {
			t.Fatalf("death = %v %q, want %q", died, death.Message, MsgExplosion)
		}
		if next.Player != state.Player {
			t.Error("a dead player must not move")
		}
		assertRows(t, next.Grid, "  ", " d")
	})

	t.Run("first hazard in row-major order decides the message", func(t *testing.T) {
		state := stateFromRows(t,
			" d ",
			"sbe",
		)
		_, signals, _ := ResolveMove(state, right)
		deaths := 0
		for _, s := range signals {
			if d, ok := s.(PlayerDied); ok {
				deaths++
				if d.Message != MsgExplosion {
					t.Errorf("message = %q, want %q", d.Message, MsgExplosion)
				}
			}
		}
		if deaths != 1 {
			t.Errorf("%d deaths, want exactly 1", deaths)
		}
	})
}

func TestResolveMove_DirectionalShoot(t *testing.T) {
	t.Run("clears gun and the cell behind", func(t *testing.T) {
		state := stateFromRows(t, "sngw")
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRows(t, next.Grid, "s  w")
		if next.Player != (Coord{0, 1}) {
			t.Errorf("player = %v, want (0,1)", next.Player)
		}
		if signals[0] != (SoundCue{Sound: SoundExplosion}) {
			t.Errorf("first signal = %v, want the explosion sound", signals[0])
		}
	})

	// The cell behind the gun is cleared without the hazard check the gun cell gets.
	t.Run("barrel behind is cleared without a death", func(t *testing.T) {
		state := stateFromRows(t, "snd")
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, died := Death(signals); died {
			t.Error("the second cell must not be hazard checked")
		}
		assertRows(t, next.Grid, "s  ")
	})

	t.Run("exit behind is cleared without a death", func(t *testing.T) {
		state := stateFromRows(t, "sne")
		next, signals, _ := ResolveMove(state, right)
		if _, died := Death(signals); died {
			t.Error("the second cell must not be hazard checked")
		}
		assertRows(t, next.Grid, "s  ")
	})

	t.Run("gun at the edge", func(t *testing.T) {
		state := stateFromRows(t, "sn")
		next, _, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRows(t, next.Grid, "s ")
		if next.Player != (Coord{0, 1}) {
			t.Errorf("player = %v, want (0,1)", next.Player)
		}
	})

	t.Run("shooting down a column", func(t *testing.T) {
		state := stateFromRows(t, "s", "n", "i", "w")
		next, _, _ := ResolveMove(state, down)
		assertRows(t, next.Grid, "s", " ", " ", "w")
	})
}

func TestResolveMove_Push(t *testing.T) {
	t.Run("into empty", func(t *testing.T) {
		state := stateFromRows(t, "sj  ")
		next, signals, err := ResolveMove(state, right)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRows(t, next.Grid, "s j ")
		if next.Player != (Coord{0, 1}) {
			t.Errorf("player = %v, want (0,1)", next.Player)
		}
		want := []Signal{
			CellChanged{At: Coord{0, 1}, Cell: C(Empty)},
			CellChanged{At: Coord{0, 2}, Cell: C(JellyBean)},
			PositionChanged{From: Coord{0, 0}, To: Coord{0, 1}},
		}
		if !reflect.DeepEqual(signals, want) {
			t.Errorf("signals = %v, want %v", signals, want)
		}
	})

	t.Run("onto the start cell", func(t *testing.T) {
		state := stateFromRows(t, "s", "j", " ")
		state.Player = Coord{2, 0}
		next, _, err := ResolveMove(state, up)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRows(t, next.Grid, "j", " ", " ")
	})
}

func TestResolveMove_Exit(t *testing.T) {
	state := stateFromRows(t, "se")
	next, signals, err := ResolveMove(state, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Signal{LevelAdvanceRequested{Next: 8}}
	if !reflect.DeepEqual(signals, want) {
		t.Errorf("signals = %v, want %v", signals, want)
	}
	if next.Player != state.Player {
		t.Error("the player does not move onto the exit locally")
	}
}

func TestResolveMove_TeleportUnsupported(t *testing.T) {
	state := stateFromRows(t, "st24")
	next, signals, err := ResolveMove(state, right)
	if !errors.Is(err, ErrUnsupportedEffect) {
		t.Fatalf("err = %v, want ErrUnsupportedEffect", err)
	}
	if next != state {
		t.Error("the original state must be returned on error")
	}
	if signals != nil {
		t.Errorf("signals = %v, want none", signals)
	}
}

func TestResolveMove_OffGrid(t *testing.T) {
	state := stateFromRows(t, "s ")
	for _, d := range []Delta{up, down, left} {
		next, signals, err := ResolveMove(state, d)
		if err != nil || len(signals) != 0 || next != state {
			t.Errorf("move %+v off the grid = %v, %v, %v; want a silent no-op", d, next.Player, signals, err)
		}
	}
}

func TestResolveMove_InvalidDelta(t *testing.T) {
	state := stateFromRows(t, "s ", "  ")
	for _, d := range []Delta{{}, {Rows: 1, Cols: 1}, {Cols: 2}} {
		if _, _, err := ResolveMove(state, d); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("delta %+v: err = %v, want ErrInvalidDelta", d, err)
		}
	}
}

func TestResolveMove_EmptyAndStart(t *testing.T) {
	state := stateFromRows(t, "s ")
	next, signals, err := ResolveMove(state, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Player != (Coord{0, 1}) || len(signals) != 1 {
		t.Errorf("player = %v signals = %v", next.Player, signals)
	}
	back, signals, _ := ResolveMove(next, left)
	if back.Player != (Coord{0, 0}) || len(signals) != 1 {
		t.Errorf("walking onto the start cell: player = %v signals = %v", back.Player, signals)
	}
}
