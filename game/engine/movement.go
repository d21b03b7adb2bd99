package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedEffect = errors.New("unsupported effect")
	ErrInvalidDelta      = errors.New("move must be one orthogonal step")
	ErrInvalidDirection  = errors.New("invalid direction")
)

// Directions lists the accepted direction names
var Directions = []string{"up", "down", "left", "right"}

// DirectionDelta converts a direction name into a single-step delta
func DirectionDelta(direction string) (Delta, error) {
	switch strings.ToLower(direction) {
	case "up":
		return Delta{Rows: -1}, nil
	case "down":
		return Delta{Rows: 1}, nil
	case "left":
		return Delta{Cols: -1}, nil
	case "right":
		return Delta{Cols: 1}, nil
	}
	return Delta{}, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
}

// ResolveMove applies one step of the player along delta and returns the
// resulting state with the signals it produced. The input state is never
// modified. A destination outside the grid is a no-op. On error the
// original state is returned unchanged.
func ResolveMove(state *PlayState, delta Delta) (*PlayState, []Signal, error) {
	if !delta.IsStep() {
		return state, nil, fmt.Errorf("%w: %+v", ErrInvalidDelta, delta)
	}
	dest, ok := state.Grid.Neighbor(state.Player, delta)
	if !ok {
		return state, nil, nil
	}

	r := &resolution{state: state.Clone(), delta: delta, dest: dest}
	if err := r.apply(EffectOf(r.state.Grid.At(dest))); err != nil {
		return state, nil, err
	}
	return r.state, r.signals, nil
}

type resolution struct {
	state   *PlayState
	delta   Delta
	dest    Coord
	signals []Signal
}

func (r *resolution) apply(effect Effect) error {
	switch e := effect.(type) {
	case Nothing:
		r.moveTo(r.dest)

	case Block:
		// rejected, nothing changes

	case Add:
		r.setCell(r.dest, C(Empty))
		r.state.Inventory[e.Item] += e.Amount
		r.moveTo(r.dest)

	case Consume:
		if r.state.Inventory[e.Item] == 0 {
			r.outcome(e.OnFailure)
			return nil
		}
		r.state.Inventory[e.Item]--
		r.setCell(r.dest, C(Empty))
		r.outcome(e.OnSuccess)

	case AreaExplode:
		r.emit(SoundCue{Sound: SoundExplosion})
		if r.explode() {
			r.moveTo(r.dest)
		}

	case DirectionalShoot:
		r.emit(SoundCue{Sound: SoundExplosion})
		if !r.hazard(r.dest) {
			r.setCell(r.dest, C(Empty))
			// The cell behind is cleared without a hazard check.
			if behind, ok := r.state.Grid.Neighbor(r.dest, r.delta); ok {
				r.setCell(behind, C(Empty))
			}
			r.moveTo(r.dest)
		}

	case Push:
		behind, ok := r.state.Grid.Neighbor(r.dest, r.delta)
		if !ok {
			return nil
		}
		switch r.state.Grid.At(behind).Kind {
		case Empty, Start:
		default:
			return nil
		}
		r.setCell(r.dest, C(Empty))
		r.setCell(behind, C(JellyBean))
		r.moveTo(r.dest)

	case Warp:
		return fmt.Errorf("%w: %s", ErrUnsupportedEffect, e)

	case Die:
		r.die(e.Message)

	case AdvanceLevel:
		r.emit(LevelAdvanceRequested{Next: r.state.Level.Number + 1})

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedEffect, effect)
	}
	return nil
}

// explode clears every non-hazard cell in the blast radius, then reports
// the first hazard in row-major order as a death. It returns false when
// the player died.
func (r *resolution) explode() bool {
	var hazard *Coord
	for _, c := range SortedCoords(r.state.Grid.BlastRadius(r.dest)) {
		switch r.state.Grid.At(c).Kind {
		case Barrel, Exit:
			if hazard == nil {
				at := c
				hazard = &at
			}
		default:
			r.setCell(c, C(Empty))
		}
	}
	if hazard != nil {
		return !r.hazard(*hazard)
	}
	return true
}

// hazard emits a death when c holds a Barrel or an Exit
func (r *resolution) hazard(c Coord) bool {
	switch r.state.Grid.At(c).Kind {
	case Barrel:
		r.die(MsgExplosion)
		return true
	case Exit:
		r.die(MsgExitBlownUp)
		return true
	}
	return false
}

func (r *resolution) outcome(o Outcome) {
	switch o.kind {
	case outcomeProceed:
		r.moveTo(r.dest)
	case outcomeFatal:
		r.die(o.message)
	}
}

func (r *resolution) setCell(at Coord, cell Cell) {
	if r.state.Grid.At(at) == cell {
		return
	}
	r.state.Grid.Set(at, cell)
	r.emit(CellChanged{At: at, Cell: cell})
}

func (r *resolution) moveTo(c Coord) {
	from := r.state.Player
	r.state.Player = c
	r.emit(PositionChanged{From: from, To: c})
}

func (r *resolution) die(message string) {
	r.emit(PlayerDied{Message: message})
	r.emit(SoundCue{Sound: SoundPlayerDie})
}

func (r *resolution) emit(s Signal) {
	r.signals = append(r.signals, s)
}
