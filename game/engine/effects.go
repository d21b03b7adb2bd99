package engine

import "fmt"

// Death messages emitted by the built-in effects
const (
	MsgExplosion   = "died in an explosion"
	MsgExitBlownUp = "blew up the exit"
	MsgFellInHole  = "fell into a hole"
	MsgDrowned     = "drowned"
)

// Effect is the rule triggered when the player tries to enter a cell.
// The set of implementations is closed to this package.
type Effect interface {
	fmt.Stringer
	effect()
}

// Nothing lets the player walk in.
type Nothing struct{}

// Block rejects the move.
type Block struct{}

// Add clears the cell and credits the inventory.
type Add struct {
	Item   Item
	Amount int
}

// Consume spends one Item. OnFailure runs when none is held, OnSuccess after spending.
type Consume struct {
	Item      Item
	OnFailure Outcome
	OnSuccess Outcome
}

// AreaExplode clears the blast radius around the destination.
type AreaExplode struct{}

// DirectionalShoot clears the destination and the next cell along the move.
type DirectionalShoot struct{}

// Push shoves the destination's object one cell further along the move.
type Push struct{}

// Warp is the effect of a teleporter. Resolution does not support it yet.
type Warp struct {
	ID     uint8
	Facing Dir
}

// Die kills the player.
type Die struct {
	Message string
}

// AdvanceLevel asks for the next level.
type AdvanceLevel struct{}

func (Nothing) effect()          {}
func (Block) effect()            {}
func (Add) effect()              {}
func (Consume) effect()          {}
func (AreaExplode) effect()      {}
func (DirectionalShoot) effect() {}
func (Push) effect()             {}
func (Warp) effect()             {}
func (Die) effect()              {}
func (AdvanceLevel) effect()     {}

func (Nothing) String() string          { return "nothing" }
func (Block) String() string            { return "block" }
func (a Add) String() string            { return fmt.Sprintf("add(%s,%d)", a.Item, a.Amount) }
func (AreaExplode) String() string      { return "area_explode" }
func (DirectionalShoot) String() string { return "directional_shoot" }
func (Push) String() string             { return "push" }
func (w Warp) String() string           { return fmt.Sprintf("teleport(%d,%s)", w.ID, w.Facing) }
func (d Die) String() string            { return fmt.Sprintf("die(%q)", d.Message) }
func (AdvanceLevel) String() string     { return "advance_level" }

func (c Consume) String() string {
	return fmt.Sprintf("consume(%s, failure=%s, success=%s)", c.Item, c.OnFailure.Effect(), c.OnSuccess.Effect())
}

type outcomeKind uint8

const (
	outcomeProceed outcomeKind = iota
	outcomeReject
	outcomeFatal
)

// Outcome is a branch of a Consume effect. It can only be built through
// Proceed, Reject and Fatal, so nested effects are limited to Nothing, Block and Die.
type Outcome struct {
	kind    outcomeKind
	message string
}

// Proceed lets the move go ahead.
func Proceed() Outcome { return Outcome{kind: outcomeProceed} }

// Reject blocks the move.
func Reject() Outcome { return Outcome{kind: outcomeReject} }

// Fatal kills the player with message.
func Fatal(message string) Outcome { return Outcome{kind: outcomeFatal, message: message} }

// Effect returns the leaf effect the outcome stands for
func (o Outcome) Effect() Effect {
	switch o.kind {
	case outcomeReject:
		return Block{}
	case outcomeFatal:
		return Die{Message: o.message}
	default:
		return Nothing{}
	}
}

// EffectOf maps every cell kind to its effect
func EffectOf(c Cell) Effect {
	switch c.Kind {
	case Empty, Start:
		return Nothing{}
	case Wall, MetalWall, Barrel:
		return Block{}
	case Exit:
		return AdvanceLevel{}
	case Bomb:
		return AreaExplode{}
	case Cement:
		return Add{Item: ItemCement, Amount: 1}
	case Money:
		return Add{Item: ItemMoney, Amount: 1}
	case Key:
		return Add{Item: ItemKey, Amount: 1}
	case Oxygen:
		return Add{Item: ItemOxygen, Amount: 1}
	case Guard:
		return Consume{Item: ItemMoney, OnFailure: Reject(), OnSuccess: Proceed()}
	case Lock:
		return Consume{Item: ItemKey, OnFailure: Reject(), OnSuccess: Proceed()}
	case Hole:
		return Consume{Item: ItemCement, OnFailure: Fatal(MsgFellInHole), OnSuccess: Proceed()}
	case Water:
		return Consume{Item: ItemOxygen, OnFailure: Fatal(MsgDrowned), OnSuccess: Proceed()}
	case JellyBean:
		return Push{}
	case Gun:
		return DirectionalShoot{}
	case Teleport:
		return Warp{ID: c.TeleportID, Facing: c.Facing}
	}
	return Block{}
}
