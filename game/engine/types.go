package engine

import "fmt"

// CellKind represents what occupies a grid tile
type CellKind uint8

const (
	Empty CellKind = iota
	Wall
	Start
	Exit
	Bomb
	Cement
	Barrel
	Money
	Guard
	Hole
	MetalWall
	JellyBean
	Key
	Lock
	Gun
	Oxygen
	Water
	Teleport
)

// Validation constants
const (
	MinLevels     = 100
	MinTeleportID = 1
	MaxTeleportID = 5
	MaxBulkMoves  = 50
)

var cellKindNames = [...]string{
	Empty:     "empty",
	Wall:      "wall",
	Start:     "start",
	Exit:      "exit",
	Bomb:      "bomb",
	Cement:    "cement",
	Barrel:    "barrel",
	Money:     "money",
	Guard:     "guard",
	Hole:      "hole",
	MetalWall: "metal_wall",
	JellyBean: "jelly_bean",
	Key:       "key",
	Lock:      "lock",
	Gun:       "gun",
	Oxygen:    "oxygen",
	Water:     "water",
	Teleport:  "teleport",
}

func (k CellKind) String() string {
	if int(k) < len(cellKindNames) {
		return cellKindNames[k]
	}
	return fmt.Sprintf("cell_kind(%d)", uint8(k))
}

// AllCellKinds lists every kind in declaration order
func AllCellKinds() []CellKind {
	kinds := make([]CellKind, 0, len(cellKindNames))
	for k := range cellKindNames {
		kinds = append(kinds, CellKind(k))
	}
	return kinds
}

// Dir is the facing stored on a teleporter
type Dir uint8

const (
	Up Dir = iota + 1
	Down
	Left
	Right
)

func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("dir(%d)", uint8(d))
}

// Cell is the content of a single tile. TeleportID and Facing are only
// meaningful when Kind is Teleport. Cells are replaced wholesale, never patched.
type Cell struct {
	Kind       CellKind `json:"kind"`
	TeleportID uint8    `json:"teleport_id,omitempty"`
	Facing     Dir      `json:"facing,omitempty"`
}

// C returns a non-teleport cell of the given kind
func C(kind CellKind) Cell {
	return Cell{Kind: kind}
}

// TeleportCell returns a teleporter cell
func TeleportCell(id uint8, facing Dir) Cell {
	return Cell{Kind: Teleport, TeleportID: id, Facing: facing}
}

func (c Cell) String() string {
	if c.Kind == Teleport {
		return fmt.Sprintf("teleport(%d,%s)", c.TeleportID, c.Facing)
	}
	return c.Kind.String()
}

// Item is something the player can carry
type Item uint8

const (
	ItemKey Item = iota
	ItemOxygen
	ItemCement
	ItemMoney
)

// AllItems lists every item
var AllItems = []Item{ItemKey, ItemOxygen, ItemCement, ItemMoney}

func (i Item) String() string {
	switch i {
	case ItemKey:
		return "key"
	case ItemOxygen:
		return "oxygen"
	case ItemCement:
		return "cement"
	case ItemMoney:
		return "money"
	}
	return fmt.Sprintf("item(%d)", uint8(i))
}

// Coord represents a row, column position on a grid
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add offsets the coordinate without any bounds checking
func (c Coord) Add(d Delta) Coord {
	return Coord{Row: c.Row + d.Rows, Col: c.Col + d.Cols}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Delta is a signed single-step offset
type Delta struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// IsStep reports whether the delta is exactly one orthogonal step
func (d Delta) IsStep() bool {
	return abs(d.Rows)+abs(d.Cols) == 1
}

// Inventory maps items to non-negative counts
type Inventory map[Item]int

// Count returns how many of item are held
func (inv Inventory) Count(item Item) int {
	return inv[item]
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for item, n := range inv {
		out[item] = n
	}
	return out
}

// Level is an immutable template produced by the parser
type Level struct {
	Name      string `json:"name"`
	Author    string `json:"author"`
	Number    int    `json:"number"`
	Grid      *Grid  `json:"-"`
	StartPos  Coord  `json:"start_pos"`
	PlayerPos Coord  `json:"player_pos"`
}

// PlayState is the working copy of a level during play
type PlayState struct {
	Level     *Level
	Grid      *Grid
	Inventory Inventory
	Player    Coord
}

// Clone returns a deep copy sharing only the immutable level template
func (ps *PlayState) Clone() *PlayState {
	return &PlayState{
		Level:     ps.Level,
		Grid:      ps.Grid.Clone(),
		Inventory: ps.Inventory.Clone(),
		Player:    ps.Player,
	}
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string `json:"action"`
	FromPosition Coord  `json:"from_position"`
	ToPosition   Coord  `json:"to_position"`
	Level        int    `json:"level"`
	Timestamp    int64  `json:"timestamp"`
	Success      bool   `json:"success"`
	MoveNumber   int    `json:"move_number"`
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
