package engine

import "strings"

// Board characters that are not level-file tokens
const (
	BoardPlayer   = '@'
	BoardEmpty    = '.'
	BoardTeleport = 't'
	BoardOutside  = '#'
)

// Snapshot is a read-only copy of the play state for presentation clients
type Snapshot struct {
	PackID      string `json:"pack_id"`
	Level       int    `json:"level"`
	LevelName   string `json:"level_name"`
	LevelAuthor string `json:"level_author"`
	TotalLevels int    `json:"total_levels"`

	Width  int `json:"width"`
	Height int `json:"height"`
	// Rows holds each grid row in level-file encoding
	Rows []string `json:"rows"`
	// Board holds one character per cell with the player drawn on top
	Board   []string `json:"board"`
	Sprites [][]int  `json:"sprites"`

	PlayerPos Coord          `json:"player_pos"`
	StartPos  Coord          `json:"start_pos"`
	Inventory map[string]int `json:"inventory"`

	Message  string `json:"message"`
	GameOver bool   `json:"game_over"`
	Complete bool   `json:"complete"`

	TotalMoves        int `json:"total_moves"`
	CurrentMovesCount int `json:"current_moves_count"`

	LocalView3x3  []string `json:"local_view_3x3,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// NewSnapshot copies the grid, inventory and position out of a play state
func NewSnapshot(ps *PlayState) *Snapshot {
	g := ps.Grid
	snap := &Snapshot{
		Level:       ps.Level.Number,
		LevelName:   ps.Level.Name,
		LevelAuthor: ps.Level.Author,
		Width:       g.Cols(),
		Height:      g.Rows(),
		Rows:        make([]string, g.Rows()),
		Board:       make([]string, g.Rows()),
		Sprites:     make([][]int, g.Rows()),
		PlayerPos:   ps.Player,
		StartPos:    ps.Level.StartPos,
		Inventory:   make(map[string]int, len(AllItems)),
	}
	for r := 0; r < g.Rows(); r++ {
		row := g.Row(r)
		snap.Rows[r] = EncodeRow(row)

		board := make([]byte, len(row))
		sprites := make([]int, len(row))
		for c, cell := range row {
			board[c] = BoardChar(cell)
			if frames, err := SpriteIndices(cell); err == nil {
				sprites[c] = frames[0]
			}
		}
		if r == ps.Player.Row {
			board[ps.Player.Col] = BoardPlayer
		}
		snap.Board[r] = string(board)
		snap.Sprites[r] = sprites
	}
	for _, item := range AllItems {
		snap.Inventory[item.String()] = ps.Inventory.Count(item)
	}
	return snap
}

// BoardChar returns the single display character for a cell
func BoardChar(c Cell) byte {
	switch c.Kind {
	case Empty:
		return BoardEmpty
	case Teleport:
		return BoardTeleport
	}
	return cellTokens[c.Kind]
}

// LocalView returns the 3x3 board centred on c. Cells outside the grid are drawn as BoardOutside.
func LocalView(g *Grid, c Coord) []string {
	lines := make([]string, 0, 3)
	for dr := -1; dr <= 1; dr++ {
		var row strings.Builder
		for dc := -1; dc <= 1; dc++ {
			at := Coord{Row: c.Row + dr, Col: c.Col + dc}
			switch {
			case dr == 0 && dc == 0:
				row.WriteByte(BoardPlayer)
			case !g.InBounds(at):
				row.WriteByte(BoardOutside)
			default:
				row.WriteByte(BoardChar(g.At(at)))
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}

// String draws the board one row per line
func (s *Snapshot) String() string {
	return strings.Join(s.Board, "\n")
}
