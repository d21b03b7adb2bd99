package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mushroomman/game/engine"
)

var (
	ErrNoSolution  = errors.New("no move sequence reaches an exit")
	ErrSearchLimit = errors.New("search limit reached")
)

// node is one explored play state. Paths are rebuilt by walking parents.
type node struct {
	state     *engine.PlayState
	parent    int
	direction string
}

// SearchStats describes how much of the state space a search touched
type SearchStats struct {
	Explored   int
	Unplayable int // moves skipped because the engine cannot resolve them yet
}

// Solve returns the shortest list of directions that ends on an exit.
// maxStates bounds the search.
func Solve(start *engine.PlayState, maxStates int) ([]string, SearchStats, error) {
	var stats SearchStats

	nodes := []node{{state: start, parent: -1}}
	visited := map[string]bool{stateKey(start): true}

	for i := 0; i < len(nodes); i++ {
		if len(nodes) > maxStates {
			stats.Explored = len(nodes)
			return nil, stats, fmt.Errorf("%w: %d states", ErrSearchLimit, maxStates)
		}
		current := nodes[i].state

		for _, direction := range engine.Directions {
			delta, _ := engine.DirectionDelta(direction)
			next, signals, err := engine.ResolveMove(current, delta)
			if err != nil {
				stats.Unplayable++
				continue
			}
			if _, died := engine.Death(signals); died {
				continue
			}
			if _, advanced := engine.AdvanceRequest(signals); advanced {
				stats.Explored = len(nodes)
				return append(pathTo(nodes, i), direction), stats, nil
			}

			key := stateKey(next)
			if visited[key] {
				continue
			}
			visited[key] = true
			nodes = append(nodes, node{state: next, parent: i, direction: direction})
		}
	}

	stats.Explored = len(nodes)
	return nil, stats, ErrNoSolution
}

func pathTo(nodes []node, i int) []string {
	var path []string
	for ; nodes[i].parent >= 0; i = nodes[i].parent {
		path = append(path, nodes[i].direction)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// stateKey identifies a play state by position, inventory and every cell
func stateKey(ps *engine.PlayState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d|", ps.Player.Row, ps.Player.Col)
	for _, item := range engine.AllItems {
		fmt.Fprintf(&b, "%d,", ps.Inventory.Count(item))
	}
	b.WriteByte('|')
	for r := 0; r < ps.Grid.Rows(); r++ {
		for c := 0; c < ps.Grid.Cols(); c++ {
			b.WriteString(engine.EncodeCell(ps.Grid.At(engine.Coord{Row: r, Col: c})))
		}
		b.WriteByte('/')
	}
	return b.String()
}

// SolveLevel solves one level of a pack from its start position
func SolveLevel(pack *engine.LevelPack, number, maxStates int) ([]string, SearchStats, error) {
	start, err := engine.EnterLevel(pack, number)
	if err != nil {
		return nil, SearchStats{}, err
	}
	return Solve(start, maxStates)
}
