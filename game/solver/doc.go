// Package solver finds move sequences that clear Mushroom Man levels.
//
// Solve runs a breadth-first search over engine.ResolveMove, so every rule
// the engine knows (bombs clearing walls, guns shooting barrels, pushed jelly
// beans, consumed items) is taken into account. States are keyed by player
// position, inventory and every cell of the grid. Moves that kill the player
// are pruned; moves the engine cannot resolve yet, such as stepping onto a
// teleporter, are skipped and counted in SearchStats.Unplayable.
//
// Usage:
//
//	path, stats, err := solver.SolveLevel(pack, pack.First().Number, 100000)
//	switch {
//	case errors.Is(err, solver.ErrNoSolution):
//		// no sequence of playable moves reaches an exit
//	case errors.Is(err, solver.ErrSearchLimit):
//		// gave up after exploring the state budget
//	}
package solver
