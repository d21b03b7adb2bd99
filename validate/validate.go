// Command validate checks Mushroom Man level packs. For every *.dat file
// given (or found in --dir) it checks:
//   - the pack parses: header, checksum line, level blocks, cell tokens
//   - the pack has at least --min-levels levels
//   - optionally, the header checksum equals the byte sum of the level data
//   - every level has an exit
//   - every level can be cleared, by searching the engine's own move rules
//
// Levels using teleports are reported as warnings since teleports cannot be
// played yet. So are levels the search gives up on after --max-states.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/game/solver"
	"github.com/wricardo/mushroomman/levels"
)

var (
	errNoPacks      = errors.New("no level packs found")
	errInvalidPacks = errors.New("some level packs have errors")
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// defaultMaxStates is the per-level search budget when Options.MaxStates is unset
const defaultMaxStates = 100000

// Options control how strict validation is
type Options struct {
	MinLevels     int
	CheckChecksum bool
	MaxStates     int
}

// byteSum is the checksum used by the bundled packs: the sum of every byte
// after the blank line that follows the header.
func byteSum(payload []byte) uint32 {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return sum
}

var byteSumVerifier = engine.ChecksumFunc(func(checksum uint32, payload []byte) error {
	if got := byteSum(payload); got != checksum {
		return fmt.Errorf("header says %d, data sums to %d", checksum, got)
	}
	return nil
})

// validateFile loads and validates a single level pack file
func validateFile(filePath string, opts Options) ValidationResult {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ValidationResult{
			File:   filepath.Base(filePath),
			Errors: []string{fmt.Sprintf("Failed to read file: %v", err)},
		}
	}
	return validatePack(filepath.Base(filePath), data, opts)
}

// validatePack parses a pack and checks every level in it
func validatePack(name string, data []byte, opts Options) ValidationResult {
	result := ValidationResult{
		File:   name,
		Valid:  true,
		Errors: []string{},
	}

	parseOpts := []engine.ParseOption{engine.WithMinLevels(opts.MinLevels)}
	if opts.CheckChecksum {
		parseOpts = append(parseOpts, engine.WithChecksumVerifier(byteSumVerifier))
	}

	pack, err := engine.ParseLevelPack(data, nil, parseOpts...)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	maxStates := opts.MaxStates
	if maxStates <= 0 {
		maxStates = defaultMaxStates
	}

	teleportLevels, solved, longest := 0, 0, 0
	for _, level := range pack.Levels {
		check := checkLevel(pack, level, maxStates)
		prefix := fmt.Sprintf("Level %d (%s): ", level.Number, level.Name)
		for _, problem := range check.problems {
			result.Valid = false
			result.Errors = append(result.Errors, prefix+problem)
		}
		for _, warning := range check.warnings {
			result.Warnings = append(result.Warnings, prefix+warning)
		}
		if check.solved {
			solved++
			longest = max(longest, check.moves)
		}
		if ids := engine.TeleportIDs(level.Grid); len(ids) > 0 {
			teleportLevels++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Level %d (%s) uses teleports %v, which cannot be entered yet", level.Number, level.Name, ids))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Levels: %d", pack.Len()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Checksum: %d", pack.Checksum))
		if opts.CheckChecksum {
			result.Errors = append(result.Errors, "✓ Checksum matches level data")
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Solved %d of %d levels, longest in %d moves (%d levels with teleports)",
			solved, pack.Len(), longest, teleportLevels))
	}

	return result
}

type levelCheck struct {
	problems []string
	warnings []string
	solved   bool
	moves    int
}

// checkLevel searches one level for a move sequence that reaches an exit.
// A level that only fails because a teleport would have to be entered, or
// because the search ran out of states, gets a warning instead of a problem.
func checkLevel(pack *engine.LevelPack, level *engine.Level, maxStates int) levelCheck {
	var check levelCheck

	if engine.CountCellKind(level.Grid, engine.Exit) == 0 {
		check.problems = append(check.problems, "no exit (e)")
		return check
	}

	path, stats, err := solver.SolveLevel(pack, level.Number, maxStates)
	switch {
	case err == nil:
		check.solved = true
		check.moves = len(path)
	case errors.Is(err, solver.ErrNoSolution) && stats.Unplayable > 0:
		check.warnings = append(check.warnings, "exit not reached without entering a teleport")
	case errors.Is(err, solver.ErrNoSolution):
		check.problems = append(check.problems, "exit unreachable from start")
	case errors.Is(err, solver.ErrSearchLimit):
		check.warnings = append(check.warnings, fmt.Sprintf("no solution found within %d states", maxStates))
	default:
		check.problems = append(check.problems, err.Error())
	}
	return check
}

// collectFiles expands the arguments into pack files, or lists *.dat in dir
func collectFiles(args []string, dir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.dat"))
	if err != nil {
		return nil, fmt.Errorf("error finding level packs: %w", err)
	}
	return files, nil
}

// report prints one result and returns whether it was valid
func report(w io.Writer, result ValidationResult) bool {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Fprintln(w, "✅ VALID")
		for _, info := range result.Errors {
			fmt.Fprintln(w, "  "+info)
		}
	} else {
		fmt.Fprintln(w, "❌ INVALID")
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(w, "  ⚠️  "+warning)
	}
	return result.Valid
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts := Options{
		MinLevels:     cmd.Int("min-levels"),
		CheckChecksum: cmd.Bool("checksum"),
		MaxStates:     cmd.Int("max-states"),
	}
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	var results []ValidationResult
	if cmd.Bool("builtin") {
		results = append(results, validatePack("embedded "+levels.BuiltinID+".dat", levels.Classic, opts))
	}

	files, err := collectFiles(cmd.Args().Slice(), cmd.String("dir"))
	if err != nil {
		return err
	}
	for _, file := range files {
		results = append(results, validateFile(file, opts))
	}
	if len(results) == 0 {
		return errNoPacks
	}

	allValid := true
	for _, result := range results {
		if !report(out, result) {
			allValid = false
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(out, "❌ Some level packs have errors")
		return errInvalidPacks
	}
	fmt.Fprintln(out, "✅ All level packs are valid!")
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check Mushroom Man level packs",
		ArgsUsage: "[pack.dat ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "../levels",
				Usage: "directory scanned for *.dat when no files are given",
			},
			&cli.IntFlag{
				Name:  "min-levels",
				Value: engine.MinLevels,
				Usage: "minimum number of levels a pack must have",
			},
			&cli.IntFlag{
				Name:  "max-states",
				Value: defaultMaxStates,
				Usage: "search budget per level before giving up with a warning",
			},
			&cli.BoolFlag{
				Name:  "checksum",
				Usage: "require the header checksum to equal the byte sum of the level data",
			},
			&cli.BoolFlag{
				Name:  "builtin",
				Usage: "also validate the pack embedded in the server",
			},
		},
		Action: run,
	}
}

// main validates the packs and exits with non-zero status if any are invalid
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
