// Command analyze prints quick, human-readable heuristics about level packs.
// It summarizes each pack (checksum, level count, authors, cell totals) and,
// with --levels, every level: size, start to nearest exit distance, item and
// hazard counts, teleports and items that look too scarce to finish the level.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/levels"
)

// LevelStats is what analysis reports for one level
type LevelStats struct {
	Number    int
	Name      string
	Author    string
	Rows      int
	Cols      int
	Start     engine.Coord
	Exit      engine.Coord
	ExitDist  int // -1 when the level has no exit
	Counts    map[engine.CellKind]int
	Teleports []uint8
	Warnings  []string
}

// PackStats aggregates every level of a pack
type PackStats struct {
	Name     string
	Checksum uint32
	Levels   []LevelStats
	Authors  []string
	Totals   map[engine.CellKind]int
}

// scarcity pairs an item cell with the cell that consumes it
var scarcity = []struct {
	supply, demand engine.CellKind
}{
	{engine.Key, engine.Lock},
	{engine.Money, engine.Guard},
	{engine.Cement, engine.Hole},
}

func analyzeLevel(level *engine.Level) LevelStats {
	stats := LevelStats{
		Number:    level.Number,
		Name:      level.Name,
		Author:    level.Author,
		Rows:      level.Grid.Rows(),
		Cols:      level.Grid.Cols(),
		Start:     level.StartPos,
		ExitDist:  -1,
		Counts:    engine.CountCellKinds(level.Grid),
		Teleports: engine.TeleportIDs(level.Grid),
	}

	if exit, dist, ok := engine.FindNearest(level.Grid, level.StartPos, engine.Exit); ok {
		stats.Exit = exit
		stats.ExitDist = dist
	} else {
		stats.Warnings = append(stats.Warnings, "no exit")
	}

	for _, pair := range scarcity {
		have, need := stats.Counts[pair.supply], stats.Counts[pair.demand]
		if need > have {
			stats.Warnings = append(stats.Warnings,
				fmt.Sprintf("%d %s cells but only %d %s", need, pair.demand, have, pair.supply))
		}
	}
	return stats
}

func analyzePack(name string, pack *engine.LevelPack) PackStats {
	stats := PackStats{
		Name:     name,
		Checksum: pack.Checksum,
		Totals:   make(map[engine.CellKind]int),
	}

	authors := mapset.New[string]()
	for _, level := range pack.Levels {
		ls := analyzeLevel(level)
		stats.Levels = append(stats.Levels, ls)
		authors.Put(ls.Author)
		for kind, n := range ls.Counts {
			stats.Totals[kind] += n
		}
	}

	authors.Each(func(a string) {
		stats.Authors = append(stats.Authors, a)
	})
	sort.Strings(stats.Authors)
	return stats
}

// formatCounts lists non-zero counts in declaration order, skipping the
// structural kinds every level has
func formatCounts(counts map[engine.CellKind]int) string {
	var parts []string
	for _, kind := range engine.AllCellKinds() {
		switch kind {
		case engine.Empty, engine.Wall, engine.Start:
			continue
		}
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func printPack(w io.Writer, stats PackStats, perLevel bool) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", stats.Name)
	fmt.Fprintf(w, "Checksum: %d\n", stats.Checksum)
	fmt.Fprintf(w, "Levels: %d\n", len(stats.Levels))
	fmt.Fprintf(w, "Authors (%d): %s\n", len(stats.Authors), strings.Join(stats.Authors, ", "))
	fmt.Fprintf(w, "Totals: %s\n", formatCounts(stats.Totals))

	teleporting, warned := 0, 0
	for _, ls := range stats.Levels {
		if len(ls.Teleports) > 0 {
			teleporting++
		}
		if len(ls.Warnings) > 0 {
			warned++
		}
	}
	fmt.Fprintf(w, "Levels with teleports: %d\n", teleporting)

	if perLevel {
		for _, ls := range stats.Levels {
			printLevel(w, ls)
		}
	}

	if warned > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d levels look unfinishable from item counts alone\n", warned)
	} else {
		fmt.Fprintln(w, "✅ Every level has an exit and enough items for its obstacles")
	}
}

func printLevel(w io.Writer, ls LevelStats) {
	fmt.Fprintf(w, "\nLevel %d: %s by %s (%dx%d)\n", ls.Number, ls.Name, ls.Author, ls.Cols, ls.Rows)
	if ls.ExitDist >= 0 {
		fmt.Fprintf(w, "  Start %s, nearest exit %s at distance %d\n", ls.Start, ls.Exit, ls.ExitDist)
	}
	fmt.Fprintf(w, "  Cells: %s\n", formatCounts(ls.Counts))
	if len(ls.Teleports) > 0 {
		fmt.Fprintf(w, "  Teleports: %v\n", ls.Teleports)
	}
	for _, warning := range ls.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
}

// analyzeData parses and prints one pack
func analyzeData(w io.Writer, name string, data []byte, minLevels int, perLevel bool) error {
	pack, err := engine.ParseLevelPack(data, nil, engine.WithMinLevels(minLevels))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	printPack(w, analyzePack(name, pack), perLevel)
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	minLevels := cmd.Int("min-levels")
	perLevel := cmd.Bool("levels")

	files := cmd.Args().Slice()
	if len(files) == 0 {
		return analyzeData(out, levels.BuiltinID+".dat", levels.Classic, minLevels, perLevel)
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		if err := analyzeData(out, filepath.Base(file), data, minLevels, perLevel); err != nil {
			return err
		}
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "summarize Mushroom Man level packs",
		ArgsUsage: "[pack.dat ...] (defaults to the embedded pack)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "levels",
				Usage: "print every level, not just the pack summary",
			},
			&cli.IntFlag{
				Name:  "min-levels",
				Value: engine.MinLevels,
				Usage: "minimum number of levels a pack must have",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
