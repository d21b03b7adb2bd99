// Command bruteforcer solves Mushroom Man levels by breadth-first search over
// the engine's move resolution. With -url it also plays every solution against
// a running server through the REST API, advancing level by level.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/game/solver"
	"github.com/wricardo/mushroomman/levels"
)

// levelResult is the offline search outcome for one level
type levelResult struct {
	Index int // 0-based position in the pack
	Level *engine.Level
	Path  []string
	Stats solver.SearchStats
	Err   error
}

// solveLevels searches every level, or only the only-th (1-based) when only > 0
func solveLevels(pack *engine.LevelPack, only, maxStates int) ([]levelResult, error) {
	if only > pack.Len() {
		return nil, fmt.Errorf("level %d not in pack (%d levels)", only, pack.Len())
	}

	var results []levelResult
	for i, level := range pack.Levels {
		if only > 0 && i+1 != only {
			continue
		}
		path, stats, err := solver.SolveLevel(pack, level.Number, maxStates)
		results = append(results, levelResult{Index: i, Level: level, Path: path, Stats: stats, Err: err})
	}
	return results, nil
}

// compress renders a path as run lengths, e.g. "right×5 down×2"
func compress(path []string) string {
	var parts []string
	for i := 0; i < len(path); {
		j := i
		for j < len(path) && path[j] == path[i] {
			j++
		}
		if n := j - i; n > 1 {
			parts = append(parts, fmt.Sprintf("%s×%d", path[i], n))
		} else {
			parts = append(parts, path[i])
		}
		i = j
	}
	return strings.Join(parts, " ")
}

func logResult(r levelResult) {
	entry := log.WithFields(log.Fields{
		"level":    r.Index + 1,
		"explored": r.Stats.Explored,
	})
	switch {
	case r.Err == nil:
		entry.Infof("✅ %s: %d moves: %s", r.Level.Name, len(r.Path), compress(r.Path))
	case errors.Is(r.Err, solver.ErrNoSolution) && r.Stats.Unplayable > 0:
		entry.Warnf("⏭️  %s: only reachable through teleports", r.Level.Name)
	default:
		entry.Warnf("❌ %s: %v", r.Level.Name, r.Err)
	}
}

// playLevels replays the solutions on the server. firstServerLevel is the
// server's number for the first level of the pack, since servers number
// levels across every pack they load.
func playLevels(client *Client, state *engine.Snapshot, firstServerLevel int, results []levelResult, delay time.Duration) (int, error) {
	played := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		serverLevel := firstServerLevel + r.Index
		if state.Level != serverLevel || state.GameOver {
			var err error
			if state, err = client.SelectLevel(serverLevel); err != nil {
				return played, fmt.Errorf("select level %d: %w", serverLevel, err)
			}
		}

		result, err := client.Play(r.Path)
		if err != nil {
			return played, fmt.Errorf("level %d: %w", serverLevel, err)
		}
		state = result.GameState

		if result.Complete || result.EndLevel > serverLevel {
			played++
			log.WithFields(log.Fields{
				"level": serverLevel,
				"moves": result.MovesExecuted,
			}).Info("🏁 Level cleared on server")
		} else {
			log.WithFields(log.Fields{
				"level": serverLevel,
				"stop":  result.StopReasonCode,
			}).Warnf("Server disagreed with solution: %s", result.StoppedReason)
		}

		if result.Complete {
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return played, nil
}

func loadPack(path string) (*engine.LevelPack, error) {
	if path == "" {
		return engine.LoadPack(levels.Classic)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}
	return engine.LoadPack(data)
}

func main() {
	serverURL := flag.String("url", "", "Game server URL; when empty levels are only solved locally")
	packFile := flag.String("pack", "", "Level pack file to solve (default: the embedded classic pack)")
	packID := flag.String("pack-id", "", "Server pack id for new sessions (default: server default)")
	continueSession := flag.String("continue", "", "Play on an existing session by ID")
	only := flag.Int("level", 0, "Only solve this level (1-based position in the pack)")
	maxStates := flag.Int("max-states", 500000, "Maximum states explored per level")
	delayMs := flag.Int("delay", 0, "Delay between levels in milliseconds (0 = no delay)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	pack, err := loadPack(*packFile)
	if err != nil {
		log.Fatalf("Failed to load pack: %v", err)
	}

	results, err := solveLevels(pack, *only, *maxStates)
	if err != nil {
		log.Fatal(err)
	}

	solved := 0
	for _, r := range results {
		logResult(r)
		if r.Err == nil {
			solved++
		}
	}
	log.Printf("Solved %d/%d levels", solved, len(results))

	if *serverURL == "" {
		return
	}

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *engine.Snapshot
	if *continueSession != "" {
		state, err = client.Resume(*continueSession)
		if err != nil {
			log.Fatalf("Failed to resume session: %v", err)
		}
		log.Printf("🔄 Resuming session: %s", client.SessionID())
	} else {
		state, err = client.CreateSession(*packID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.SessionID())
	}
	first, err := client.PackFirstLevel(state.PackID, pack)
	if err != nil {
		log.Fatalf("Server pack does not match: %v", err)
	}
	log.Debugf("Server numbers the pack from level %d", first)

	played, err := playLevels(client, state, first, results, time.Duration(*delayMs)*time.Millisecond)
	if err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
	log.Printf("Cleared %d/%d levels on session %s", played, solved, client.SessionID())
	if played < solved {
		os.Exit(1)
	}
}
