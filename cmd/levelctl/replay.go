package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/storage"
)

var (
	flagReplaySolution string
	flagTrace          bool
	flagTicks          int
)

var replayCmd = &cobra.Command{
	Use:   "replay <level.yaml>",
	Short: "Re-run a solution headlessly",
	Long: `Replay a genome on a level and report the outcome. The genome comes from
--solution, or else the best stored solution for the level. With --trace
the per-tick actor states are written to stdout as CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&flagReplaySolution, "solution", "", "Genome JSON file (empty = best stored solution)")
	f.BoolVar(&flagTrace, "trace", false, "Write per-tick actor states as CSV")
	f.IntVar(&flagTicks, "ticks", 0, "Tick limit (0 = training horizon)")
}

// traceRow is one tick of a replay trace.
type traceRow struct {
	Tick          int     `csv:"tick"`
	X             float64 `csv:"x"`
	Y             float64 `csv:"y"`
	VX            float64 `csv:"vx"`
	VY            float64 `csv:"vy"`
	OnGround      bool    `csv:"on_ground"`
	TouchedHazard bool    `csv:"touched_hazard"`
	ReachedFinish bool    `csv:"reached_finish"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	lv, err := loadLevel(args[0])
	if err != nil {
		return err
	}
	cfg := config.Cfg()

	gen, err := replayGenome(cmd.Context(), lv)
	if err != nil {
		return err
	}

	ticks := flagTicks
	if ticks <= 0 {
		ticks = cfg.Training.HorizonTicks
	}
	res, err := game.Trace(lv.Grid, gen, game.NewParams(cfg), ticks)
	if err != nil {
		return err
	}

	if flagTrace {
		rows := make([]traceRow, len(res.States))
		for i, s := range res.States {
			rows[i] = traceRow{
				Tick: i, X: s.X, Y: s.Y, VX: s.VX, VY: s.VY,
				OnGround: s.OnGround, TouchedHazard: s.TouchedHazard, ReachedFinish: s.ReachedFinish,
			}
		}
		if err := gocsv.Marshal(rows, os.Stdout); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		return nil
	}

	fmt.Println(summary("Replay "+status(res.Outcome == game.Finished, res.Outcome.String()), []field{
		{"level", lv.Name},
		{"genome", gen.Kind.String()},
		{"ticks", len(res.States) - 1},
	}))
	return nil
}

func replayGenome(ctx context.Context, lv *level.Level) (*genome.Genome, error) {
	if flagReplaySolution != "" {
		data, err := os.ReadFile(flagReplaySolution)
		if err != nil {
			return nil, err
		}
		return genome.Unmarshal(data)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	store, err := storage.Open(ctx, dbPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sol, ok, err := store.BestSolution(ctx, level.Hash(lv.Grid))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no stored solution for this level; pass --solution")
	}
	return sol.Genome, nil
}
