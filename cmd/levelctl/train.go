package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/evolve"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/storage"
	"github.com/landonWcummings/landoncummings.com-sub000/telemetry"
)

var (
	flagRepresentation string
	flagPopulation     int
	flagGenerations    int
	flagSeed           int64
	flagWorkers        int
	flagOut            string
	flagSolutionOut    string
	flagNoSave         bool
	flagLogEvery       int
)

var trainCmd = &cobra.Command{
	Use:   "train <level.yaml>",
	Short: "Evolve a genome that reaches the finish",
	Long: `Run the evolution engine until a genome is verified to reach the finish
or the generation budget runs out. Verified solutions are stored in the
solution database unless --no-save is given. Ctrl-C stops the run.

Examples:
  levelctl train levels/gap.yaml
  levelctl train levels/gap.yaml --representation neural --seed 7
  levelctl train levels/gap.yaml --out runs/gap --solution-out gap.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&flagRepresentation, "representation", "", "actions or neural (empty = from config)")
	f.IntVar(&flagPopulation, "population", 0, "Population size (0 = from config)")
	f.IntVar(&flagGenerations, "generations", 0, "Generation budget (0 = from config)")
	f.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config)")
	f.IntVar(&flagWorkers, "workers", 0, "Evaluation workers (0 = from config)")
	f.StringVar(&flagOut, "out", "", "Telemetry output directory (empty = from config)")
	f.StringVar(&flagSolutionOut, "solution-out", "", "Write the verified genome JSON here")
	f.BoolVar(&flagNoSave, "no-save", false, "Do not store the solution in the database")
	f.IntVar(&flagLogEvery, "log-every", 10, "Log every N generations")
}

// applyTrainFlags overrides config values with any flags that were set.
func applyTrainFlags(cfg *config.Config) {
	if flagRepresentation != "" {
		cfg.Training.Representation = flagRepresentation
	}
	if flagPopulation > 0 {
		cfg.Training.PopulationSize = flagPopulation
	}
	if flagGenerations > 0 {
		cfg.Training.MaxGenerations = flagGenerations
	}
	if flagSeed != 0 {
		cfg.Training.Seed = flagSeed
	}
	if flagWorkers > 0 {
		cfg.Training.Workers = flagWorkers
	}
	if flagOut != "" {
		cfg.Telemetry.OutputDir = flagOut
	}
}

func runTrain(cmd *cobra.Command, args []string) error {
	lv, err := loadLevel(args[0])
	if err != nil {
		return err
	}
	cfg := config.Cfg()
	applyTrainFlags(cfg)

	settings, err := evolve.NewSettings(cfg)
	if err != nil {
		return err
	}
	params := game.NewParams(cfg)
	eng, err := evolve.New(lv.Grid, params, settings)
	if err != nil {
		return err
	}
	defer eng.Close()

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("training started",
		"level", lv.Name,
		"course", eng.Course().String(),
		"representation", settings.Representation.String(),
		"population", settings.PopulationSize,
		"max_generations", settings.MaxGenerations,
		"seed", settings.Seed,
	)

	res, runErr := eng.Run(ctx, func(rec telemetry.GenerationRecord) {
		if err := out.WriteGeneration(rec); err != nil {
			slog.Warn("writing generation failed", "error", err)
		}
		if flagLogEvery > 0 && rec.Generation%flagLogEvery == 0 {
			slog.Info("generation", "stats", rec)
			if err := out.WritePerf(eng.Perf(), rec.Generation); err != nil {
				slog.Warn("writing perf failed", "error", err)
			}
		}
	})

	fmt.Println(trainSummary(lv, settings, res, eng.Perf(), out.Dir()))

	var infeasible *evolve.InfeasibleLevelError
	switch {
	case errors.As(runErr, &infeasible):
		return runErr
	case runErr != nil:
		slog.Info("training interrupted", "error", runErr)
		return nil
	case res.Outcome != evolve.Success:
		return nil
	}

	if err := out.WriteSolution(res.Solution); err != nil {
		return err
	}
	if flagSolutionOut != "" {
		if err := writeGenome(flagSolutionOut, res.Solution); err != nil {
			return err
		}
	}
	if !flagNoSave {
		if err := saveSolution(ctx, lv, params, cfg.Training.HorizonTicks, res); err != nil {
			return err
		}
	}
	return nil
}

func trainSummary(lv *level.Level, s evolve.Settings, res evolve.Result, perf telemetry.PerfStats, outDir string) string {
	fields := []field{
		{"level", lv.Name},
		{"genome", s.Representation.String()},
		{"outcome", res.Outcome.String()},
		{"generations", res.Generations},
		{"evaluations", res.Evaluations},
		{"elapsed", res.Elapsed.Round(time.Millisecond)},
		{"gen/sec", fmt.Sprintf("%.1f", perf.GenerationsPerSecond)},
	}
	if outDir != "" {
		fields = append(fields, field{"output", outDir})
	}
	title := "Training " + status(res.Outcome == evolve.Success, res.Outcome.String())
	return summary(title, fields)
}

func writeGenome(path string, g *genome.Genome) error {
	data, err := genome.Marshal(g)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// saveSolution stores a verified genome with its finishing tick count.
func saveSolution(ctx context.Context, lv *level.Level, params game.Params, horizon int, res evolve.Result) error {
	ticks, ok, err := game.TicksToFinish(lv.Grid, res.Solution, params, horizon)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("verified solution did not replay to the finish")
	}

	store, err := storage.Open(ctx, dbPath())
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveSolution(ctx, storage.Solution{
		LevelHash:      level.Hash(lv.Grid),
		LevelName:      lv.Name,
		Representation: res.Solution.Kind.String(),
		Generations:    res.Generations,
		Evaluations:    res.Evaluations,
		Ticks:          ticks,
		Genome:         res.Solution,
	})
	if err != nil {
		return err
	}
	slog.Info("solution saved", "id", id, "ticks", ticks, "db", dbPath())
	return nil
}
