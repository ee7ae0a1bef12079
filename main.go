package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/storage"
	"github.com/landonWcummings/landoncummings.com-sub000/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Path to a level YAML file (required)")
	solutionPath := flag.String("solution", "", "Genome JSON to replay on start")
	dbPath := flag.String("db", "", "Solution database (empty = use config, \"-\" = disabled)")
	outputDir := flag.String("output-dir", "", "Output directory for training CSV logs and config snapshot")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	seed := flag.Int64("seed", 0, "Training RNG seed (0 = use config)")

	flag.Parse()

	setupLogging(*logFormat)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Training.Seed = *seed
	}

	if *levelPath == "" {
		slog.Error("missing -level")
		os.Exit(2)
	}
	lv, err := level.Load(*levelPath)
	if err != nil {
		slog.Error("failed to load level", "error", err)
		os.Exit(1)
	}

	var solution *genome.Genome
	if *solutionPath != "" {
		data, err := os.ReadFile(*solutionPath)
		if err != nil {
			slog.Error("failed to read solution", "error", err)
			os.Exit(1)
		}
		if solution, err = genome.Unmarshal(data); err != nil {
			slog.Error("failed to decode solution", "error", err)
			os.Exit(1)
		}
	}

	var store *storage.Store
	path := cfg.Storage.DBPath
	if *dbPath != "" {
		path = *dbPath
	}
	if path != "" && path != "-" {
		store, err = storage.Open(context.Background(), path)
		if err != nil {
			slog.Warn("solution database unavailable", "path", path, "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	outDir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		outDir = *outputDir
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Platformer Solver - "+lv.Name)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(viewer.Options{
		Config:    cfg,
		Level:     lv,
		Solution:  solution,
		Store:     store,
		OutputDir: outDir,
	})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

// setupLogging installs the default slog handler: JSON to stdout, or a
// human-readable charm handler on stderr.
func setupLogging(format string) {
	var handler slog.Handler
	switch format {
	case "text":
		handler = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	default:
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
