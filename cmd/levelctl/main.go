// levelctl validates, plans, trains and replays platformer levels without
// a window.
//
// Usage:
//
//	levelctl validate <level.yaml>...   - Check tile rules and reachability
//	levelctl plan <level.yaml>          - Print the planned checkpoints
//	levelctl train <level.yaml>         - Evolve a solution
//	levelctl replay <level.yaml>        - Re-run a stored or saved solution
//	levelctl solutions <level.yaml>     - List stored solutions
//
// Global flags:
//
//	--config <path>      - Config overrides (default: embedded defaults)
//	--db <path>          - Solution database (default: from config)
//	--log-format <fmt>   - text or json
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

var (
	// Global flags
	flagConfig    string
	flagDBPath    string
	flagLogFormat string
	flagVerbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "levelctl",
	Short: "Validate, plan, train and replay platformer levels",
	Long: `levelctl is the headless front-end of the platformer solver.

Examples:
  levelctl validate levels/*.yaml
  levelctl plan levels/gap.yaml
  levelctl train levels/gap.yaml --representation neural --out runs/gap
  levelctl replay levels/gap.yaml --trace
  levelctl solutions levels/gap.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(flagLogFormat, flagVerbose)
		return config.Init(flagConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yaml (empty = embedded defaults)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to solution database (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(solutionsCmd)
}

// setupLogging installs the default slog handler.
func setupLogging(format string, verbose bool) {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	default:
		logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		handler = logger
	}
	slog.SetDefault(slog.New(handler))
}

// dbPath resolves the database flag against the config.
func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return config.Cfg().Storage.DBPath
}

func loadLevel(path string) (*level.Level, error) {
	lv, err := level.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("level loaded", "name", lv.Name, "width", lv.Grid.Width(), "height", lv.Grid.Height(), "hash", level.Hash(lv.Grid))
	return lv, nil
}
