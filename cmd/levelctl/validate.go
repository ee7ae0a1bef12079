package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
)

var validateCmd = &cobra.Command{
	Use:   "validate <level.yaml>...",
	Short: "Check tile rules and coarse reachability",
	Long: `Validate each level: exactly one start and one finish tile, and a
planned route from start to finish (required with --strict).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

var flagStrict bool

func init() {
	validateCmd.Flags().BoolVar(&flagStrict, "strict", false, "Fail levels with no planned route")
}

func runValidate(cmd *cobra.Command, args []string) error {
	params := game.NewParams(config.Cfg())
	failed := 0
	for _, path := range args {
		lv, err := loadLevel(path)
		if err != nil {
			fmt.Println(status(false, err.Error()))
			failed++
			continue
		}
		c, err := game.NewCourse(lv.Grid, params)
		switch {
		case err != nil:
			fmt.Println(status(false, fmt.Sprintf("%s: %v", path, err)))
			failed++
		case !c.Reachable() && flagStrict:
			fmt.Println(status(false, fmt.Sprintf("%s: no planned route to the finish", path)))
			failed++
		case !c.Reachable():
			fmt.Println(status(true, fmt.Sprintf("%s: %s (no planned route, fitness uses finish distance)", path, c)))
		default:
			fmt.Println(status(true, fmt.Sprintf("%s: %s", path, c)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levels failed", failed, len(args))
	}
	return nil
}
