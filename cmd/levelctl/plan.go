package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

var planCmd = &cobra.Command{
	Use:   "plan <level.yaml>",
	Short: "Print the planned checkpoints over the level",
	Long: `Run the coarse planner from start to finish and print the level with
each checkpoint marked by its index (0-9, then a-z).`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	lv, err := loadLevel(args[0])
	if err != nil {
		return err
	}
	c, err := game.NewCourse(lv.Grid, game.NewParams(config.Cfg()))
	if err != nil {
		return err
	}

	for _, row := range markCheckpoints(lv.Grid, c) {
		fmt.Println(row)
	}
	fmt.Println()

	fields := []field{
		{"level", lv.Name},
		{"size", fmt.Sprintf("%dx%d", lv.Grid.Width(), lv.Grid.Height())},
		{"checkpoints", len(c.Checkpoints)},
		{"reachable", c.Reachable()},
	}
	for i, cp := range c.Checkpoints {
		cell := level.CellAt(cp.X, cp.Y)
		fields = append(fields, field{fmt.Sprintf("  %c", checkpointGlyph(i)), fmt.Sprintf("tile (%d, %d)", cell.X, cell.Y)})
	}
	fmt.Println(summary("Plan", fields))
	return nil
}

// markCheckpoints overlays checkpoint glyphs on the level rows.
func markCheckpoints(g *level.Grid, c *game.Course) []string {
	rows := level.Rows(g)
	grid := make([][]rune, len(rows))
	for i, r := range rows {
		grid[i] = []rune(r)
	}
	for i, cp := range c.Checkpoints {
		cell := level.CellAt(cp.X, cp.Y)
		if g.InBounds(cell.X, cell.Y) && g.At(cell.X, cell.Y) != level.Finish {
			grid[cell.Y][cell.X] = checkpointGlyph(i)
		}
	}
	out := make([]string, len(grid))
	for i, r := range grid {
		out[i] = string(r)
	}
	return out
}

func checkpointGlyph(i int) rune {
	const glyphs = "0123456789abcdefghijklmnopqrstuvwxyz"
	return rune(glyphs[i%len(glyphs)])
}
