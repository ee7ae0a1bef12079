package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/storage"
)

var (
	flagLimit  int
	flagDelete bool
)

var solutionsCmd = &cobra.Command{
	Use:   "solutions <level.yaml>",
	Short: "List stored solutions for a level",
	Long: `List the solutions stored for a level, newest first. Solutions are keyed
by the level's tile content, so renaming a level file keeps them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolutions,
}

func init() {
	solutionsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum rows to list")
	solutionsCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete every stored solution for the level")
}

func runSolutions(cmd *cobra.Command, args []string) error {
	lv, err := loadLevel(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.Open(ctx, dbPath())
	if err != nil {
		return err
	}
	defer store.Close()

	hash := level.Hash(lv.Grid)
	if flagDelete {
		n, err := store.DeleteSolutions(ctx, hash)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d solutions for %s\n", n, lv.Name)
		return nil
	}

	sols, err := store.ListSolutions(ctx, hash, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Solutions - " + lv.Name))
	fmt.Println()
	if len(sols) == 0 {
		fmt.Println("No solutions stored yet.")
		fmt.Println()
		fmt.Printf("Run 'levelctl train %s' to find one.\n", args[0])
		return nil
	}

	fmt.Printf("  %-5s  %-8s  %-6s  %-6s  %-10s  %s\n", "ID", "Genome", "Ticks", "Gens", "Evals", "Date")
	fmt.Printf("  %-5s  %-8s  %-6s  %-6s  %-10s  %s\n", "--", "------", "-----", "----", "-----", "----")
	for _, s := range sols {
		fmt.Printf("  %-5d  %-8s  %-6d  %-6d  %-10d  %s\n",
			s.ID, s.Representation, s.Ticks, s.Generations, s.Evaluations, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
