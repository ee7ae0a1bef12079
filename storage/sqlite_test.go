package storage

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/landonWcummings/landoncummings.com-sub000/genome"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "test.db")
	store, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestBestSolution(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	rng := rand.New(rand.NewSource(1))

	if _, ok, err := store.BestSolution(ctx, "missing"); err != nil || ok {
		t.Fatalf("BestSolution(missing) = ok %v, err %v", ok, err)
	}

	neural := genome.Random(rng, genome.NeuralPolicy, 0, 0)
	inputs := []Solution{
		{LevelHash: "lvl", LevelName: "one", Ticks: 300, Genome: genome.Random(rng, genome.ActionSequence, 20, 6)},
		{LevelHash: "lvl", LevelName: "one", Ticks: 120, Genome: neural, Generations: 7, Evaluations: 700},
		{LevelHash: "lvl", LevelName: "one", Ticks: 200, Genome: genome.Random(rng, genome.ActionSequence, 20, 6)},
		{LevelHash: "other", LevelName: "two", Ticks: 10, Genome: genome.Random(rng, genome.ActionSequence, 20, 6)},
	}
	for _, sol := range inputs {
		if _, err := store.SaveSolution(ctx, sol); err != nil {
			t.Fatalf("SaveSolution() failed: %v", err)
		}
	}

	best, ok, err := store.BestSolution(ctx, "lvl")
	if err != nil || !ok {
		t.Fatalf("BestSolution() = ok %v, err %v", ok, err)
	}
	if best.Ticks != 120 || best.Generations != 7 || best.Evaluations != 700 {
		t.Errorf("best = %+v, want the 120-tick solution", best)
	}
	if best.Representation != "neural" {
		t.Errorf("representation = %q, want neural", best.Representation)
	}
	if !best.Genome.Equal(neural) {
		t.Error("stored genome does not round trip")
	}
}

func TestListSolutions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	rng := rand.New(rand.NewSource(2))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		hash := "a"
		if i%2 == 1 {
			hash = "b"
		}
		_, err := store.SaveSolution(ctx, Solution{
			LevelHash: hash,
			Ticks:     100 + i,
			Genome:    genome.Random(rng, genome.ActionSequence, 10, 6),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSolution() failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		hash  string
		limit int
		ticks []int
	}{
		{"all", "", 0, []int{104, 103, 102, 101, 100}},
		{"one level", "a", 0, []int{104, 102, 100}},
		{"limited", "", 2, []int{104, 103}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListSolutions(ctx, tt.hash, tt.limit)
			if err != nil {
				t.Fatalf("ListSolutions() failed: %v", err)
			}
			if len(got) != len(tt.ticks) {
				t.Fatalf("got %d solutions, want %d", len(got), len(tt.ticks))
			}
			for i, sol := range got {
				if sol.Ticks != tt.ticks[i] {
					t.Errorf("solution %d ticks = %d, want %d", i, sol.Ticks, tt.ticks[i])
				}
			}
			if !got[0].CreatedAt.Equal(base.Add(4*time.Minute)) && tt.hash != "b" {
				t.Errorf("created_at = %v", got[0].CreatedAt)
			}
		})
	}
}

func TestDeleteSolutions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	g := genome.Random(rand.New(rand.NewSource(3)), genome.ActionSequence, 5, 6)
	for i := 0; i < 3; i++ {
		if _, err := store.SaveSolution(ctx, Solution{LevelHash: "x", Ticks: i, Genome: g}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := store.DeleteSolutions(ctx, "x")
	if err != nil || n != 3 {
		t.Fatalf("DeleteSolutions() = %d, %v", n, err)
	}
	if _, ok, _ := store.BestSolution(ctx, "x"); ok {
		t.Error("solutions remain after delete")
	}
}

func TestSaveSolutionRequiresGenome(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveSolution(context.Background(), Solution{LevelHash: "x"}); err == nil {
		t.Error("expected error for missing genome")
	}
}
