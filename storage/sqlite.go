// Package storage persists verified solutions in SQLite so they can be
// replayed later. It uses the pure-Go modernc.org/sqlite driver.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/landonWcummings/landoncummings.com-sub000/genome"
)

// Solution is one verified genome for one level.
type Solution struct {
	ID             int64
	LevelHash      string
	LevelName      string
	Representation string
	Generations    int
	Evaluations    int64
	Ticks          int // ticks from spawn to finish
	Genome         *genome.Genome
	CreatedAt      time.Time
}

// Store manages the SQLite database of solutions.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates or opens a database at path, creating parent directories
// and the schema as needed. A leading ~ expands to the home directory.
func Open(ctx context.Context, path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS solutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_hash TEXT NOT NULL,
			level_name TEXT NOT NULL DEFAULT '',
			representation TEXT NOT NULL,
			generations INTEGER NOT NULL,
			evaluations INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			genome BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_solutions_level ON solutions(level_hash, ticks);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolution stores sol and returns its ID. CreatedAt defaults to now.
func (s *Store) SaveSolution(ctx context.Context, sol Solution) (int64, error) {
	if sol.Genome == nil {
		return 0, errors.New("storage: solution has no genome")
	}
	data, err := genome.Marshal(sol.Genome)
	if err != nil {
		return 0, fmt.Errorf("storage: encoding genome: %w", err)
	}
	if sol.CreatedAt.IsZero() {
		sol.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO solutions
		 (level_hash, level_name, representation, generations, evaluations, ticks, genome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.LevelHash, sol.LevelName, sol.Genome.Kind.String(),
		sol.Generations, sol.Evaluations, sol.Ticks, data, sol.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solution: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const selectSolution = `SELECT id, level_hash, level_name, representation, generations, evaluations, ticks, genome, created_at FROM solutions`

// BestSolution returns the fastest stored solution for a level, or false
// if the level has none.
func (s *Store) BestSolution(ctx context.Context, levelHash string) (Solution, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		selectSolution+` WHERE level_hash = ? ORDER BY ticks ASC, id ASC LIMIT 1`,
		levelHash,
	)
	sol, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Solution{}, false, nil
	}
	if err != nil {
		return Solution{}, false, err
	}
	return sol, true, nil
}

// ListSolutions returns stored solutions, newest first. An empty levelHash
// lists every level. limit <= 0 means no limit.
func (s *Store) ListSolutions(ctx context.Context, levelHash string, limit int) ([]Solution, error) {
	query := selectSolution
	var args []any
	if levelHash != "" {
		query += ` WHERE level_hash = ?`
		args = append(args, levelHash)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solutions: %w", err)
	}
	defer rows.Close()

	var out []Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteSolutions removes every solution for a level and returns how many
// were removed.
func (s *Store) DeleteSolutions(ctx context.Context, levelHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM solutions WHERE level_hash = ?`, levelHash)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot delete solutions: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSolution(sc scanner) (Solution, error) {
	var (
		sol     Solution
		data    []byte
		created int64
	)
	err := sc.Scan(&sol.ID, &sol.LevelHash, &sol.LevelName, &sol.Representation,
		&sol.Generations, &sol.Evaluations, &sol.Ticks, &data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Solution{}, err
	}
	if err != nil {
		return Solution{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	g, err := genome.Unmarshal(data)
	if err != nil {
		return Solution{}, fmt.Errorf("storage: solution %d: %w", sol.ID, err)
	}
	sol.Genome = g
	sol.CreatedAt = time.Unix(0, created)
	return sol, nil
}
