package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mtoledo/siteperc/internal/percolation"
)

// ErrRunNotFound is returned when a requested run id does not exist.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one archived sweep: its parameters and end-of-curve statistics.
type Run struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Side       int       `json:"side"`
	Nodes      int       `json:"nodes"`
	Step       float64   `json:"step"`
	Seed       uint64    `json:"seed"`
	Percolated bool      `json:"percolated"`
	PC         float64   `json:"p_c"`
	FinalNcc   int       `json:"final_ncc"`
	FinalSmax  int       `json:"final_smax"`
	FinalNmax  float64   `json:"final_nmax"`
}

// RunStore archives completed runs in a SQLite database.
// It is safe for concurrent use.
type RunStore struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// Open opens (or creates) the run archive at path, creating parent
// directories as needed, and initializes the schema.
func Open(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &RunStore{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *RunStore) Path() string {
	return s.path
}

// SaveRun inserts a run and its curve points in one transaction and
// returns the assigned run id. A zero CreatedAt is filled with the current
// time. The seed round-trips through SQLite's signed 64-bit integer.
func (s *RunStore) SaveRun(ctx context.Context, run Run, points []percolation.Point) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (created_at, side, nodes, step, seed, percolated, p_c, final_ncc, final_smax, final_nmax)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, createdAt.Format(time.RFC3339Nano), run.Side, run.Nodes, run.Step, int64(run.Seed),
		run.Percolated, run.PC, run.FinalNcc, run.FinalSmax, run.FinalNmax)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, pt := range points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_points (run_id, seq, p, ncc, smax, nmax)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, i, pt.P, pt.Ncc, pt.Smax, pt.Nmax); err != nil {
			return 0, fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// GetRun returns the run with the given id, or ErrRunNotFound.
func (s *RunStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, side, nodes, step, seed, percolated, p_c, final_ncc, final_smax, final_nmax
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit defaults to 50.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, side, nodes, step, seed, percolated, p_c, final_ncc, final_smax, final_nmax
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetPoints returns the curve points of a run in sweep order.
func (s *RunStore) GetPoints(ctx context.Context, runID int64) ([]percolation.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p, ncc, smax, nmax FROM run_points WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points := []percolation.Point{}
	for rows.Next() {
		var pt percolation.Point
		if err := rows.Scan(&pt.P, &pt.Ncc, &pt.Smax, &pt.Nmax); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points: %w", err)
	}
	return points, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(sc scanner) (*Run, error) {
	var run Run
	var createdAt string
	var seed int64
	if err := sc.Scan(&run.ID, &createdAt, &run.Side, &run.Nodes, &run.Step, &seed,
		&run.Percolated, &run.PC, &run.FinalNcc, &run.FinalSmax, &run.FinalNmax); err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	run.CreatedAt = t
	return &run, nil
}
