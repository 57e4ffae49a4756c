// Package storage provides SQLite-based persistence for scene snapshots and
// benchmark runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/collide/internal/scene"
)

// ErrNotFound is returned when no stored scene matches an id.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SceneRecord describes a stored scene snapshot.
type SceneRecord struct {
	ID        string
	Name      string
	Bodies    int
	CreatedAt time.Time
}

// BenchRun is the outcome of one benchmark world.
type BenchRun struct {
	ID          int64
	Scenario    string
	Seed        int64
	Bodies      int
	Steps       int
	Elapsed     time.Duration
	Reinserts   uint64
	Pairs       uint64
	NarrowTests uint64
	TreeHeight  int
	CreatedAt   time.Time
}

// PerStep returns the mean wall time of one step.
func (r BenchRun) PerStep() time.Duration {
	if r.Steps <= 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Steps)
}

// ScenarioStats aggregates the stored runs of one scenario.
type ScenarioStats struct {
	Scenario    string
	Runs        int
	BestPerStep time.Duration
	AvgPerStep  time.Duration
	LastRun     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scenes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			bodies INTEGER NOT NULL DEFAULT 0,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scenes_name ON scenes(name);

		CREATE TABLE IF NOT EXISTS bench_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			bodies INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			reinserts INTEGER NOT NULL DEFAULT 0,
			pairs INTEGER NOT NULL DEFAULT 0,
			narrow_tests INTEGER NOT NULL DEFAULT 0,
			tree_height INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bench_runs_scenario ON bench_runs(scenario);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScene stores a msgpack snapshot of f and returns its new id.
func (s *Store) SaveScene(f *scene.File) (string, error) {
	data, err := scene.Encode(f)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode scene: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO scenes (id, name, bodies, data) VALUES (?, ?, ?, ?)",
		id, f.Name, len(f.Bodies), data,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save scene: %w", err)
	}
	return id, nil
}

// Scenes lists stored scenes, newest first.
func (s *Store) Scenes(limit int) ([]SceneRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, name, bodies, created_at
		 FROM scenes
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scenes: %w", err)
	}
	defer rows.Close()

	var records []SceneRecord
	for rows.Next() {
		var r SceneRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Name, &r.Bodies, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// LoadScene decodes the scene stored under id. A unique id prefix is
// accepted, as printed by the scenes list command.
func (s *Store) LoadScene(id string) (*scene.File, SceneRecord, error) {
	if id == "" {
		return nil, SceneRecord{}, fmt.Errorf("%w: empty scene id", ErrNotFound)
	}

	rows, err := s.db.Query(
		`SELECT id, name, bodies, data, created_at
		 FROM scenes
		 WHERE id LIKE ? || '%'
		 LIMIT 2`,
		strings.ToLower(id),
	)
	if err != nil {
		return nil, SceneRecord{}, fmt.Errorf("storage: cannot query scene: %w", err)
	}
	defer rows.Close()

	var (
		rec   SceneRecord
		data  []byte
		found int
	)
	for rows.Next() {
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Bodies, &data, &createdAt); err != nil {
			return nil, SceneRecord{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		found++
	}
	if err := rows.Err(); err != nil {
		return nil, SceneRecord{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch {
	case found == 0:
		return nil, SceneRecord{}, fmt.Errorf("%w: scene %q", ErrNotFound, id)
	case found > 1:
		return nil, SceneRecord{}, fmt.Errorf("storage: scene id %q is ambiguous", id)
	}

	f, err := scene.Decode(data)
	if err != nil {
		return nil, SceneRecord{}, fmt.Errorf("storage: cannot decode scene %s: %w", rec.ID, err)
	}
	return f, rec, nil
}

// DeleteScene removes a stored scene.
func (s *Store) DeleteScene(id string) error {
	res, err := s.db.Exec("DELETE FROM scenes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: scene %q", ErrNotFound, id)
	}
	return nil
}

// SaveRun records a benchmark run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r BenchRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO bench_runs
		 (scenario, seed, bodies, steps, elapsed_ns, reinserts, pairs, narrow_tests, tree_height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Scenario,
		r.Seed,
		r.Bodies,
		r.Steps,
		r.Elapsed.Nanoseconds(),
		int64(r.Reinserts),
		int64(r.Pairs),
		int64(r.NarrowTests),
		r.TreeHeight,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Runs retrieves the most recent benchmark runs of a scenario, or of every
// scenario when scenario is empty.
func (s *Store) Runs(scenario string, limit int) ([]BenchRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, seed, bodies, steps, elapsed_ns, reinserts, pairs, narrow_tests, tree_height, created_at
		 FROM bench_runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []BenchRun
	for rows.Next() {
		var r BenchRun
		var elapsed, reinserts, pairs, narrowTests int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.Seed,
			&r.Bodies,
			&r.Steps,
			&elapsed,
			&reinserts,
			&pairs,
			&narrowTests,
			&r.TreeHeight,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.Reinserts = uint64(reinserts)
		r.Pairs = uint64(pairs)
		r.NarrowTests = uint64(narrowTests)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of the given scenario, or every run when
// scenario is empty.
func (s *Store) ClearRuns(scenario string) error {
	_, err := s.db.Exec("DELETE FROM bench_runs WHERE ? = '' OR scenario = ?", scenario, scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// AllScenarioStats aggregates stored runs per scenario.
func (s *Store) AllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario, COUNT(*),
		        MIN(elapsed_ns / MAX(steps, 1)),
		        AVG(elapsed_ns / MAX(steps, 1)),
		        MAX(created_at)
		 FROM bench_runs
		 GROUP BY scenario`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var (
			st       ScenarioStats
			best     int64
			avg      float64
			lastSeen any
		)
		if err := rows.Scan(&st.Scenario, &st.Runs, &best, &avg, &lastSeen); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestPerStep = time.Duration(best)
		st.AvgPerStep = time.Duration(avg)
		st.LastRun = parseTime(lastSeen)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
