// ════════════════════════════════════════════════════════════════════════════════════════════════
// Benchmark Run History
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: SQLite-Backed Result Store
//
// Description:
//   Persists one row per benchmark run so throughput can be compared across ring
//   geometries, payload modes, and core placements without re-running anything.
//   The harness records after each completed or aborted run; -history reads back.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package benchstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded benchmark execution. Producer and consumer keep
// separate wall times and miss counts; MsgsPerSec is derived from the
// consumer side, which finishes last.
type Run struct {
	ID         int64
	Started    time.Time
	Mode       string // "int" or "blob"
	Slots      int
	Messages   int64
	ProdCore   int
	ConsCore   int
	ProdNanos  int64
	ConsNanos  int64
	ProdMisses int64
	ConsMisses int64
	MsgsPerSec float64
}

// Store is a handle on the history database. Safe for the harness's
// single-goroutine access pattern; not hardened beyond that.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_ns   INTEGER NOT NULL,
	mode         TEXT    NOT NULL,
	slots        INTEGER NOT NULL,
	messages     INTEGER NOT NULL,
	prod_core    INTEGER NOT NULL,
	cons_core    INTEGER NOT NULL,
	prod_ns      INTEGER NOT NULL,
	cons_ns      INTEGER NOT NULL,
	prod_misses  INTEGER NOT NULL,
	cons_misses  INTEGER NOT NULL,
	msgs_per_sec REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_idx ON runs(started_ns);
`

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %v", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %v", err)
	}
	return &Store{db: db}, nil
}

// RecordRun inserts r and fills in its assigned ID.
func (s *Store) RecordRun(r *Run) error {
	res, err := s.db.Exec(`
		INSERT INTO runs
			(started_ns, mode, slots, messages, prod_core, cons_core,
			 prod_ns, cons_ns, prod_misses, cons_misses, msgs_per_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Started.UnixNano(), r.Mode, r.Slots, r.Messages, r.ProdCore, r.ConsCore,
		r.ProdNanos, r.ConsNanos, r.ProdMisses, r.ConsMisses, r.MsgsPerSec)
	if err != nil {
		return fmt.Errorf("record run: %v", err)
	}
	r.ID, err = res.LastInsertId()
	return err
}

// RecentRuns returns up to limit runs, newest first. The result slice is
// sized exactly from a COUNT query before scanning.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %v", err)
	}
	if total == 0 {
		return nil, nil
	}
	if limit > total {
		limit = total
	}

	rows, err := s.db.Query(`
		SELECT id, started_ns, mode, slots, messages, prod_core, cons_core,
		       prod_ns, cons_ns, prod_misses, cons_misses, msgs_per_sec
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %v", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var r Run
		var startedNs int64
		if err := rows.Scan(&r.ID, &startedNs, &r.Mode, &r.Slots, &r.Messages,
			&r.ProdCore, &r.ConsCore, &r.ProdNanos, &r.ConsNanos,
			&r.ProdMisses, &r.ConsMisses, &r.MsgsPerSec); err != nil {
			return nil, fmt.Errorf("scan run row: %v", err)
		}
		r.Started = time.Unix(0, startedNs)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %v", err)
	}
	return runs, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
