package history

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/petrijr/stato/pkg/api"
)

// SQLite is a recorder persisting state snapshots in a SQLite database.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
//
// State values are gob-encoded; see EncodeState for the constraints.
// Like the in-memory recorder it starts disabled, so simply attaching it
// to a store costs nothing until Enable.
type SQLite[S any] struct {
	db      *sql.DB
	enabled atomic.Bool
}

var _ api.History[int] = (*SQLite[int])(nil)

// NewSQLite initializes the required schema in the given database and
// returns a new recorder.
func NewSQLite[S any](db *sql.DB) (*SQLite[S], error) {
	s := &SQLite[S]{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite[S]) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS states (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			state BLOB
		);`,
	)
	return err
}

func (s *SQLite[S]) Enable()  { s.enabled.Store(true) }
func (s *SQLite[S]) Disable() { s.enabled.Store(false) }

func (s *SQLite[S]) Enabled() bool { return s.enabled.Load() }

func (s *SQLite[S]) Push(state S) error {
	if !s.enabled.Load() {
		return nil
	}
	blob, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO states (recorded_at, state)
		VALUES (?, ?)`,
		time.Now().UnixNano(),
		blob,
	)
	return err
}

// Snapshot loads every recorded state in append order.
func (s *SQLite[S]) Snapshot() ([]S, error) {
	rows, err := s.db.Query(`SELECT state FROM states ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []S
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		state, err := DecodeState[S](blob)
		if err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		out = append(out, state)
	}
	return out, rows.Err()
}

// Len returns the number of recorded entries, or 0 if the count cannot
// be read.
func (s *SQLite[S]) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM states`).Scan(&n); err != nil {
		return 0
	}
	return n
}
