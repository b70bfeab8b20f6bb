// Package selections provides the SQLite-backed log of dates picked by users.
package selections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/calpick/internal/calendar"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS selections (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL DEFAULT '',
	date       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_selections_date ON selections(date);
CREATE INDEX IF NOT EXISTS idx_selections_created ON selections(created_at);
`

// Selection is one recorded pick.
type Selection struct {
	ID        int64         `json:"id"`
	Session   string        `json:"session,omitempty"`
	Date      calendar.Date `json:"date"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Recorder is the subset of Store the manage service needs.
type Recorder interface {
	Record(ctx context.Context, session string, date calendar.Date) (Selection, error)
	CountByDate(ctx context.Context, date calendar.Date) (int, error)
	List(ctx context.Context, limit int) ([]Selection, error)
}

// Verify *Store satisfies Recorder at compile time.
var _ Recorder = (*Store)(nil)

// Store wraps a sql.DB holding the selections table.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("selections: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("selections: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("selections: apply schema: %w", err)
	}
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Record appends a selection of date.
func (s *Store) Record(ctx context.Context, session string, date calendar.Date) (Selection, error) {
	created := s.now().UTC()
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO selections (session, date, created_at) VALUES (?, ?, ?)`,
		session, string(date), created)
	if err != nil {
		return Selection{}, fmt.Errorf("selections: record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Selection{}, fmt.Errorf("selections: last insert id: %w", err)
	}
	return Selection{ID: id, Session: session, Date: date, CreatedAt: created}, nil
}

// CountByDate returns how many times date has been selected.
func (s *Store) CountByDate(ctx context.Context, date calendar.Date) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM selections WHERE date = ?`, string(date)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("selections: count: %w", err)
	}
	return n, nil
}

// List returns the most recent selections, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Selection, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, session, date, created_at
		FROM selections
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("selections: list: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		var date string
		if err := rows.Scan(&sel.ID, &sel.Session, &date, &sel.CreatedAt); err != nil {
			return nil, err
		}
		sel.Date = calendar.Date(date)
		out = append(out, sel)
	}
	return out, rows.Err()
}
