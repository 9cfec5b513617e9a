package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/ichiwatch/signal"
)

const schema = `
CREATE TABLE IF NOT EXISTS fired (
	key TEXT PRIMARY KEY
);
`

// SQLite is a Ledger backed by a SQLite database. The primary key on the
// composite key plus INSERT OR IGNORE gives the idempotent-insert
// semantics for free.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (l *SQLite) HasFired(sig signal.Signal, date string) (bool, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(1) FROM fired WHERE key = ?`, Key(sig, date)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query ledger: %w", err)
	}
	return n > 0, nil
}

func (l *SQLite) RecordFired(sig signal.Signal, date string) error {
	_, err := l.db.Exec(`INSERT OR IGNORE INTO fired (key) VALUES (?)`, Key(sig, date))
	if err != nil {
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

func (l *SQLite) Events() ([]signal.Event, error) {
	rows, err := l.db.Query(`SELECT key FROM fired`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var events []signal.Event
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		sig, date, err := ParseKey(key)
		if err != nil {
			return nil, err
		}
		events = append(events, signal.Event{Type: sig, Date: date})
	}
	return events, rows.Err()
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
