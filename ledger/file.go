package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rustyeddy/ichiwatch/signal"
)

// File is a Ledger backed by a JSON object on disk mapping composite keys
// to true. The file is read fully on open and rewritten fully on every
// change; writes go through a temp file and rename so a crash never leaves
// a partial ledger behind.
type File struct {
	path  string
	fired map[string]bool
}

func NewFile(path string) (*File, error) {
	l := &File{path: path, fired: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if err := json.Unmarshal(data, &l.fired); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	return l, nil
}

func (l *File) HasFired(sig signal.Signal, date string) (bool, error) {
	return l.fired[Key(sig, date)], nil
}

func (l *File) RecordFired(sig signal.Signal, date string) error {
	key := Key(sig, date)
	if l.fired[key] {
		return nil
	}
	l.fired[key] = true

	if err := l.flush(); err != nil {
		// Roll back so a retry rewrites the entry.
		delete(l.fired, key)
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func (l *File) Events() ([]signal.Event, error) {
	events := make([]signal.Event, 0, len(l.fired))
	for k := range l.fired {
		sig, date, err := ParseKey(k)
		if err != nil {
			return nil, err
		}
		events = append(events, signal.Event{Type: sig, Date: date})
	}
	return events, nil
}

func (l *File) Close() error { return nil }

func (l *File) flush() error {
	data, err := json.MarshalIndent(l.fired, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), l.path)
}
