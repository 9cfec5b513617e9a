package ledger

import "github.com/rustyeddy/ichiwatch/signal"

// Memory is an in-process Ledger. It backs tests and dry runs; nothing
// survives the process.
type Memory struct {
	fired map[string]bool
}

func NewMemory() *Memory {
	return &Memory{fired: make(map[string]bool)}
}

func (m *Memory) HasFired(sig signal.Signal, date string) (bool, error) {
	return m.fired[Key(sig, date)], nil
}

func (m *Memory) RecordFired(sig signal.Signal, date string) error {
	m.fired[Key(sig, date)] = true
	return nil
}

func (m *Memory) Events() ([]signal.Event, error) {
	events := make([]signal.Event, 0, len(m.fired))
	for k := range m.fired {
		sig, date, err := ParseKey(k)
		if err != nil {
			return nil, err
		}
		events = append(events, signal.Event{Type: sig, Date: date})
	}
	return events, nil
}

func (m *Memory) Close() error { return nil }
