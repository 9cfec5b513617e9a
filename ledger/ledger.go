// Package ledger persists which (signal, day) pairs have already fired a
// notification, so a signal notifies at most once per calendar day.
package ledger

import (
	"github.com/rustyeddy/ichiwatch/signal"
)

// Ledger is the durable dedup store. Entries grow monotonically and are
// never removed. RecordFired is idempotent: recording the same pair twice
// is a no-op on the second call.
type Ledger interface {
	HasFired(sig signal.Signal, date string) (bool, error)
	RecordFired(sig signal.Signal, date string) error

	// Events reconstructs the recorded signal history. Order is
	// store-dependent and not meaningful; callers needing determinism
	// must sort.
	Events() ([]signal.Event, error)

	Close() error
}
