// Package notify delivers signal alerts to external channels (email,
// webhooks). Delivery is best effort: failures are logged by callers and
// never abort a run.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/ichiwatch/signal"
)

// Notification describes a fired signal to be delivered.
type Notification struct {
	Signal signal.Signal `json:"signal"`
	Ticker string        `json:"ticker"`
	Price  float64       `json:"price"`
	Date   string        `json:"date"`
}

// Subject returns the alert subject line.
func (n Notification) Subject() string {
	return fmt.Sprintf("%s Signal Alert: %s", n.Signal, n.Ticker)
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers a notification. Returns error if delivery fails.
	Send(ctx context.Context, n Notification) error
}

// LogNotifier logs notifications instead of delivering them. Used for
// development and dry runs.
type LogNotifier struct {
	Log zerolog.Logger
}

func (l *LogNotifier) Send(ctx context.Context, n Notification) error {
	l.Log.Info().
		Str("signal", string(n.Signal)).
		Str("ticker", n.Ticker).
		Float64("price", n.Price).
		Str("date", n.Date).
		Msg("dry-run notification")
	return nil
}

// Multi fans a notification out to several backends. Each backend gets an
// independent attempt; the first error is returned after all attempts.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, n Notification) error {
	var first error
	for _, notifier := range m {
		if err := notifier.Send(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
