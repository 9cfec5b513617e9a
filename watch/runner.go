// Package watch sequences one full run: fetch history, compute the cloud,
// evaluate the signal, deduplicate, notify, and publish the snapshot.
package watch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/ichiwatch/indicators"
	"github.com/rustyeddy/ichiwatch/ledger"
	"github.com/rustyeddy/ichiwatch/market"
	"github.com/rustyeddy/ichiwatch/notify"
	"github.com/rustyeddy/ichiwatch/pkg/id"
	"github.com/rustyeddy/ichiwatch/signal"
	"github.com/rustyeddy/ichiwatch/snapshot"
)

// MinBars is the minimum valid history length for a run. Anything shorter
// ends the run cleanly without mutating state.
const MinBars = 80

// ErrInsufficientHistory is logged, not propagated: a short series is a
// quiet no-op, not a failure.
var ErrInsufficientHistory = errors.New("insufficient price history")

// Feed provides an ascending daily candle series for a ticker.
type Feed interface {
	DailyCandles(ctx context.Context, symbol string) (market.ParseResult, error)
}

// Runner wires the pipeline together. All collaborators are injected so
// every stage can be tested in isolation.
type Runner struct {
	Ticker       string
	Feed         Feed
	Ledger       ledger.Ledger
	Notifier     notify.Notifier
	SnapshotPath string
	Log          zerolog.Logger
}

// Run executes one invocation. Fetch or computation failures abort with no
// state mutated. When a new BUY/SELL fires, the notification is sent
// before the ledger entry is recorded: a crash in between duplicates at
// most one notification on the next run, never drops one. The snapshot is
// rebuilt and published on every run that reaches evaluation, whether or
// not a signal fired.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log.With().Str("run_id", id.New()).Str("ticker", r.Ticker).Logger()

	res, err := r.Feed.DailyCandles(ctx, r.Ticker)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", r.Ticker, err)
	}
	candles := res.Candles
	if res.Dropped > 0 {
		// Dropped rows shift the lookback windows; make it visible.
		log.Warn().Int("dropped", res.Dropped).Msg("malformed rows dropped from price series")
	}
	log.Info().Int("bars", len(candles)).Msg("price history fetched")

	if len(candles) < MinBars {
		log.Warn().Err(ErrInsufficientHistory).
			Int("bars", len(candles)).Int("min", MinBars).
			Msg("skipping run")
		return nil
	}

	last := len(candles) - 1
	latest := candles[last]

	tuple, ok := indicators.Ichimoku(candles, last)
	if !ok {
		// Unreachable with the MinBars gate, but the undefined case must
		// never be treated as zeros.
		log.Warn().Msg("indicator undefined at latest bar, skipping run")
		return nil
	}

	sig := signal.Evaluate(latest.Close, tuple)
	log.Info().
		Str("signal", string(sig)).
		Float64("price", latest.Close).
		Float64("tenkan", tuple.Tenkan).
		Float64("kijun", tuple.Kijun).
		Float64("spanA", tuple.SpanA).
		Float64("spanB", tuple.SpanB).
		Msg("signal evaluated")

	if sig != signal.Neutral {
		if err := r.maybeNotify(ctx, log, sig, latest); err != nil {
			return err
		}
	}

	events, err := r.Ledger.Events()
	if err != nil {
		return fmt.Errorf("list signal history: %w", err)
	}

	snap := snapshot.Build(r.Ticker, candles, sig, tuple, events)
	if err := snapshot.WriteFile(r.SnapshotPath, snap); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	log.Info().Str("path", r.SnapshotPath).Msg("snapshot published")

	return nil
}

// maybeNotify sends and records a non-NEUTRAL signal unless it already
// fired for this (signal, day) pair. Delivery failure is logged and does
// not prevent the ledger record; a failed ledger write is fatal.
func (r *Runner) maybeNotify(ctx context.Context, log zerolog.Logger, sig signal.Signal, latest market.Candle) error {
	day := latest.Day()

	fired, err := r.Ledger.HasFired(sig, day)
	if err != nil {
		return fmt.Errorf("check signal ledger: %w", err)
	}
	if fired {
		log.Info().Str("signal", string(sig)).Str("date", day).
			Msg("signal already notified, skipping")
		return nil
	}

	n := notify.Notification{
		Signal: sig,
		Ticker: r.Ticker,
		Price:  latest.Close,
		Date:   day,
	}
	if err := r.Notifier.Send(ctx, n); err != nil {
		log.Error().Err(err).Msg("notification delivery failed")
	}

	if err := r.Ledger.RecordFired(sig, day); err != nil {
		return fmt.Errorf("record signal: %w", err)
	}
	log.Info().Str("signal", string(sig)).Str("date", day).Msg("signal recorded")

	return nil
}
