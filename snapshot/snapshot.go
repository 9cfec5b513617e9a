// Package snapshot assembles and publishes the dashboard JSON document.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rustyeddy/ichiwatch/indicators"
	"github.com/rustyeddy/ichiwatch/market"
	"github.com/rustyeddy/ichiwatch/signal"
)

// HistoryWindow is the number of trailing daily entries published for the
// dashboard chart.
const HistoryWindow = 40

// Ichimoku is the latest indicator tuple, field-renamed for display.
type Ichimoku struct {
	Tenkan  float64 `json:"tenkan"`
	Kijun   float64 `json:"kijun"`
	SenkouA float64 `json:"senkouA"`
	SenkouB float64 `json:"senkouB"`
}

// Day is one trailing-window entry: the bar plus its own indicator values.
// Indicator fields are null when the index lacks lead-in history; null and
// zero must never be conflated by the renderer.
type Day struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Tenkan *float64 `json:"tenkan"`
	Kijun  *float64 `json:"kijun"`
	SpanA  *float64 `json:"spanA"`
	SpanB  *float64 `json:"spanB"`
}

// Snapshot is the published dashboard document. It is rebuilt fully on
// every run.
type Snapshot struct {
	Ticker        string         `json:"ticker"`
	Price         float64        `json:"price"`
	Date          string         `json:"date"`
	Signal        signal.Signal  `json:"signal"`
	SignalHistory []signal.Event `json:"signalHistory"`
	Ichimoku      Ichimoku       `json:"ichimoku"`
	History       []Day          `json:"history"`
}

// Build assembles a snapshot from the full candle series, the current
// signal and the recorded signal history. The trailing window is a display
// slice only; each entry's tuple is recomputed against the entire
// preceding series. Deterministic and side-effect free.
func Build(ticker string, candles []market.Candle, current signal.Signal, tuple indicators.Tuple, events []signal.Event) Snapshot {
	latest := candles[len(candles)-1]

	history := sortedEvents(events)

	snap := Snapshot{
		Ticker:        ticker,
		Price:         latest.Close,
		Date:          latest.Day(),
		Signal:        current,
		SignalHistory: history,
		Ichimoku: Ichimoku{
			Tenkan:  tuple.Tenkan,
			Kijun:   tuple.Kijun,
			SenkouA: tuple.SpanA,
			SenkouB: tuple.SpanB,
		},
	}

	start := len(candles) - HistoryWindow
	if start < 0 {
		start = 0
	}
	for i := start; i < len(candles); i++ {
		c := candles[i]
		day := Day{
			Date:  c.Day(),
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		}
		if t, ok := indicators.Ichimoku(candles, i); ok {
			day.Tenkan = ptr(t.Tenkan)
			day.Kijun = ptr(t.Kijun)
			day.SpanA = ptr(t.SpanA)
			day.SpanB = ptr(t.SpanB)
		}
		snap.History = append(snap.History, day)
	}

	return snap
}

// WriteFile publishes the snapshot to path. The document is written to a
// temp file and renamed into place, so a failed run never corrupts the
// last-known-good snapshot.
func WriteFile(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// sortedEvents copies and orders the signal history by date then type so
// output is stable regardless of ledger store iteration order.
func sortedEvents(events []signal.Event) []signal.Event {
	out := make([]signal.Event, len(events))
	copy(out, events)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func ptr(v float64) *float64 { return &v }
