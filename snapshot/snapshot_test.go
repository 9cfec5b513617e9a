package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/ichiwatch/indicators"
	"github.com/rustyeddy/ichiwatch/market"
	"github.com/rustyeddy/ichiwatch/signal"
)

func flatCandles(n int, price float64) []market.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, n)
	for i := range candles {
		candles[i] = market.Candle{
			Date:  start.AddDate(0, 0, i),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
	}
	return candles
}

func TestBuildTrailingWindow(t *testing.T) {
	candles := flatCandles(100, 100)
	tuple, ok := indicators.Ichimoku(candles, 99)
	require.True(t, ok)

	snap := Build("GLD", candles, signal.Neutral, tuple, nil)

	assert.Equal(t, "GLD", snap.Ticker)
	assert.Equal(t, 100.0, snap.Price)
	assert.Equal(t, candles[99].Day(), snap.Date)
	assert.Equal(t, signal.Neutral, snap.Signal)
	require.Len(t, snap.History, HistoryWindow)

	// Window covers indexes 60..99; index 60 lacks lead-in history and
	// must publish nulls, not zeros.
	first := snap.History[0]
	assert.Equal(t, candles[60].Day(), first.Date)
	assert.Nil(t, first.Tenkan)
	assert.Nil(t, first.SpanB)

	second := snap.History[1]
	require.NotNil(t, second.Tenkan)
	assert.Equal(t, 100.0, *second.Tenkan)
}

func TestBuildShortSeriesWindow(t *testing.T) {
	candles := flatCandles(80, 100)
	tuple, _ := indicators.Ichimoku(candles, 79)

	snap := Build("GLD", candles, signal.Neutral, tuple, nil)
	assert.Len(t, snap.History, HistoryWindow)
}

func TestBuildSignalHistoryRoundTrip(t *testing.T) {
	candles := flatCandles(100, 100)
	tuple, _ := indicators.Ichimoku(candles, 99)

	events := []signal.Event{
		{Type: signal.Sell, Date: "2024-02-10"},
		{Type: signal.Buy, Date: "2024-01-05"},
		{Type: signal.Buy, Date: "2024-02-10"},
	}

	snap := Build("GLD", candles, signal.Buy, tuple, events)

	require.Len(t, snap.SignalHistory, 3)
	assert.Equal(t, signal.Event{Type: signal.Buy, Date: "2024-01-05"}, snap.SignalHistory[0])
	assert.Equal(t, signal.Event{Type: signal.Buy, Date: "2024-02-10"}, snap.SignalHistory[1])
	assert.Equal(t, signal.Event{Type: signal.Sell, Date: "2024-02-10"}, snap.SignalHistory[2])

	assert.ElementsMatch(t, events, snap.SignalHistory)
}

func TestBuildDeterministic(t *testing.T) {
	candles := flatCandles(100, 100)
	tuple, _ := indicators.Ichimoku(candles, 99)
	events := []signal.Event{{Type: signal.Buy, Date: "2024-01-05"}}

	a := Build("GLD", candles, signal.Buy, tuple, events)
	b := Build("GLD", candles, signal.Buy, tuple, events)
	assert.Equal(t, a, b)
}

func TestSnapshotJSONContract(t *testing.T) {
	candles := flatCandles(100, 100)
	tuple, _ := indicators.Ichimoku(candles, 99)

	snap := Build("GLD", candles, signal.Buy, tuple, []signal.Event{
		{Type: signal.Buy, Date: "2024-01-05"},
	})

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	js := string(data)

	assert.Contains(t, js, `"ticker":"GLD"`)
	assert.Contains(t, js, `"signal":"BUY"`)
	assert.Contains(t, js, `"senkouA"`)
	assert.Contains(t, js, `"senkouB"`)
	assert.Contains(t, js, `"signalHistory":[{"type":"BUY","date":"2024-01-05"}]`)
	// The undefined leading window entry serializes as null, never zero.
	assert.Contains(t, js, `"tenkan":null`)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	candles := flatCandles(100, 100)
	tuple, _ := indicators.Ichimoku(candles, 99)
	snap := Build("GLD", candles, signal.Neutral, tuple, nil)

	require.NoError(t, WriteFile(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, snap.Ticker, got.Ticker)
	assert.Equal(t, snap.Signal, got.Signal)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
