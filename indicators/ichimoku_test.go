package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/ichiwatch/market"
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

func TestIchimokuUndefinedBeforeMinIndex(t *testing.T) {
	candles := flatCandles(120, 100)

	for i := 0; i < MinIndex; i++ {
		_, ok := Ichimoku(candles, i)
		assert.False(t, ok, "index %d should be undefined", i)
	}

	_, ok := Ichimoku(candles, MinIndex)
	assert.True(t, ok)
}

func TestIchimokuFlatSeries(t *testing.T) {
	candles := flatCandles(100, 100)

	tuple, ok := Ichimoku(candles, 99)
	require.True(t, ok)

	assert.Equal(t, 100.0, tuple.Tenkan)
	assert.Equal(t, 100.0, tuple.Kijun)
	assert.Equal(t, 100.0, tuple.SpanA)
	assert.Equal(t, 100.0, tuple.SpanB)
}

func TestIchimokuSpike(t *testing.T) {
	// 71 flat bars at 100 followed by 9 bars at 150: the full tenkan
	// window sits on the spike, the kijun window straddles it, and both
	// spans are anchored before it.
	candles := flatCandles(80, 100)
	for i := 71; i < 80; i++ {
		candles[i].Open = 150
		candles[i].High = 150
		candles[i].Low = 150
		candles[i].Close = 150
	}

	tuple, ok := Ichimoku(candles, 79)
	require.True(t, ok)

	assert.Equal(t, 150.0, tuple.Tenkan)
	assert.Equal(t, 125.0, tuple.Kijun)
	assert.Equal(t, 100.0, tuple.SpanA)
	assert.Equal(t, 100.0, tuple.SpanB)
}

func TestIchimokuFiniteEverywhere(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, 200)
	for i := range candles {
		base := 100 + 10*math.Sin(float64(i)/7)
		candles[i] = market.Candle{
			Date:  start.AddDate(0, 0, i),
			Open:  base,
			High:  base + 2,
			Low:   base - 2,
			Close: base + 1,
		}
	}

	for i := MinIndex; i < len(candles); i++ {
		tuple, ok := Ichimoku(candles, i)
		require.True(t, ok)

		for _, v := range []float64{tuple.Tenkan, tuple.Kijun, tuple.SpanA, tuple.SpanB} {
			assert.False(t, math.IsNaN(v), "NaN at index %d", i)
			assert.False(t, math.IsInf(v, 0), "Inf at index %d", i)
		}
	}
}

func TestIchimokuPure(t *testing.T) {
	candles := flatCandles(90, 100)
	candles[85].High = 120

	a, okA := Ichimoku(candles, 89)
	b, okB := Ichimoku(candles, 89)

	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)
}

func TestIchimokuPanicsOutOfRange(t *testing.T) {
	candles := flatCandles(10, 100)
	assert.Panics(t, func() { Ichimoku(candles, 10) })
}
