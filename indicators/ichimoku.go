// Package indicators provides technical analysis indicators over daily candles.
package indicators

import "github.com/rustyeddy/ichiwatch/market"

// Ichimoku Cloud parameters. These are the conventional 9/26/52 windows
// and are deliberately not configurable.
const (
	TenkanWindow = 9
	KijunWindow  = 26
	SenkouB      = 52
	Displacement = 26

	// MinIndex is the first series index at which Ichimoku is defined.
	MinIndex = TenkanWindow + SenkouB
)

// Tuple holds the Ichimoku component values at a single series index.
// Senkou spans are anchored backward: SpanA(i) and SpanB(i) are the
// cloud values computed Displacement bars earlier, so they line up with
// bar i's close for signal comparison without forward plotting.
type Tuple struct {
	Tenkan float64
	Kijun  float64
	SpanA  float64
	SpanB  float64
}

// Ichimoku computes the Ichimoku tuple for candles[i].
//
// It returns ok=false when i has insufficient lead-in history (i < MinIndex).
// Callers must never treat the zero Tuple as a real value; only ok=true
// results are meaningful. The function is pure and safe to call for every
// index in a window.
func Ichimoku(candles []market.Candle, i int) (Tuple, bool) {
	if i >= len(candles) {
		panic("indicators: index out of range")
	}
	if i < MinIndex {
		return Tuple{}, false
	}

	anchor := i - Displacement
	// The Span B window start can fall before the series origin for the
	// earliest defined indexes; a shortened window is used there, matching
	// what slicing a short prefix yields.
	spanBFrom := i - Displacement - SenkouB + 1
	if spanBFrom < 0 {
		spanBFrom = 0
	}

	return Tuple{
		Tenkan: midpoint(candles, i-TenkanWindow+1, i),
		Kijun:  midpoint(candles, i-KijunWindow+1, i),
		SpanA:  (midpoint(candles, anchor-TenkanWindow+1, anchor) + midpoint(candles, anchor-KijunWindow+1, anchor)) / 2,
		SpanB:  midpoint(candles, spanBFrom, anchor),
	}, true
}

// midpoint returns (highest high + lowest low) / 2 over candles[from..to]
// inclusive.
func midpoint(candles []market.Candle, from, to int) float64 {
	if from < 0 {
		from = 0
	}
	highest := candles[from].High
	lowest := candles[from].Low
	for i := from + 1; i <= to; i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}
	return (highest + lowest) / 2
}
