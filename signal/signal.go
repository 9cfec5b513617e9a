// Package signal derives trade signals from price vs. Ichimoku cloud.
package signal

import "github.com/rustyeddy/ichiwatch/indicators"

// Signal is the directional trade recommendation.
type Signal string

const (
	Buy     Signal = "BUY"
	Sell    Signal = "SELL"
	Neutral Signal = "NEUTRAL"
)

// Event records a BUY or SELL signal that fired on a calendar day.
// NEUTRAL is the no-signal state and is never recorded.
type Event struct {
	Type Signal `json:"type"`
	Date string `json:"date"`
}

// Evaluate classifies the latest price against the Ichimoku tuple.
//
// BUY requires tenkan above kijun and price clear above both cloud edges;
// SELL is the mirror, price clear below both edges. A tenkan/kijun tie is
// always NEUTRAL.
func Evaluate(price float64, t indicators.Tuple) Signal {
	upper := t.SpanA
	if t.SpanB > upper {
		upper = t.SpanB
	}
	lower := t.SpanA
	if t.SpanB < lower {
		lower = t.SpanB
	}

	switch {
	case t.Tenkan > t.Kijun && price > upper:
		return Buy
	case t.Tenkan < t.Kijun && price < lower:
		return Sell
	default:
		return Neutral
	}
}
