package market

import "time"

// Candle represents one trading day's OHLC (Open, High, Low, Close) data.
type Candle struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// DateLayout is the calendar-day format used throughout the module.
const DateLayout = "2006-01-02"

// Day returns the candle's date formatted as YYYY-MM-DD.
func (c Candle) Day() string {
	return c.Date.Format(DateLayout)
}
