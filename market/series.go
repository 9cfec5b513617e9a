package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseResult reports what happened while parsing a raw price table.
// Dropped rows shift the indicator lookback windows, so callers should
// surface the count rather than swallow it.
type ParseResult struct {
	Candles []Candle
	Dropped int
}

// ParseCSV reads a delimited daily price table with at least
// date,open,high,low,close columns. Rows whose numeric fields fail to
// parse as finite numbers are dropped, not fatal. A header row is
// detected and skipped.
func ParseCSV(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var res ParseResult
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ParseResult{}, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 5 {
			res.Dropped++
			continue
		}
		if isHeader(rec) {
			continue
		}

		date, err := time.Parse(DateLayout, strings.TrimSpace(rec[0]))
		if err != nil {
			res.Dropped++
			continue
		}

		vals := make([]float64, 4)
		ok := true
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			res.Dropped++
			continue
		}

		res.Candles = append(res.Candles, Candle{
			Date:  date,
			Open:  vals[0],
			High:  vals[1],
			Low:   vals[2],
			Close: vals[3],
		})
	}

	return res, nil
}

func isHeader(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	return err != nil && strings.EqualFold(strings.TrimSpace(rec[0]), "date")
}

// Ascending reports whether the series is strictly ascending by date.
func Ascending(candles []Candle) bool {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Date.After(candles[i-1].Date) {
			return false
		}
	}
	return true
}

// Normalize guarantees an ascending-by-date series. A descending series
// (newest-first providers) is reversed in place; anything else out of
// order is an error since the indicator windows depend on ordering.
func Normalize(candles []Candle) ([]Candle, error) {
	if Ascending(candles) {
		return candles, nil
	}

	descending := true
	for i := 1; i < len(candles); i++ {
		if !candles[i].Date.Before(candles[i-1].Date) {
			descending = false
			break
		}
	}
	if !descending {
		return nil, fmt.Errorf("series is not ordered by date")
	}

	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}
