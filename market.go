package insider

import (
	"context"
	"time"
)

// Bar is one daily observation of a ticker's adjusted close and volume.
type Bar struct {
	Date   time.Time
	Close  float64
	Volume float64
}

// MarketData is the capability the enrichment engine consumes: daily
// adjusted price/volume history over a range, and a point-in-time market
// capitalization snapshot. Any provider offering these two operations is
// substitutable.
type MarketData interface {
	History(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error)
	MarketCap(ctx context.Context, ticker string) (float64, error)
}

// firstOnOrAfter returns the earliest bar dated on or after target.
// bars must be in ascending date order, as providers return them.
func firstOnOrAfter(bars []Bar, target time.Time) (Bar, bool) {
	for _, b := range bars {
		if !b.Date.Before(target) {
			return b, true
		}
	}
	return Bar{}, false
}

// lastOnOrBefore returns the latest bar dated on or before target.
func lastOnOrBefore(bars []Bar, target time.Time) (Bar, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Date.After(target) {
			return bars[i], true
		}
	}
	return Bar{}, false
}
