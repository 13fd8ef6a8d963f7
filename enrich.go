package insider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// BenchmarkTicker is the index ETF used for excess-return comparison.
	BenchmarkTicker = "SPY"

	// historyPadding is how far around the anchor date history is fetched,
	// wide enough that a 90-day window always has observations on both sides.
	historyPadding = 95 * 24 * time.Hour

	// defaultPace is the courtesy delay after each enrichment that touched
	// the provider.
	defaultPace = time.Second

	// volumeSpikeFactor: post-trade max volume must exceed this multiple of
	// the pre-trade mean to raise the flag. Exactly at the threshold is "No".
	volumeSpikeFactor = 2.0
)

// Enricher augments transactions with price-trajectory, benchmark-relative,
// and volume context around the trade date. Enrich is total: internal
// failures are recorded in the ledger and yield the all-absent schema.
type Enricher struct {
	market    MarketData
	ledger    *ErrorLedger
	logger    *zap.Logger
	benchmark string
	pace      time.Duration
	sleep     sleepFunc
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithPace overrides the post-enrichment courtesy delay. Zero disables it.
func WithPace(d time.Duration) EnricherOption {
	return func(e *Enricher) { e.pace = d }
}

// WithBenchmark overrides the benchmark ticker.
func WithBenchmark(ticker string) EnricherOption {
	return func(e *Enricher) { e.benchmark = ticker }
}

// WithEnricherLogger sets the diagnostic logger.
func WithEnricherLogger(logger *zap.Logger) EnricherOption {
	return func(e *Enricher) { e.logger = logger }
}

// NewEnricher builds an Enricher over a market-data provider.
func NewEnricher(market MarketData, ledger *ErrorLedger, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		market:    market,
		ledger:    ledger,
		logger:    zap.NewNop(),
		benchmark: BenchmarkTicker,
		pace:      defaultPace,
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich computes the performance schema for one transaction. A transaction
// missing its ticker or date gets defaults immediately, with no provider
// calls and no pacing delay.
func (e *Enricher) Enrich(ctx context.Context, tx Transaction) EnrichedTransaction {
	enriched := EnrichedTransaction{Transaction: tx, Performance: DefaultPerformance()}

	if tx.TickerSymbol == "" || tx.TransactionDate == "" {
		return enriched
	}

	anchorDate, err := time.Parse("2006-01-02", tx.TransactionDate)
	if err != nil {
		e.ledger.Append(CategoryProcessing(tx.TickerSymbol),
			fmt.Sprintf("bad transaction date %q: %v", tx.TransactionDate, err))
		return enriched
	}

	e.compute(ctx, tx, anchorDate, &enriched.Performance)

	// Courtesy pause between provider round-trips.
	if e.pace > 0 {
		e.sleep(ctx, e.pace)
	}
	return enriched
}

// compute fills perf in place. Partial results are kept: a window missing a
// price observation leaves only that window's fields absent.
func (e *Enricher) compute(ctx context.Context, tx Transaction, anchorDate time.Time, perf *Performance) {
	from := anchorDate.Add(-historyPadding)
	to := anchorDate.Add(historyPadding)

	stock, err := e.market.History(ctx, tx.TickerSymbol, from, to)
	if err != nil {
		e.ledger.Append(CategoryProcessing(tx.TickerSymbol), err.Error())
		e.logger.Warn("history fetch failed", zap.String("ticker", tx.TickerSymbol), zap.Error(err))
		return
	}
	if len(stock) == 0 {
		e.ledger.Append(CategoryNoData, tx.TickerSymbol)
		return
	}

	bench, err := e.market.History(ctx, e.benchmark, from, to)
	if err != nil {
		e.ledger.Append(CategoryProcessing(tx.TickerSymbol), err.Error())
		e.logger.Warn("benchmark fetch failed", zap.String("ticker", tx.TickerSymbol), zap.Error(err))
		return
	}

	// Anchor: first close on or after the trade date, for both series.
	anchorBar, ok := firstOnOrAfter(stock, anchorDate)
	if !ok {
		return
	}
	benchAnchorBar, ok := firstOnOrAfter(bench, anchorDate)
	if !ok {
		return
	}
	anchor := anchorBar.Close
	benchAnchor := benchAnchorBar.Close // unrounded for downstream ratio math
	perf.PriceOnTradeDate = ptr(round2(anchor))

	e.addMarketCap(ctx, tx, perf)

	for _, days := range WindowDays {
		for _, dir := range Directions {
			perf.Windows[WindowKey{Days: days, Direction: dir}] =
				windowMetrics(stock, bench, anchorDate, anchor, benchAnchor, days, dir)
		}
	}

	perf.VolumeSpikeAfterTrade = volumeSpikeFlag(stock, anchorDate)
}

// addMarketCap fetches the cap snapshot and, when share count and price are
// numeric, derives the trade's size relative to it.
func (e *Enricher) addMarketCap(ctx context.Context, tx Transaction, perf *Performance) {
	marketCap, err := e.market.MarketCap(ctx, tx.TickerSymbol)
	if err != nil {
		e.ledger.Append(CategoryMarketCap(tx.TickerSymbol), err.Error())
		return
	}
	if marketCap <= 0 {
		return
	}
	perf.MarketCapOnTradeDate = ptr(marketCap)

	shares, err1 := strconv.ParseFloat(tx.TransactionShares, 64)
	price, err2 := strconv.ParseFloat(tx.TransactionPricePerShare, 64)
	if err1 != nil || err2 != nil {
		return // non-numeric share or price fields: skip the derived field silently
	}
	perf.TradeValuePctOfMarketCap = ptr(round6(shares * price / marketCap * 100))
}

// windowMetrics resolves one (window, direction) pair against both series.
// Percent change is always anchor-relative: "after" windows measure the
// subsequent move, "before" windows the move into the anchor date.
func windowMetrics(stock, bench []Bar, anchorDate time.Time, anchor, benchAnchor float64, days int, dir Direction) WindowMetrics {
	var m WindowMetrics

	offset := time.Duration(days) * 24 * time.Hour
	target := anchorDate.Add(offset)
	if dir == Before {
		target = anchorDate.Add(-offset)
	}

	pick := func(bars []Bar) (float64, bool) {
		var b Bar
		var ok bool
		if dir == After {
			b, ok = firstOnOrAfter(bars, target)
		} else {
			b, ok = lastOnOrBefore(bars, target)
		}
		return b.Close, ok
	}

	if price, ok := pick(stock); ok && price > 0 && anchor > 0 {
		m.Price = ptr(round2(price))
		m.PctChange = ptr(round2((price - anchor) / anchor * 100))
	}
	if price, ok := pick(bench); ok && price > 0 && benchAnchor > 0 {
		m.SP500PctChange = ptr(round2((price - benchAnchor) / benchAnchor * 100))
	}
	if m.PctChange != nil && m.SP500PctChange != nil {
		m.Alpha = ptr(round2(*m.PctChange - *m.SP500PctChange))
	}
	return m
}

// volumeSpikeFlag compares mean volume strictly before the anchor date with
// the maximum volume strictly after it.
func volumeSpikeFlag(stock []Bar, anchorDate time.Time) string {
	var sum float64
	var n int
	var postMax float64
	var hasPost bool

	for _, b := range stock {
		switch {
		case b.Date.Before(anchorDate):
			sum += b.Volume
			n++
		case b.Date.After(anchorDate):
			if !hasPost || b.Volume > postMax {
				postMax = b.Volume
				hasPost = true
			}
		}
	}

	if n == 0 || !hasPost {
		return "No"
	}
	mean := sum / float64(n)
	if mean > 0 && postMax > mean*volumeSpikeFactor {
		return "Yes"
	}
	return "No"
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round6(x float64) float64 { return math.Round(x*1e6) / 1e6 }

func ptr(x float64) *float64 { return &x }
