package insider

// Transaction is one non-derivative Form 4 transaction flattened together
// with its filing-level context. String fields default to empty rather than
// being absent; FilingURL is always non-empty for traceability.
type Transaction struct {
	OwnerName                   string
	OwnerCIK                    string
	IssuerName                  string
	IssuerCIK                   string
	TickerSymbol                string
	Industry                    string
	IsDirector                  bool
	IsOfficer                   bool
	OfficerTitle                string
	SecurityTitle               string
	TransactionDate             string // YYYY-MM-DD
	TransactionCode             string
	TransactionShares           string
	TransactionPricePerShare    string
	AcquiredDisposedCode        string
	SharesOwnedAfterTransaction string
	OwnershipNature             string
	Footnotes                   string
	FilingURL                   string
}

// IsHighSignal reports whether the transaction is an open-market purchase or
// sale, the only codes worth market enrichment.
func (t Transaction) IsHighSignal() bool {
	return t.TransactionCode == "P" || t.TransactionCode == "S"
}

// Direction of a performance window relative to the anchor date.
type Direction string

const (
	Before Direction = "before"
	After  Direction = "after"
)

// WindowDays are the offsets, in calendar days, of the performance windows.
var WindowDays = []int{30, 60, 90}

// Directions in output order.
var Directions = []Direction{Before, After}

// WindowKey addresses one (window, direction) pair.
type WindowKey struct {
	Days      int
	Direction Direction
}

// WindowMetrics are the four per-window performance fields. Nil means the
// value could not be computed (thin trading, recent IPO, delisting); that is
// normal, not an error.
type WindowMetrics struct {
	Price          *float64
	PctChange      *float64
	SP500PctChange *float64
	Alpha          *float64
}

// Performance is the fixed enrichment schema. Numeric fields default to nil
// (explicit absence, never zero); the volume flag defaults to "No".
type Performance struct {
	MarketCapOnTradeDate     *float64
	TradeValuePctOfMarketCap *float64
	PriceOnTradeDate         *float64
	Windows                  map[WindowKey]WindowMetrics
	VolumeSpikeAfterTrade    string // "Yes" or "No"
}

// DefaultPerformance returns the all-absent schema with every window key
// present, so downstream consumers see a uniform shape.
func DefaultPerformance() Performance {
	windows := make(map[WindowKey]WindowMetrics, len(WindowDays)*len(Directions))
	for _, days := range WindowDays {
		for _, dir := range Directions {
			windows[WindowKey{Days: days, Direction: dir}] = WindowMetrics{}
		}
	}
	return Performance{
		Windows:               windows,
		VolumeSpikeAfterTrade: "No",
	}
}

// EnrichedTransaction is a Transaction augmented with performance context.
// The embedding only adds fields; every original Transaction field survives
// unchanged, so an EnrichedTransaction is always a superset record.
type EnrichedTransaction struct {
	Transaction
	Performance
}

// Window returns the metrics for one (days, direction) pair.
func (p Performance) Window(days int, dir Direction) WindowMetrics {
	return p.Windows[WindowKey{Days: days, Direction: dir}]
}
