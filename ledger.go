package insider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Ledger category keys. Provider-scoped categories are built with the
// Category* helpers so the ticker ends up in the key itself.
const (
	CategoryIndexDownload  = "Index File Download Error"
	CategoryFilingDownload = "Filing Download Error"
	CategoryXMLNotFound    = "XML Content Not Found"
	CategoryParsing        = "Unknown Parsing Error"
	CategoryNoData         = "Yahoo No Data Found"
	CategoryCSVWrite       = "CSV Write Error"
)

// CategoryProcessing returns the ledger key for enrichment failures on a ticker.
func CategoryProcessing(ticker string) string {
	return fmt.Sprintf("Yahoo Processing Error for %s", ticker)
}

// CategoryMarketCap returns the ledger key for market-cap lookup failures.
func CategoryMarketCap(ticker string) string {
	return fmt.Sprintf("Market Cap Error for %s", ticker)
}

// ErrorLedger accumulates incident descriptions per category across a run.
// Entries are append-only; per-category order is preserved. Safe for
// concurrent writers so a parallelized pipeline can share one ledger.
type ErrorLedger struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewErrorLedger returns an empty ledger.
func NewErrorLedger() *ErrorLedger {
	return &ErrorLedger{entries: make(map[string][]string)}
}

// Append records one incident under the given category.
func (l *ErrorLedger) Append(category, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[category] = append(l.entries[category], detail)
}

// Entries returns a copy of the incidents recorded under a category.
func (l *ErrorLedger) Entries(category string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries[category]))
	copy(out, l.entries[category])
	return out
}

// Categories returns all category keys with at least one entry, sorted.
func (l *ErrorLedger) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of incidents under a category.
func (l *ErrorLedger) Count(category string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries[category])
}

// Empty reports whether nothing has been recorded.
func (l *ErrorLedger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) == 0
}

// summaryExamples is how many incidents per category Summary prints in full.
const summaryExamples = 5

// Summary renders a human-readable report: per category, the first few
// incidents plus a count of the remainder.
func (l *ErrorLedger) Summary() string {
	if l.Empty() {
		return "No errors were logged during the run.\n"
	}

	var b strings.Builder
	for _, category := range l.Categories() {
		items := l.Entries(category)
		fmt.Fprintf(&b, "--- Error Type: %q (Count: %d) ---\n", category, len(items))
		for i, item := range items {
			if i >= summaryExamples {
				fmt.Fprintf(&b, "  - ... and %d more.\n", len(items)-summaryExamples)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	return b.String()
}
