package insider_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	insider "github.com/RxDataLab/go-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLedger_AppendPreservesOrder(t *testing.T) {
	ledger := insider.NewErrorLedger()
	ledger.Append("Filing Download Error", "first")
	ledger.Append("Filing Download Error", "second")
	ledger.Append("XML Content Not Found", "other")

	assert.Equal(t, []string{"first", "second"}, ledger.Entries("Filing Download Error"))
	assert.Equal(t, []string{"Filing Download Error", "XML Content Not Found"}, ledger.Categories())
	assert.Equal(t, 2, ledger.Count("Filing Download Error"))
	assert.False(t, ledger.Empty())
}

func TestErrorLedger_SummaryTruncatesAtFive(t *testing.T) {
	ledger := insider.NewErrorLedger()
	for i := 0; i < 8; i++ {
		ledger.Append("Filing Download Error", fmt.Sprintf("incident %d", i))
	}

	summary := ledger.Summary()
	assert.Contains(t, summary, "incident 0")
	assert.Contains(t, summary, "incident 4")
	assert.NotContains(t, summary, "incident 5")
	assert.Contains(t, summary, "and 3 more.")
	assert.Contains(t, summary, "Count: 8")
}

func TestErrorLedger_SummaryEmpty(t *testing.T) {
	ledger := insider.NewErrorLedger()
	assert.Equal(t, "No errors were logged during the run.\n", ledger.Summary())
}

// The ledger must keep per-category append semantics intact when a
// parallelized pipeline shares it across workers.
func TestErrorLedger_ConcurrentWriters(t *testing.T) {
	ledger := insider.NewErrorLedger()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			category := fmt.Sprintf("worker %d", w)
			for i := 0; i < 100; i++ {
				ledger.Append(category, fmt.Sprintf("entry %d", i))
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < 8; w++ {
		entries := ledger.Entries(fmt.Sprintf("worker %d", w))
		require.Len(t, entries, 100)
		for i, e := range entries {
			require.True(t, strings.HasSuffix(e, fmt.Sprintf(" %d", i)), "entry %q out of order", e)
		}
	}
}

func TestProviderCategories(t *testing.T) {
	assert.Equal(t, "Yahoo Processing Error for XYZ", insider.CategoryProcessing("XYZ"))
	assert.Equal(t, "Market Cap Error for XYZ", insider.CategoryMarketCap("XYZ"))
}
