package insider

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// PreferredColumns is the fixed output column order the downstream CSV
// consumers depend on: the flattened transaction fields first, then the
// performance schema window by window.
func PreferredColumns() []string {
	cols := []string{
		"owner_name", "owner_cik", "issuer_name", "issuer_cik",
		"ticker_symbol", "industry", "is_director", "is_officer",
		"officer_title", "security_title", "transaction_date",
		"transaction_code", "transaction_shares",
		"transaction_price_per_share", "acquired_disposed_code",
		"shares_owned_after_transaction", "ownership_nature",
		"footnotes", "filing_url",
		"market_cap_on_trade_date", "trade_value_as_pct_of_market_cap",
		"price_on_trade_date",
	}
	for _, dir := range Directions {
		for _, days := range WindowDays {
			prefix := fmt.Sprintf("%dd_%s", days, dir)
			cols = append(cols,
				"price_"+prefix,
				"pct_change_"+prefix,
				"sp500_pct_change_"+prefix,
				"alpha_"+prefix,
			)
		}
	}
	return append(cols, "volume_spike_after_trade")
}

// Row renders one enriched transaction in PreferredColumns order. Absent
// numeric fields become empty cells.
func Row(e EnrichedTransaction) []string {
	row := []string{
		e.OwnerName, e.OwnerCIK, e.IssuerName, e.IssuerCIK,
		e.TickerSymbol, e.Industry,
		strconv.FormatBool(e.IsDirector), strconv.FormatBool(e.IsOfficer),
		e.OfficerTitle, e.SecurityTitle, e.TransactionDate,
		e.TransactionCode, e.TransactionShares,
		e.TransactionPricePerShare, e.AcquiredDisposedCode,
		e.SharesOwnedAfterTransaction, e.OwnershipNature,
		e.Footnotes, e.FilingURL,
		formatFloat(e.MarketCapOnTradeDate),
		formatFloat(e.TradeValuePctOfMarketCap),
		formatFloat(e.PriceOnTradeDate),
	}
	for _, dir := range Directions {
		for _, days := range WindowDays {
			w := e.Window(days, dir)
			row = append(row,
				formatFloat(w.Price),
				formatFloat(w.PctChange),
				formatFloat(w.SP500PctChange),
				formatFloat(w.Alpha),
			)
		}
	}
	return append(row, e.VolumeSpikeAfterTrade)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// WriteCSV writes the header row and one row per transaction.
func WriteCSV(w io.Writer, transactions []EnrichedTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PreferredColumns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, tx := range transactions {
		if err := cw.Write(Row(tx)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteErrorCSV exports the ledger as (error_type, detail) rows for offline
// investigation.
func WriteErrorCSV(w io.Writer, ledger *ErrorLedger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"error_type", "detail"}); err != nil {
		return fmt.Errorf("failed to write error CSV header: %w", err)
	}
	for _, category := range ledger.Categories() {
		for _, detail := range ledger.Entries(category) {
			if err := cw.Write([]string{category, detail}); err != nil {
				return fmt.Errorf("failed to write error CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
