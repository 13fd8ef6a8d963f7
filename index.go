package insider

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ArchivesBaseURL is the SEC EDGAR archive root that daily-index document
// paths are joined onto.
const ArchivesBaseURL = "https://www.sec.gov/Archives/"

// indexHeaderMarker separates the daily index preamble from its data rows.
const indexHeaderMarker = "Form Type"

// FilingReference is a resolved document location for one filing of a given
// form type on a given date. Immutable once produced.
type FilingReference struct {
	URL      string
	FormType string
	Date     time.Time
}

// IndexReader retrieves and filters the registry's daily filing index.
//
// Daily index documents exist only for business days. Callers are expected
// to skip weekends and market holidays before asking for a date; a request
// for a non-business day simply fails the fetch and yields no references.
type IndexReader struct {
	client  *Client
	baseURL string
	logger  *zap.Logger
}

// IndexOption configures an IndexReader.
type IndexOption func(*IndexReader)

// WithArchivesBaseURL overrides the archive root (tests point it at a local server).
func WithArchivesBaseURL(base string) IndexOption {
	return func(r *IndexReader) { r.baseURL = base }
}

// WithIndexLogger sets the diagnostic logger.
func WithIndexLogger(logger *zap.Logger) IndexOption {
	return func(r *IndexReader) { r.logger = logger }
}

// NewIndexReader builds an IndexReader on top of a fetch client.
func NewIndexReader(client *Client, opts ...IndexOption) *IndexReader {
	r := &IndexReader{
		client:  client,
		baseURL: ArchivesBaseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Quarter returns the registry's fiscal quarter for a date.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// IsBusinessDay reports whether t falls on a weekday. Market holidays are not
// modeled; an index fetch on a holiday fails like any other missing document.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IndexURL builds the deterministic daily-index location for a date.
func (r *IndexReader) IndexURL(date time.Time) string {
	return fmt.Sprintf("%sedgar/daily-index/%d/QTR%d/form.%s.idx",
		r.baseURL, date.Year(), Quarter(date), date.Format("20060102"))
}

// FilingsForDate fetches the daily index for date and returns references to
// every filing of the given form type. A fetch failure has already been
// recorded by the client, so it degrades to an empty result.
func (r *IndexReader) FilingsForDate(ctx context.Context, date time.Time, formType string, ledger *ErrorLedger) []FilingReference {
	body, ok := r.client.Fetch(ctx, r.IndexURL(date), CategoryIndexDownload, ledger)
	if !ok {
		return nil
	}

	var refs []FilingReference
	dataStarted := false
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !dataStarted {
			if strings.Contains(line, indexHeaderMarker) {
				dataStarted = true
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != formType {
			continue
		}
		refs = append(refs, FilingReference{
			URL:      r.baseURL + fields[len(fields)-1],
			FormType: formType,
			Date:     date,
		})
	}

	r.logger.Info("daily index read",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("form_type", formType),
		zap.Int("filings", len(refs)))
	return refs
}
