package insider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// sicHeaderPattern matches the industry classification line of the filing's
// plain-text header, capturing the bracketed 4-digit code.
var sicHeaderPattern = regexp.MustCompile(`STANDARD INDUSTRIAL CLASSIFICATION:\s*.*\[(\d{4})\]`)

const (
	xmlBeginMarker = "<XML>"
	xmlEndMarker   = "</XML>"
	xmlPrologue    = "<?xml"
)

// FilingParser downloads one filing document, extracts the embedded
// ownership XML from the surrounding SGML, and flattens it into transaction
// records. It never fails its caller: every internal failure degrades to an
// empty result plus a ledger entry.
type FilingParser struct {
	client *Client
	logger *zap.Logger
}

// NewFilingParser builds a parser on top of a fetch client.
func NewFilingParser(client *Client, logger *zap.Logger) *FilingParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilingParser{client: client, logger: logger}
}

// ParseFiling fetches and parses one filing, returning zero or more
// transactions. Owner, issuer, industry, and footnote fields are repeated on
// every transaction from the same filing.
func (p *FilingParser) ParseFiling(ctx context.Context, ref FilingReference, ledger *ErrorLedger) []Transaction {
	body, ok := p.client.Fetch(ctx, ref.URL, CategoryFilingDownload, ledger)
	if !ok {
		return nil
	}
	return p.parseDocument(string(body), ref.URL, ledger)
}

// parseDocument is the fetch-free core, split out for testability.
func (p *FilingParser) parseDocument(fullText, filingURL string, ledger *ErrorLedger) []Transaction {
	industry := extractIndustry(fullText)

	xmlContent, ok := extractXML(fullText)
	if !ok {
		ledger.Append(CategoryXMLNotFound, filingURL)
		p.logger.Warn("no XML payload in filing", zap.String("url", filingURL))
		return nil
	}

	form, err := ParseForm4([]byte(xmlContent))
	if err != nil {
		ledger.Append(CategoryParsing, fmt.Sprintf("%s - %v", filingURL, err))
		p.logger.Warn("filing XML failed to parse", zap.String("url", filingURL), zap.Error(err))
		return nil
	}

	return flatten(form, industry, filingURL)
}

// extractIndustry scans the plain-text header for the SIC line and maps the
// code to its division label. Absence yields an empty string, not an error.
func extractIndustry(fullText string) string {
	normalized := string(NormalizeText([]byte(fullText)))
	m := sicHeaderPattern.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	return ClassifySIC(m[1])
}

// extractXML locates the embedded structured payload: preferably the region
// between explicit <XML>/</XML> markers, else from the first XML prologue to
// the end of the document.
func extractXML(fullText string) (string, bool) {
	start := strings.Index(fullText, xmlBeginMarker)
	end := strings.Index(fullText, xmlEndMarker)

	if start >= 0 && end > start {
		return strings.TrimSpace(fullText[start+len(xmlBeginMarker) : end]), true
	}

	start = strings.Index(fullText, xmlPrologue)
	if start < 0 {
		return "", false
	}
	return strings.TrimSpace(fullText[start:]), true
}

// flatten emits one Transaction per non-derivative transaction element,
// combining it with the filing-level identity fields.
func flatten(form *Form4, industry, filingURL string) []Transaction {
	var owner ReportingOwner
	if len(form.ReportingOwners) > 0 {
		owner = form.ReportingOwners[0]
	}
	footnotes := form.JoinedFootnotes()

	if form.NonDerivativeTable == nil {
		return nil
	}

	transactions := make([]Transaction, 0, len(form.NonDerivativeTable.Transactions))
	for _, txn := range form.NonDerivativeTable.Transactions {
		date := txn.TransactionDate.String()
		if len(date) > 10 {
			date = date[:10] // calendar-date precision
		}

		transactions = append(transactions, Transaction{
			OwnerName:                   owner.ID.Name.String(),
			OwnerCIK:                    owner.ID.CIK.String(),
			IssuerName:                  form.Issuer.Name.String(),
			IssuerCIK:                   form.Issuer.CIK.String(),
			TickerSymbol:                form.Issuer.TradingSymbol.String(),
			Industry:                    industry,
			IsDirector:                  owner.Relationship.IsDirector.Bool(),
			IsOfficer:                   owner.Relationship.IsOfficer.Bool(),
			OfficerTitle:                owner.Relationship.OfficerTitle.String(),
			SecurityTitle:               txn.SecurityTitle.String(),
			TransactionDate:             date,
			TransactionCode:             txn.Coding.Code.String(),
			TransactionShares:           txn.Amounts.Shares.String(),
			TransactionPricePerShare:    txn.Amounts.PricePerShare.String(),
			AcquiredDisposedCode:        txn.Amounts.AcquiredDisposed.String(),
			SharesOwnedAfterTransaction: txn.PostTransaction.SharesOwnedFollowing.String(),
			OwnershipNature:             txn.OwnershipNature.DirectOrIndirect.String(),
			Footnotes:                   footnotes,
			FilingURL:                   filingURL,
		})
	}
	return transactions
}
