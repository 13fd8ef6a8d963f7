package insider

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Form4 is the embedded ownership document of an SEC Form 4 filing, trimmed
// to the paths this pipeline consumes.
type Form4 struct {
	XMLName            xml.Name            `xml:"ownershipDocument"`
	DocumentType       string              `xml:"documentType"`
	Issuer             Issuer              `xml:"issuer"`
	ReportingOwners    []ReportingOwner    `xml:"reportingOwner"`
	NonDerivativeTable *NonDerivativeTable `xml:"nonDerivativeTable"`
	Footnotes          []Footnote          `xml:"footnotes>footnote"`
}

// Issuer identifies the company whose stock is being traded.
type Issuer struct {
	CIK           Value `xml:"issuerCik"`
	Name          Value `xml:"issuerName"`
	TradingSymbol Value `xml:"issuerTradingSymbol"`
}

// ReportingOwner is the insider filing the Form 4.
type ReportingOwner struct {
	ID           OwnerID      `xml:"reportingOwnerId"`
	Relationship Relationship `xml:"reportingOwnerRelationship"`
}

type OwnerID struct {
	CIK  Value `xml:"rptOwnerCik"`
	Name Value `xml:"rptOwnerName"`
}

type Relationship struct {
	IsDirector   Value `xml:"isDirector"`
	IsOfficer    Value `xml:"isOfficer"`
	OfficerTitle Value `xml:"officerTitle"`
}

// NonDerivativeTable holds the common stock transactions.
type NonDerivativeTable struct {
	Transactions []NonDerivativeTransaction `xml:"nonDerivativeTransaction"`
}

// NonDerivativeTransaction is a direct purchase, sale, or grant of the
// underlying security.
type NonDerivativeTransaction struct {
	SecurityTitle   Value                  `xml:"securityTitle"`
	TransactionDate Value                  `xml:"transactionDate"`
	Coding          TransactionCoding      `xml:"transactionCoding"`
	Amounts         TransactionAmounts     `xml:"transactionAmounts"`
	PostTransaction PostTransactionAmounts `xml:"postTransactionAmounts"`
	OwnershipNature OwnershipNature        `xml:"ownershipNature"`
}

type TransactionCoding struct {
	Code Value `xml:"transactionCode"`
}

type TransactionAmounts struct {
	Shares           Value `xml:"transactionShares"`
	PricePerShare    Value `xml:"transactionPricePerShare"`
	AcquiredDisposed Value `xml:"transactionAcquiredDisposedCode"`
}

type PostTransactionAmounts struct {
	SharesOwnedFollowing Value `xml:"sharesOwnedFollowingTransaction"`
}

type OwnershipNature struct {
	DirectOrIndirect Value `xml:"directOrIndirectOwnership"`
}

type Footnote struct {
	ID   string `xml:"id,attr"`
	Text string `xml:",chardata"`
}

// Value is a scalar field in the ownership schema. Filers inconsistently wrap
// scalars in a nested <value> element in some branches and emit bare text in
// others; Value accepts both so every field is read through one accessor.
type Value struct {
	Text string
}

// UnmarshalXML prefers the text of a nested <value> child and falls back to
// the element's own character data. Other children are skipped.
func (v *Value) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var direct strings.Builder
	var nested string
	hasNested := false

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			direct.Write(t)
		case xml.StartElement:
			if t.Name.Local == "value" {
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				nested = s
				hasNested = true
			} else if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if hasNested {
				v.Text = strings.TrimSpace(nested)
			} else {
				v.Text = strings.TrimSpace(direct.String())
			}
			return nil
		}
	}
}

// String returns the unwrapped text.
func (v Value) String() string { return v.Text }

// Or returns the unwrapped text, or def when the field was absent or empty.
func (v Value) Or(def string) string {
	if v.Text == "" {
		return def
	}
	return v.Text
}

// Bool interprets the ownership schema's boolean encoding ("1" or "true").
func (v Value) Bool() bool {
	return v.Text == "1" || strings.EqualFold(v.Text, "true")
}

// Float64 returns the value as float64, erroring on empty values.
func (v Value) Float64() (float64, error) {
	if v.Text == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(v.Text, 64)
}

// ParseForm4 unmarshals ownership-document XML. The decoder resolves declared
// character encodings, since a minority of filings are not UTF-8.
func ParseForm4(data []byte) (*Form4, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var form Form4
	if err := dec.Decode(&form); err != nil {
		return nil, err
	}
	return &form, nil
}

// JoinedFootnotes concatenates all footnote text, space-separated, for
// flattening onto every transaction from the filing.
func (f *Form4) JoinedFootnotes() string {
	parts := make([]string, 0, len(f.Footnotes))
	for _, fn := range f.Footnotes {
		if text := CleanExtractedText(fn.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// TransactionCodeDescription returns the human-readable meaning of a Form 4
// transaction code.
func TransactionCodeDescription(code string) string {
	descriptions := map[string]string{
		"P": "Open Market Purchase",
		"S": "Open Market Sale",
		"A": "Grant, Award or Other Acquisition",
		"D": "Disposition to the Issuer",
		"F": "Payment of Exercise Price or Tax Liability",
		"G": "Gift",
		"M": "Exercise or Conversion of Derivative Security",
		"C": "Conversion of Derivative Security",
		"E": "Expiration of Short Derivative Position",
		"H": "Expiration of Long Derivative Position",
		"I": "Discretionary Transaction",
		"O": "Exercise of Out-of-the-Money Derivative Security",
		"U": "Disposition Pursuant to a Tender",
		"X": "Exercise of In-the-Money or At-the-Money Derivative Security",
		"Z": "Deposit into or Withdrawal from Voting Trust",
	}
	return descriptions[code]
}
