package insider_test

import (
	"testing"

	insider "github.com/RxDataLab/go-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Filers wrap scalars in a nested <value> element in some branches and emit
// bare text in others; both must read identically.
func TestParseForm4_ValueUnwrapping(t *testing.T) {
	xmlData := []byte(`<?xml version="1.0"?>
<ownershipDocument>
    <documentType>4</documentType>
    <issuer>
        <issuerCik>0001094517</issuerCik>
        <issuerName><value>Acme Corp</value></issuerName>
        <issuerTradingSymbol>ACME</issuerTradingSymbol>
    </issuer>
    <reportingOwner>
        <reportingOwnerId>
            <rptOwnerCik>0001234567</rptOwnerCik>
            <rptOwnerName>Doe Jane</rptOwnerName>
        </reportingOwnerId>
        <reportingOwnerRelationship>
            <isDirector>1</isDirector>
            <isOfficer>true</isOfficer>
            <officerTitle>Chief Financial Officer</officerTitle>
        </reportingOwnerRelationship>
    </reportingOwner>
    <nonDerivativeTable>
        <nonDerivativeTransaction>
            <securityTitle><value>Common Stock</value></securityTitle>
            <transactionDate><value>2025-03-05</value></transactionDate>
            <transactionCoding>
                <transactionCode>P</transactionCode>
            </transactionCoding>
            <transactionAmounts>
                <transactionShares><value>1500</value></transactionShares>
                <transactionPricePerShare>12.34</transactionPricePerShare>
                <transactionAcquiredDisposedCode><value>A</value></transactionAcquiredDisposedCode>
            </transactionAmounts>
            <postTransactionAmounts>
                <sharesOwnedFollowingTransaction><value>20000</value></sharesOwnedFollowingTransaction>
            </postTransactionAmounts>
            <ownershipNature>
                <directOrIndirectOwnership><value>D</value></directOrIndirectOwnership>
            </ownershipNature>
        </nonDerivativeTransaction>
    </nonDerivativeTable>
    <footnotes>
        <footnote id="F1">Shares held  in a family trust.</footnote>
        <footnote id="F2">Price is a weighted average.</footnote>
    </footnotes>
</ownershipDocument>`)

	form, err := insider.ParseForm4(xmlData)
	require.NoError(t, err)

	// Wrapped and unwrapped variants read the same way.
	assert.Equal(t, "Acme Corp", form.Issuer.Name.String())
	assert.Equal(t, "ACME", form.Issuer.TradingSymbol.String())
	assert.Equal(t, "0001094517", form.Issuer.CIK.String())

	require.Len(t, form.ReportingOwners, 1)
	owner := form.ReportingOwners[0]
	assert.Equal(t, "Doe Jane", owner.ID.Name.String())
	assert.True(t, owner.Relationship.IsDirector.Bool())
	assert.True(t, owner.Relationship.IsOfficer.Bool())
	assert.Equal(t, "Chief Financial Officer", owner.Relationship.OfficerTitle.String())

	require.NotNil(t, form.NonDerivativeTable)
	require.Len(t, form.NonDerivativeTable.Transactions, 1)
	txn := form.NonDerivativeTable.Transactions[0]
	assert.Equal(t, "Common Stock", txn.SecurityTitle.String())
	assert.Equal(t, "P", txn.Coding.Code.String())
	assert.Equal(t, "1500", txn.Amounts.Shares.String())
	assert.Equal(t, "12.34", txn.Amounts.PricePerShare.String())
	assert.Equal(t, "A", txn.Amounts.AcquiredDisposed.String())
	assert.Equal(t, "20000", txn.PostTransaction.SharesOwnedFollowing.String())
	assert.Equal(t, "D", txn.OwnershipNature.DirectOrIndirect.String())

	// Footnote runs of whitespace collapse; entries join with single spaces.
	assert.Equal(t, "Shares held in a family trust. Price is a weighted average.", form.JoinedFootnotes())
}

func TestParseForm4_InvalidXML(t *testing.T) {
	_, err := insider.ParseForm4([]byte(`<ownershipDocument><issuer>`))
	assert.Error(t, err)
}

func TestValue_Accessors(t *testing.T) {
	var v insider.Value
	assert.Equal(t, "", v.String())
	assert.Equal(t, "0", v.Or("0"))
	assert.False(t, v.Bool())
	_, err := v.Float64()
	assert.Error(t, err)

	v = insider.Value{Text: "42.5"}
	f, err := v.Float64()
	require.NoError(t, err)
	assert.Equal(t, 42.5, f)
	assert.Equal(t, "42.5", v.Or("0"))
}

func TestTransactionCodeDescription(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"P", "Open Market Purchase"},
		{"S", "Open Market Sale"},
		{"G", "Gift"},
		{"M", "Exercise or Conversion of Derivative Security"},
		{"??", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, insider.TransactionCodeDescription(tt.code))
	}
}

func TestIsHighSignal(t *testing.T) {
	assert.True(t, insider.Transaction{TransactionCode: "P"}.IsHighSignal())
	assert.True(t, insider.Transaction{TransactionCode: "S"}.IsHighSignal())
	assert.False(t, insider.Transaction{TransactionCode: "A"}.IsHighSignal())
	assert.False(t, insider.Transaction{TransactionCode: ""}.IsHighSignal())
}
