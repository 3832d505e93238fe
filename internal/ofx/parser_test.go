package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldane/ledgerscope/internal/model"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE ACME HARDWARE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1850.00
<FITID>2024012001
<NAME>TENANT RENT DEPOSIT UNIT 4B
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>SUPPLY DEPOT #221
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>WEB HOSTING MONTHLY
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			transactions, err := parser.ParseFile(context.Background(), reader, "owner-1")

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, transactions, tt.expectedCount)
			for _, tx := range transactions {
				assert.Equal(t, "owner-1", tx.OwnerRef)
			}
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	transactions, err := parser.ParseFile(context.Background(), reader, "owner-1")
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	tx1 := transactions[0]
	assert.Equal(t, "2024011501", tx1.ID)
	assert.Equal(t, "POS PURCHASE ACME HARDWARE", tx1.Title)
	assert.Equal(t, "ACME HARDWARE", tx1.Description, "processor prefix stripped")
	assert.True(t, tx1.Amount.Equal(decimal.RequireFromString("-25.50")), "got %s", tx1.Amount)
	assert.Equal(t, model.KindExpense, tx1.Kind)
	assert.Equal(t, 2024, tx1.Date.Year())
	assert.Equal(t, time.January, tx1.Date.Month())
	assert.Equal(t, 15, tx1.Date.Day())

	tx2 := transactions[1]
	assert.Equal(t, "2024012001", tx2.ID)
	assert.True(t, tx2.Amount.Equal(decimal.RequireFromString("1850.00")))
	assert.Equal(t, model.KindIncome, tx2.Kind, "positive OFX amounts are credits")

	tx3 := transactions[2]
	assert.Equal(t, "2024012501", tx3.ID)
	assert.True(t, tx3.Amount.Equal(decimal.RequireFromString("-500.00")))
	assert.True(t, tx3.IsRoundDollar())
}

func TestParseCreditCardTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	transactions, err := parser.ParseFile(context.Background(), reader, "owner-1")
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, "CC2024011001", transactions[0].ID)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("-45.99")))
	assert.Equal(t, "CC2024011501", transactions[1].ID)
	assert.Equal(t, model.KindExpense, transactions[1].Kind)
}

func TestCleanDescription(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "remove POS prefix",
			input:    "POS PURCHASE HILLSIDE PLUMBING",
			expected: "HILLSIDE PLUMBING",
		},
		{
			name:     "remove DEBIT CARD prefix",
			input:    "DEBIT CARD PURCHASE SUPPLY DEPOT",
			expected: "SUPPLY DEPOT",
		},
		{
			name:     "keep clean name",
			input:    "WEB HOSTING MONTHLY",
			expected: "WEB HOSTING MONTHLY",
		},
		{
			name:     "trim whitespace",
			input:    "  ACME HARDWARE  ",
			expected: "ACME HARDWARE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.input),
			}
			assert.Equal(t, tt.expected, parser.cleanDescription(tx))
		})
	}
}

func TestGetAccounts(t *testing.T) {
	parser := NewParser()

	reader := strings.NewReader(sampleBankOFX)
	accounts, err := parser.GetAccounts(context.Background(), reader)
	require.NoError(t, err)
	assert.Contains(t, accounts, "1234567890")

	reader = strings.NewReader(sampleCreditCardOFX)
	accounts, err = parser.GetAccounts(context.Background(), reader)
	require.NoError(t, err)
	assert.Contains(t, accounts, "4111111111111111")
}
