package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is a single posting as it appears in the general ledger report.
type LedgerLine struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// LedgerAccountView is one account's section of the general ledger (huvudbok):
// its posting history within the fiscal year plus opening and closing balance.
type LedgerAccountView struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Lines          []LedgerLine    `json:"lines"`
}

// GeneralLedger is the full huvudbok report for a fiscal year.
type GeneralLedger struct {
	FiscalYearID string                        `json:"fiscalYearID"`
	Accounts     map[string]*LedgerAccountView `json:"accounts"` // keyed by AccountID
}

// TrialBalanceRow is a single account row in a trial balance style balance listing.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}
