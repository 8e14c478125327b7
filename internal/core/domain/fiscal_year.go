package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalYear is a bounded accounting period owned by one organisation.
// While open it accepts postings; closing freezes its balances.
type FiscalYear struct {
	FiscalYearID   string    `json:"fiscalYearID"`   // Primary Key (UUID)
	OrganisationID string    `json:"organisationID"` // FK -> Organisation (Not Null)
	StartDate      time.Time `json:"startDate"`      // Closed interval [StartDate, EndDate]
	EndDate        time.Time `json:"endDate"`
	IsClosed       bool      `json:"isClosed"`
	AuditFields
}

// Balance is the per-account balance record under a fiscal year.
// Amount is kept current by atomic increments as transactions are posted;
// OpeningAmount is the seed copied from the prior closed year and never changes.
type Balance struct {
	FiscalYearID  string          `json:"fiscalYearID"`
	AccountID     string          `json:"accountID"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	Amount        decimal.Decimal `json:"amount"`
}

// ClosedFiscalYear is the result of closing a fiscal year: the year itself
// plus the frozen final balances, which become the candidate starting
// balances for the successor year.
type ClosedFiscalYear struct {
	FiscalYear    FiscalYear `json:"fiscalYear"`
	FinalBalances []Balance  `json:"finalBalances"`
}

// Overlaps reports whether the closed interval [start, end] intersects this fiscal year's span.
func (fy FiscalYear) Overlaps(start, end time.Time) bool {
	return !start.After(fy.EndDate) && !end.Before(fy.StartDate)
}
