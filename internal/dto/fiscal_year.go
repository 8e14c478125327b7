package dto

import (
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFiscalYearRequest is the payload for opening a new fiscal year.
// StartingBalances (accountID -> amount) is optional; when omitted the
// balances of the most recently closed fiscal year are rolled forward.
type CreateFiscalYearRequest struct {
	StartDate        time.Time                  `json:"startDate" binding:"required"`
	EndDate          time.Time                  `json:"endDate" binding:"required"`
	StartingBalances map[string]decimal.Decimal `json:"startingBalances,omitempty"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID   string    `json:"fiscalYearID"`
	OrganisationID string    `json:"organisationID"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsClosed       bool      `json:"isClosed"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BalanceResponse defines the data returned for one balance record.
type BalanceResponse struct {
	AccountID     string          `json:"accountID"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	Amount        decimal.Decimal `json:"amount"`
}

// ClosedFiscalYearResponse is returned when a fiscal year is closed: the year
// plus its frozen final balances.
type ClosedFiscalYearResponse struct {
	FiscalYear    FiscalYearResponse `json:"fiscalYear"`
	FinalBalances []BalanceResponse  `json:"finalBalances"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to its response DTO.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID:   fy.FiscalYearID,
		OrganisationID: fy.OrganisationID,
		StartDate:      fy.StartDate,
		EndDate:        fy.EndDate,
		IsClosed:       fy.IsClosed,
		CreatedAt:      fy.CreatedAt,
	}
}

// ToBalanceResponses converts domain balances to response DTOs.
func ToBalanceResponses(balances []domain.Balance) []BalanceResponse {
	responses := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = BalanceResponse{
			AccountID:     b.AccountID,
			OpeningAmount: b.OpeningAmount,
			Amount:        b.Amount,
		}
	}
	return responses
}

// ToClosedFiscalYearResponse converts a domain.ClosedFiscalYear to its response DTO.
func ToClosedFiscalYearResponse(closed *domain.ClosedFiscalYear) ClosedFiscalYearResponse {
	return ClosedFiscalYearResponse{
		FiscalYear:    ToFiscalYearResponse(&closed.FiscalYear),
		FinalBalances: ToBalanceResponses(closed.FinalBalances),
	}
}
