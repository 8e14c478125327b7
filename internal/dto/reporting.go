package dto

import (
	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// GeneralLedgerResponse is the huvudbok report for a fiscal year.
type GeneralLedgerResponse struct {
	FiscalYearID string                               `json:"fiscalYearID"`
	Accounts     map[string]*domain.LedgerAccountView `json:"accounts"`
}

// TrialBalanceResponse is a balance listing for a fiscal year.
type TrialBalanceResponse struct {
	FiscalYearID string                   `json:"fiscalYearID"`
	Rows         []domain.TrialBalanceRow `json:"rows"`
}

// ToGeneralLedgerResponse converts a domain general ledger to its response DTO.
func ToGeneralLedgerResponse(gl *domain.GeneralLedger) GeneralLedgerResponse {
	return GeneralLedgerResponse{
		FiscalYearID: gl.FiscalYearID,
		Accounts:     gl.Accounts,
	}
}
