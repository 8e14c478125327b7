package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// ReportingSvcFacade defines the read-only report builders. Reports are
// computed on demand from posted data; nothing here mutates state.
type ReportingSvcFacade interface {
	// BuildGeneralLedger aggregates a fiscal year's entries per account into
	// the huvudbok report: posting history plus opening and closing balance.
	BuildGeneralLedger(ctx context.Context, fiscalYearID string) (*domain.GeneralLedger, error)

	// TrialBalance lists every account's current balance within a fiscal year.
	TrialBalance(ctx context.Context, fiscalYearID string) ([]domain.TrialBalanceRow, error)
}
