package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// FiscalYearReaderSvc defines read operations for fiscal years.
type FiscalYearReaderSvc interface {
	// GetFiscalYear retrieves a fiscal year by its identifier.
	GetFiscalYear(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves an organisation's fiscal years, newest span first.
	ListFiscalYears(ctx context.Context, organisationID string) ([]domain.FiscalYear, error)

	// ListBalances retrieves the balance records of a fiscal year.
	ListBalances(ctx context.Context, fiscalYearID string) ([]domain.Balance, error)
}

// FiscalYearWriterSvc defines the open and close lifecycle operations.
// Close does not create the successor year; opening the next year is a
// separate, explicitly invoked operation that rolls the closed balances forward.
type FiscalYearWriterSvc interface {
	// OpenFiscalYear creates a fiscal year, seeding its balances from the
	// request or from the most recently closed year of the organisation.
	OpenFiscalYear(ctx context.Context, organisationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error)

	// CloseFiscalYear freezes a fiscal year's balances and marks it closed.
	// A second close fails with apperrors.ErrAlreadyClosed.
	CloseFiscalYear(ctx context.Context, fiscalYearID string, userID string) (*domain.ClosedFiscalYear, error)
}

// FiscalYearSvcFacade combines all fiscal year service interfaces.
type FiscalYearSvcFacade interface {
	FiscalYearReaderSvc
	FiscalYearWriterSvc
}
