package repositories

import (
	"context"
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal year data.
type FiscalYearReader interface {
	// FindFiscalYearByID retrieves a specific fiscal year by its unique identifier.
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYearsByOrganisation retrieves an organisation's fiscal years, newest span first.
	ListFiscalYearsByOrganisation(ctx context.Context, organisationID string) ([]domain.FiscalYear, error)

	// FindMostRecentlyClosed retrieves the closed fiscal year with the latest end
	// date for an organisation, or ErrNotFound when none has been closed yet.
	FindMostRecentlyClosed(ctx context.Context, organisationID string) (*domain.FiscalYear, error)

	// FindOverlapping retrieves fiscal years of the organisation whose span
	// intersects the closed interval [start, end].
	FindOverlapping(ctx context.Context, organisationID string, start, end time.Time) ([]domain.FiscalYear, error)

	// FindBalances retrieves all balance records of a fiscal year ordered by account code.
	FindBalances(ctx context.Context, fiscalYearID string) ([]domain.Balance, error)
}

// FiscalYearWriter defines write operations for fiscal year data.
type FiscalYearWriter interface {
	// SaveFiscalYear persists a new fiscal year together with its seeded opening
	// balances as one atomic unit.
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear, openingBalances []domain.Balance) error

	// CloseFiscalYear marks a fiscal year closed. It must fail with
	// apperrors.ErrAlreadyClosed when the year is already closed, leaving
	// balances untouched.
	CloseFiscalYear(ctx context.Context, fiscalYearID string, closedBy string, closedAt time.Time) error
}

// FiscalYearRepositoryFacade combines all fiscal year repository interfaces.
type FiscalYearRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
}
