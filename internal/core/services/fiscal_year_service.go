package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

// fiscalYearService implements the fiscal year lifecycle: opening with rolled
// forward balances and closing exactly once. Close and open are deliberately
// two separate operations; closing a year never creates its successor.
type fiscalYearService struct {
	fiscalYearRepo   portsrepo.FiscalYearRepositoryFacade
	organisationRepo portsrepo.OrganisationRepositoryFacade
}

// NewFiscalYearService creates a new FiscalYearService.
func NewFiscalYearService(
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade,
	organisationRepo portsrepo.OrganisationRepositoryFacade,
) portssvc.FiscalYearSvcFacade {
	return &fiscalYearService{
		fiscalYearRepo:   fiscalYearRepo,
		organisationRepo: organisationRepo,
	}
}

var _ portssvc.FiscalYearSvcFacade = (*fiscalYearService)(nil)

// OpenFiscalYear creates a fiscal year and seeds its opening balances.
// Implements portssvc.FiscalYearSvcFacade.
func (s *fiscalYearService) OpenFiscalYear(ctx context.Context, organisationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: fiscal year start date must be before end date", apperrors.ErrValidation)
	}

	if _, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch organisation for fiscal year creation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		}
		return nil, fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}

	overlapping, err := s.fiscalYearRepo.FindOverlapping(ctx, organisationID, req.StartDate, req.EndDate)
	if err != nil {
		logger.Error("Failed to check fiscal year overlap", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return nil, fmt.Errorf("failed to check fiscal year overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: %s overlaps fiscal year %s", apperrors.ErrOverlap,
			req.StartDate.Format("2006-01-02"), overlapping[0].FiscalYearID)
	}

	startingBalances := req.StartingBalances
	if startingBalances == nil {
		startingBalances, err = s.deriveStartingBalances(ctx, organisationID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	year := domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: organisationID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsClosed:       false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	openingBalances := make([]domain.Balance, 0, len(startingBalances))
	for accountID, amount := range startingBalances {
		openingBalances = append(openingBalances, domain.Balance{
			FiscalYearID:  year.FiscalYearID,
			AccountID:     accountID,
			OpeningAmount: amount,
			Amount:        amount,
		})
	}

	if err := s.fiscalYearRepo.SaveFiscalYear(ctx, year, openingBalances); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}

	logger.Info("Fiscal year opened successfully",
		slog.String("fiscal_year_id", year.FiscalYearID),
		slog.String("organisation_id", organisationID),
		slog.Int("seeded_balances", len(openingBalances)))
	return &year, nil
}

// deriveStartingBalances looks up the most recently closed fiscal year (end
// date descending, limit 1) and copies its balances. No prior closed year
// means an all-zero start.
func (s *fiscalYearService) deriveStartingBalances(ctx context.Context, organisationID string) (map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	previous, err := s.fiscalYearRepo.FindMostRecentlyClosed(ctx, organisationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return map[string]decimal.Decimal{}, nil
		}
		logger.Error("Failed to look up most recently closed fiscal year", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return nil, fmt.Errorf("failed to look up prior fiscal year: %w", err)
	}

	balances, err := s.fiscalYearRepo.FindBalances(ctx, previous.FiscalYearID)
	if err != nil {
		logger.Error("Failed to fetch balances of prior fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", previous.FiscalYearID))
		return nil, fmt.Errorf("failed to fetch balances of fiscal year %s: %w", previous.FiscalYearID, err)
	}

	starting := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		starting[b.AccountID] = b.Amount
	}
	return starting, nil
}

// CloseFiscalYear freezes a fiscal year's balances and marks it closed.
// Implements portssvc.FiscalYearSvcFacade.
func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, fiscalYearID string, userID string) (*domain.ClosedFiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch fiscal year for close", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %s", apperrors.ErrAlreadyClosed, fiscalYearID)
	}

	now := time.Now().UTC()
	// The repository re-checks the closed flag under the row lock, so a
	// concurrent double close still fails with ErrAlreadyClosed.
	if err := s.fiscalYearRepo.CloseFiscalYear(ctx, fiscalYearID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyClosed) {
			logger.Error("Failed to close fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		}
		return nil, err
	}

	finalBalances, err := s.fiscalYearRepo.FindBalances(ctx, fiscalYearID)
	if err != nil {
		logger.Error("Failed to fetch final balances after close", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to fetch final balances: %w", err)
	}

	year.IsClosed = true
	year.LastUpdatedAt = now
	year.LastUpdatedBy = userID

	logger.Info("Fiscal year closed successfully",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.Int("balance_count", len(finalBalances)))

	return &domain.ClosedFiscalYear{
		FiscalYear:    *year,
		FinalBalances: finalBalances,
	}, nil
}

// GetFiscalYear retrieves a fiscal year by its identifier.
// Implements portssvc.FiscalYearSvcFacade.
func (s *fiscalYearService) GetFiscalYear(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	return year, nil
}

// ListFiscalYears retrieves an organisation's fiscal years.
// Implements portssvc.FiscalYearSvcFacade.
func (s *fiscalYearService) ListFiscalYears(ctx context.Context, organisationID string) ([]domain.FiscalYear, error) {
	years, err := s.fiscalYearRepo.ListFiscalYearsByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	return years, nil
}

// ListBalances retrieves the balance records of a fiscal year.
// Implements portssvc.FiscalYearSvcFacade.
func (s *fiscalYearService) ListBalances(ctx context.Context, fiscalYearID string) ([]domain.Balance, error) {
	if _, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	balances, err := s.fiscalYearRepo.FindBalances(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	return balances, nil
}
