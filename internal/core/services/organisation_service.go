package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

// organisationService implements organisation lifecycle operations.
type organisationService struct {
	organisationRepo portsrepo.OrganisationRepositoryFacade
	fiscalYearRepo   portsrepo.FiscalYearRepositoryFacade
	templateRepo     portsrepo.TemplateRepositoryFacade
}

// NewOrganisationService creates a new OrganisationService.
func NewOrganisationService(
	organisationRepo portsrepo.OrganisationRepositoryFacade,
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade,
	templateRepo portsrepo.TemplateRepositoryFacade,
) portssvc.OrganisationSvcFacade {
	return &organisationService{
		organisationRepo: organisationRepo,
		fiscalYearRepo:   fiscalYearRepo,
		templateRepo:     templateRepo,
	}
}

var _ portssvc.OrganisationSvcFacade = (*organisationService)(nil)

// CreateOrganisation persists a new organisation.
// Implements portssvc.OrganisationSvcFacade.
func (s *organisationService) CreateOrganisation(ctx context.Context, req dto.CreateOrganisationRequest, creatorUserID string) (*domain.Organisation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AccountingPlanID != "" {
		if _, err := s.templateRepo.FindTemplateByID(ctx, req.AccountingPlanID); err != nil {
			return nil, fmt.Errorf("failed to find accounting plan %s: %w", req.AccountingPlanID, err)
		}
	}

	now := time.Now().UTC()
	org := domain.Organisation{
		OrganisationID:     uuid.NewString(),
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		VATNumber:          req.VATNumber,
		LogoRef:            req.LogoRef,
		AccountingPlanID:   req.AccountingPlanID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.organisationRepo.SaveOrganisation(ctx, org); err != nil {
		logger.Error("Failed to save organisation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save organisation: %w", err)
	}

	logger.Info("Organisation created successfully", slog.String("organisation_id", org.OrganisationID))
	return &org, nil
}

// GetOrganisation retrieves an organisation by its identifier.
// Implements portssvc.OrganisationSvcFacade.
func (s *organisationService) GetOrganisation(ctx context.Context, organisationID string) (*domain.Organisation, error) {
	org, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}
	return org, nil
}

// ListOrganisations retrieves organisations, newest first.
// Implements portssvc.OrganisationSvcFacade.
func (s *organisationService) ListOrganisations(ctx context.Context, limit, offset int) ([]domain.Organisation, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	orgs, err := s.organisationRepo.ListOrganisations(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organisations: %w", err)
	}
	return orgs, nil
}

// UpdateOrganisation applies the non-nil request fields in place.
// Implements portssvc.OrganisationSvcFacade.
func (s *organisationService) UpdateOrganisation(ctx context.Context, organisationID string, req dto.UpdateOrganisationRequest, userID string) (*domain.Organisation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}

	updated := false
	if req.Name != nil {
		org.Name = *req.Name
		updated = true
	}
	if req.RegistrationNumber != nil {
		org.RegistrationNumber = *req.RegistrationNumber
		updated = true
	}
	if req.VATNumber != nil {
		org.VATNumber = *req.VATNumber
		updated = true
	}
	if req.LogoRef != nil {
		org.LogoRef = *req.LogoRef
		updated = true
	}
	if !updated {
		return org, nil
	}

	org.LastUpdatedAt = time.Now().UTC()
	org.LastUpdatedBy = userID

	if err := s.organisationRepo.UpdateOrganisation(ctx, *org); err != nil {
		logger.Error("Failed to update organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return nil, fmt.Errorf("failed to update organisation: %w", err)
	}

	logger.Info("Organisation updated successfully", slog.String("organisation_id", organisationID))
	return org, nil
}

// DeleteOrganisation removes an organisation. Deletion is refused while
// fiscal years still reference it, so ledger data can never be orphaned.
// Implements portssvc.OrganisationSvcFacade.
func (s *organisationService) DeleteOrganisation(ctx context.Context, organisationID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID); err != nil {
		return fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}

	years, err := s.fiscalYearRepo.ListFiscalYearsByOrganisation(ctx, organisationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to list fiscal years before organisation delete", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return fmt.Errorf("failed to list fiscal years: %w", err)
	}
	if len(years) > 0 {
		return fmt.Errorf("%w: organisation %s still has %d fiscal year(s)", apperrors.ErrValidation, organisationID, len(years))
	}

	if err := s.organisationRepo.DeleteOrganisation(ctx, organisationID); err != nil {
		logger.Error("Failed to delete organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return fmt.Errorf("failed to delete organisation: %w", err)
	}

	logger.Info("Organisation deleted successfully", slog.String("organisation_id", organisationID))
	return nil
}
