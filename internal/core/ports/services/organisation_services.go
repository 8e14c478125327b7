package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// OrganisationSvcFacade defines organisation lifecycle operations.
type OrganisationSvcFacade interface {
	// CreateOrganisation persists a new organisation.
	CreateOrganisation(ctx context.Context, req dto.CreateOrganisationRequest, creatorUserID string) (*domain.Organisation, error)

	// GetOrganisation retrieves an organisation by its identifier.
	GetOrganisation(ctx context.Context, organisationID string) (*domain.Organisation, error)

	// ListOrganisations retrieves organisations, newest first.
	ListOrganisations(ctx context.Context, limit, offset int) ([]domain.Organisation, error)

	// UpdateOrganisation applies the non-nil request fields in place.
	UpdateOrganisation(ctx context.Context, organisationID string, req dto.UpdateOrganisationRequest, userID string) (*domain.Organisation, error)

	// DeleteOrganisation removes an organisation; refused while fiscal years exist.
	DeleteOrganisation(ctx context.Context, organisationID string) error
}
