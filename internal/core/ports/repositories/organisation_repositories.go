package repositories

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// OrganisationReader defines read operations for organisation data.
type OrganisationReader interface {
	// FindOrganisationByID retrieves a specific organisation by its unique identifier.
	FindOrganisationByID(ctx context.Context, organisationID string) (*domain.Organisation, error)

	// ListOrganisations retrieves all organisations, newest first.
	ListOrganisations(ctx context.Context, limit int, offset int) ([]domain.Organisation, error)
}

// OrganisationWriter defines write operations for organisation data.
type OrganisationWriter interface {
	// SaveOrganisation persists a new organisation.
	SaveOrganisation(ctx context.Context, organisation domain.Organisation) error

	// UpdateOrganisation updates an existing organisation in place.
	UpdateOrganisation(ctx context.Context, organisation domain.Organisation) error

	// DeleteOrganisation removes an organisation. Implementations must refuse
	// the delete while fiscal years still reference the organisation.
	DeleteOrganisation(ctx context.Context, organisationID string) error
}

// OrganisationRepositoryFacade combines all organisation repository interfaces.
type OrganisationRepositoryFacade interface {
	OrganisationReader
	OrganisationWriter
}
