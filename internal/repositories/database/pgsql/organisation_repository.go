package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
)

type PgxOrganisationRepository struct {
	BaseRepository
}

// newPgxOrganisationRepository creates a new repository for organisation data.
func newPgxOrganisationRepository(pool *pgxpool.Pool) portsrepo.OrganisationRepositoryFacade {
	return &PgxOrganisationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganisationRepositoryFacade = (*PgxOrganisationRepository)(nil)

// SaveOrganisation persists a new organisation.
func (r *PgxOrganisationRepository) SaveOrganisation(ctx context.Context, organisation domain.Organisation) error {
	query := `
		INSERT INTO organisations (
			organisation_id, name, registration_number, vat_number, logo_ref, accounting_plan_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		organisation.OrganisationID,
		organisation.Name,
		organisation.RegistrationNumber,
		organisation.VATNumber,
		nullIfEmpty(organisation.LogoRef),
		nullIfEmpty(organisation.AccountingPlanID),
		organisation.CreatedAt,
		organisation.CreatedBy,
		organisation.LastUpdatedAt,
		organisation.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert organisation "+organisation.OrganisationID, err)
	}
	return nil
}

// FindOrganisationByID retrieves an organisation by its ID.
func (r *PgxOrganisationRepository) FindOrganisationByID(ctx context.Context, organisationID string) (*domain.Organisation, error) {
	query := `
		SELECT organisation_id, name, registration_number, vat_number, logo_ref, accounting_plan_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM organisations
		WHERE organisation_id = $1;
	`
	var org domain.Organisation
	var logoRef, planID sql.NullString

	err := r.Pool.QueryRow(ctx, query, organisationID).Scan(
		&org.OrganisationID,
		&org.Name,
		&org.RegistrationNumber,
		&org.VATNumber,
		&logoRef,
		&planID,
		&org.CreatedAt,
		&org.CreatedBy,
		&org.LastUpdatedAt,
		&org.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organisation by ID "+organisationID, err)
	}

	org.LogoRef = logoRef.String
	org.AccountingPlanID = planID.String
	return &org, nil
}

// ListOrganisations retrieves organisations, newest first.
func (r *PgxOrganisationRepository) ListOrganisations(ctx context.Context, limit int, offset int) ([]domain.Organisation, error) {
	query := `
		SELECT organisation_id, name, registration_number, vat_number, logo_ref, accounting_plan_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM organisations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organisations", err)
	}
	defer rows.Close()

	organisations := []domain.Organisation{}
	for rows.Next() {
		var org domain.Organisation
		var logoRef, planID sql.NullString
		err := rows.Scan(
			&org.OrganisationID,
			&org.Name,
			&org.RegistrationNumber,
			&org.VATNumber,
			&logoRef,
			&planID,
			&org.CreatedAt,
			&org.CreatedBy,
			&org.LastUpdatedAt,
			&org.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organisation row", err)
		}
		org.LogoRef = logoRef.String
		org.AccountingPlanID = planID.String
		organisations = append(organisations, org)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organisation rows", err)
	}
	return organisations, nil
}

// UpdateOrganisation updates an existing organisation in place.
func (r *PgxOrganisationRepository) UpdateOrganisation(ctx context.Context, organisation domain.Organisation) error {
	query := `
		UPDATE organisations
		SET name = $2, registration_number = $3, vat_number = $4, logo_ref = $5,
		    accounting_plan_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE organisation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		organisation.OrganisationID,
		organisation.Name,
		organisation.RegistrationNumber,
		organisation.VATNumber,
		nullIfEmpty(organisation.LogoRef),
		nullIfEmpty(organisation.AccountingPlanID),
		organisation.LastUpdatedAt,
		organisation.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organisation "+organisation.OrganisationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteOrganisation removes an organisation. The fiscal_years FK is RESTRICT,
// so the database refuses the delete while ledger data still references it.
func (r *PgxOrganisationRepository) DeleteOrganisation(ctx context.Context, organisationID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM organisations WHERE organisation_id = $1;`, organisationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete organisation "+organisationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nullIfEmpty maps an empty string to SQL NULL for optional text columns.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
