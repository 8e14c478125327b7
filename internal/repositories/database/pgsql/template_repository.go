package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
)

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for chart-of-accounts templates.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

// SaveTemplate persists a template header with its account rows atomically.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.ChartOfAccountsTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO coa_templates (template_id, name, is_locked, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, headerQuery,
		template.TemplateID,
		template.Name,
		template.IsLocked,
		template.CreatedAt,
		template.CreatedBy,
		template.LastUpdatedAt,
		template.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert template "+template.TemplateID, err)
	}

	batch := &pgx.Batch{}
	rowQuery := `INSERT INTO coa_template_accounts (template_id, code, name) VALUES ($1, $2, $3);`
	for _, row := range template.Accounts {
		batch.Queue(rowQuery, template.TemplateID, row.Code, row.Name)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert template account rows for "+template.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template with its account rows.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ChartOfAccountsTemplate, error) {
	headerQuery := `
		SELECT template_id, name, is_locked, created_at, created_by, last_updated_at, last_updated_by
		FROM coa_templates
		WHERE template_id = $1;
	`
	var template domain.ChartOfAccountsTemplate
	err := r.Pool.QueryRow(ctx, headerQuery, templateID).Scan(
		&template.TemplateID,
		&template.Name,
		&template.IsLocked,
		&template.CreatedAt,
		&template.CreatedBy,
		&template.LastUpdatedAt,
		&template.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find template by ID "+templateID, err)
	}

	rows, err := r.Pool.Query(ctx, `SELECT code, name FROM coa_template_accounts WHERE template_id = $1 ORDER BY code;`, templateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query template account rows for "+templateID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.TemplateAccount
		if err := rows.Scan(&row.Code, &row.Name); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template account row", err)
		}
		template.Accounts = append(template.Accounts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template account rows", err)
	}

	return &template, nil
}

// ListTemplates retrieves all templates with their account rows, name ascending.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context) ([]domain.ChartOfAccountsTemplate, error) {
	headerQuery := `
		SELECT template_id, name, is_locked, created_at, created_by, last_updated_at, last_updated_by
		FROM coa_templates
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, headerQuery)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query templates", err)
	}
	defer rows.Close()

	templates := []domain.ChartOfAccountsTemplate{}
	index := map[string]int{}
	for rows.Next() {
		var template domain.ChartOfAccountsTemplate
		err := rows.Scan(
			&template.TemplateID,
			&template.Name,
			&template.IsLocked,
			&template.CreatedAt,
			&template.CreatedBy,
			&template.LastUpdatedAt,
			&template.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		index[template.TemplateID] = len(templates)
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows", err)
	}
	rows.Close()

	accountRows, err := r.Pool.Query(ctx, `SELECT template_id, code, name FROM coa_template_accounts ORDER BY template_id, code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query template account rows", err)
	}
	defer accountRows.Close()

	for accountRows.Next() {
		var templateID string
		var row domain.TemplateAccount
		if err := accountRows.Scan(&templateID, &row.Code, &row.Name); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template account row", err)
		}
		if i, ok := index[templateID]; ok {
			templates[i].Accounts = append(templates[i].Accounts, row)
		}
	}
	if err := accountRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template account rows", err)
	}

	return templates, nil
}

// DeleteTemplate removes a custom template and its account rows.
// The service layer refuses locked templates before calling this.
func (r *PgxTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM coa_template_accounts WHERE template_id = $1;`, templateID); err != nil {
		return apperrors.NewAppError(500, "failed to delete template account rows for "+templateID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM coa_templates WHERE template_id = $1;`, templateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
