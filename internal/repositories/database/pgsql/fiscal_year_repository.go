package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
)

type PgxFiscalYearRepository struct {
	BaseRepository
}

// newPgxFiscalYearRepository creates a new repository for fiscal year and balance data.
func newPgxFiscalYearRepository(pool *pgxpool.Pool) portsrepo.FiscalYearRepositoryFacade {
	return &PgxFiscalYearRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FiscalYearRepositoryFacade = (*PgxFiscalYearRepository)(nil)

const fiscalYearColumns = `fiscal_year_id, organisation_id, start_date, end_date, is_closed,
       created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalYear(row pgx.Row) (domain.FiscalYear, error) {
	var year domain.FiscalYear
	err := row.Scan(
		&year.FiscalYearID,
		&year.OrganisationID,
		&year.StartDate,
		&year.EndDate,
		&year.IsClosed,
		&year.CreatedAt,
		&year.CreatedBy,
		&year.LastUpdatedAt,
		&year.LastUpdatedBy,
	)
	return year, err
}

// SaveFiscalYear persists a new fiscal year together with its seeded opening
// balances within one database transaction.
func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear, openingBalances []domain.Balance) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	yearQuery := `
		INSERT INTO fiscal_years (
			fiscal_year_id, organisation_id, start_date, end_date, is_closed,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, yearQuery,
		year.FiscalYearID,
		year.OrganisationID,
		year.StartDate,
		year.EndDate,
		year.IsClosed,
		year.CreatedAt,
		year.CreatedBy,
		year.LastUpdatedAt,
		year.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert fiscal year "+year.FiscalYearID, err)
	}

	batch := &pgx.Batch{}
	balanceQuery := `
		INSERT INTO balances (fiscal_year_id, account_id, opening_amount, amount)
		VALUES ($1, $2, $3, $4);
	`
	for _, balance := range openingBalances {
		batch.Queue(balanceQuery, balance.FiscalYearID, balance.AccountID, balance.OpeningAmount, balance.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert opening balances for fiscal year "+year.FiscalYearID, err)
	}

	return r.Commit(ctx, tx)
}

// FindFiscalYearByID retrieves a fiscal year by its ID.
func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1;`
	year, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal year by ID "+fiscalYearID, err)
	}
	return &year, nil
}

// ListFiscalYearsByOrganisation retrieves an organisation's fiscal years, newest span first.
func (r *PgxFiscalYearRepository) ListFiscalYearsByOrganisation(ctx context.Context, organisationID string) ([]domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE organisation_id = $1 ORDER BY start_date DESC;`
	rows, err := r.Pool.Query(ctx, query, organisationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal years for organisation "+organisationID, err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		year, err := scanFiscalYear(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal year row", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal year rows", err)
	}
	return years, nil
}

// FindMostRecentlyClosed retrieves the closed fiscal year with the latest end date.
func (r *PgxFiscalYearRepository) FindMostRecentlyClosed(ctx context.Context, organisationID string) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE organisation_id = $1 AND is_closed = TRUE
		ORDER BY end_date DESC
		LIMIT 1;
	`
	year, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, organisationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find most recently closed fiscal year for organisation "+organisationID, err)
	}
	return &year, nil
}

// FindOverlapping retrieves fiscal years whose span intersects [start, end].
func (r *PgxFiscalYearRepository) FindOverlapping(ctx context.Context, organisationID string, start, end time.Time) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE organisation_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, organisationID, start, end)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overlapping fiscal years for organisation "+organisationID, err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		year, err := scanFiscalYear(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal year row", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal year rows", err)
	}
	return years, nil
}

// FindBalances retrieves all balance records of a fiscal year ordered by account code.
func (r *PgxFiscalYearRepository) FindBalances(ctx context.Context, fiscalYearID string) ([]domain.Balance, error) {
	query := `
		SELECT b.fiscal_year_id, b.account_id, b.opening_amount, b.amount
		FROM balances b
		JOIN accounts a ON b.account_id = a.account_id
		WHERE b.fiscal_year_id = $1
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query balances for fiscal year "+fiscalYearID, err)
	}
	defer rows.Close()

	balances := []domain.Balance{}
	for rows.Next() {
		var balance domain.Balance
		err := rows.Scan(&balance.FiscalYearID, &balance.AccountID, &balance.OpeningAmount, &balance.Amount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan balance row", err)
		}
		balances = append(balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating balance rows", err)
	}
	return balances, nil
}

// CloseFiscalYear marks a fiscal year closed. The conditional UPDATE makes the
// close idempotent-safe under concurrency: the second closer matches no row
// and gets ErrAlreadyClosed.
func (r *PgxFiscalYearRepository) CloseFiscalYear(ctx context.Context, fiscalYearID string, closedBy string, closedAt time.Time) error {
	query := `
		UPDATE fiscal_years
		SET is_closed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, fiscalYearID, closedAt, closedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close fiscal year "+fiscalYearID, err)
	}
	if tag.RowsAffected() == 0 {
		var isClosed bool
		err := r.Pool.QueryRow(ctx, `SELECT is_closed FROM fiscal_years WHERE fiscal_year_id = $1;`, fiscalYearID).Scan(&isClosed)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to check fiscal year "+fiscalYearID, err)
		}
		if isClosed {
			return apperrors.ErrAlreadyClosed
		}
		return apperrors.NewAppError(500, "close of fiscal year "+fiscalYearID+" matched no row", nil)
	}
	return nil
}
