package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	"github.com/enkelbok/enkelbok/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction and entry data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction persists a transaction with its entries and applies the
// per-account balance increments, all within one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// 1. Insert the transaction header.
	txnQuery := `
		INSERT INTO transactions (
			transaction_id, fiscal_year_id, organisation_id, transaction_date, description, proof_ref,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, txnQuery,
		txn.TransactionID,
		txn.FiscalYearID,
		txn.OrganisationID,
		txn.TransactionDate,
		txn.Description,
		nullIfEmpty(txn.ProofRef),
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	// 2. Apply balance increments. The upsert takes a row lock, so concurrent
	// postings to the same account serialize instead of losing updates.
	balanceQuery := `
		INSERT INTO balances (fiscal_year_id, account_id, opening_amount, amount)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (fiscal_year_id, account_id)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount;
	`
	for accountID, delta := range balanceChanges {
		if _, err := tx.Exec(ctx, balanceQuery, txn.FiscalYearID, accountID, delta); err != nil {
			return apperrors.NewAppError(500, "failed to apply balance change for account "+accountID, err)
		}
	}

	// 3. Insert the entry lines as one batch.
	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO entries (
			entry_id, transaction_id, account_id, counter_account_id, entry_type, amount, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, entry := range entries {
		batch.Queue(entryQuery,
			entry.EntryID,
			entry.TransactionID,
			entry.AccountID,
			nullIfEmpty(entry.CounterAccountID),
			string(entry.EntryType),
			entry.Amount,
			nullIfEmpty(entry.Description),
			entry.CreatedAt,
			entry.CreatedBy,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry batch for transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

const transactionColumns = `transaction_id, fiscal_year_id, organisation_id, transaction_date, description, proof_ref,
       created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var proofRef sql.NullString
	err := row.Scan(
		&txn.TransactionID,
		&txn.FiscalYearID,
		&txn.OrganisationID,
		&txn.TransactionDate,
		&txn.Description,
		&proofRef,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.ProofRef = proofRef.String
	return txn, nil
}

const entryColumns = `entry_id, transaction_id, account_id, counter_account_id, entry_type, amount, description,
       created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var entry domain.Entry
	var counterAccountID, description sql.NullString
	var entryType string
	err := row.Scan(
		&entry.EntryID,
		&entry.TransactionID,
		&entry.AccountID,
		&counterAccountID,
		&entryType,
		&entry.Amount,
		&description,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.CounterAccountID = counterAccountID.String
	entry.Description = description.String
	entry.EntryType = domain.EntryType(entryType)
	return entry, nil
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	entries, err := r.findEntriesByTransactionIDs(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entries[transactionID]
	return &txn, nil
}

// findEntriesByTransactionIDs loads all entries of the given transactions,
// keyed by transaction ID, in entry creation order.
func (r *PgxTransactionRepository) findEntriesByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]domain.Entry, error) {
	if len(transactionIDs) == 0 {
		return map[string][]domain.Entry{}, nil
	}
	query := `SELECT ` + entryColumns + ` FROM entries WHERE transaction_id = ANY($1) ORDER BY created_at, entry_id;`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries", err)
	}
	defer rows.Close()

	entries := make(map[string][]domain.Entry, len(transactionIDs))
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries[entry.TransactionID] = append(entries[entry.TransactionID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}
	return entries, nil
}

// ListTransactionsByFiscalYear retrieves a page of transactions (with entries)
// for a fiscal year using token-based pagination, date descending.
func (r *PgxTransactionRepository) ListTransactionsByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE fiscal_year_id = $1
	`
	// Ordering must be stable; created_at breaks date ties.
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	args := []interface{}{fiscalYearID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (transaction_date, created_at) < ($2, $3) `
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for fiscal year "+fiscalYearID, err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, fetchLimit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		transactions = transactions[:limit]
	}

	ids := make([]string, len(transactions))
	for i, txn := range transactions {
		ids[i] = txn.TransactionID
	}
	entries, err := r.findEntriesByTransactionIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range transactions {
		transactions[i].Entries = entries[transactions[i].TransactionID]
	}

	return transactions, nextTokenVal, nil
}

// ListEntriesByAccount retrieves a page of one account's entries within a
// fiscal year using token-based pagination, date descending.
func (r *PgxTransactionRepository) ListEntriesByAccount(ctx context.Context, fiscalYearID, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT e.entry_id, e.transaction_id, e.account_id, e.counter_account_id, e.entry_type, e.amount, e.description,
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by, t.transaction_date
		FROM entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE t.fiscal_year_id = $1 AND e.account_id = $2
	`
	orderByClause := `ORDER BY t.transaction_date DESC, e.created_at DESC`

	args := []interface{}{fiscalYearID, accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (t.transaction_date, e.created_at) < ($3, $4) `
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0, fetchLimit)
	// The transaction date drives ordering; keep it per row for the cursor.
	transactionDates := make([]time.Time, 0, fetchLimit)
	for rows.Next() {
		var entry domain.Entry
		var counterAccountID, description sql.NullString
		var entryType string
		var transactionDate time.Time
		err := rows.Scan(
			&entry.EntryID,
			&entry.TransactionID,
			&entry.AccountID,
			&counterAccountID,
			&entryType,
			&entry.Amount,
			&description,
			&entry.CreatedAt,
			&entry.CreatedBy,
			&entry.LastUpdatedAt,
			&entry.LastUpdatedBy,
			&transactionDate,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for account "+accountID, err)
		}
		entry.CounterAccountID = counterAccountID.String
		entry.Description = description.String
		entry.EntryType = domain.EntryType(entryType)
		entries = append(entries, entry)
		transactionDates = append(transactionDates, transactionDate)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		token := pagination.EncodeToken(transactionDates[limit-1], entries[limit-1].CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return entries, nextTokenVal, nil
}

// FindTransactionsForLedger retrieves every transaction of a fiscal year with
// entries populated, for general ledger aggregation.
func (r *PgxTransactionRepository) FindTransactionsForLedger(ctx context.Context, fiscalYearID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE fiscal_year_id = $1
		ORDER BY transaction_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for fiscal year "+fiscalYearID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	rows.Close()

	ids := make([]string, len(transactions))
	for i, txn := range transactions {
		ids[i] = txn.TransactionID
	}
	entries, err := r.findEntriesByTransactionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range transactions {
		transactions[i].Entries = entries[transactions[i].TransactionID]
	}

	return transactions, nil
}
