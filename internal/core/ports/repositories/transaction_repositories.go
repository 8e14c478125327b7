package repositories

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByFiscalYear retrieves a page of transactions (with entries)
	// for a fiscal year using token-based pagination, date descending.
	ListTransactionsByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListEntriesByAccount retrieves a page of entries for one account within a
	// fiscal year using token-based pagination, date descending.
	ListEntriesByAccount(ctx context.Context, fiscalYearID, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// FindTransactionsForLedger retrieves every transaction of a fiscal year with
	// entries populated, for general ledger aggregation.
	FindTransactionsForLedger(ctx context.Context, fiscalYearID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a transaction with its entries and applies the
	// per-account balance increments, all within one database transaction.
	// Balance rows are locked (or upserted) so concurrent postings to the same
	// account cannot lose updates. Nothing is written when any step fails.
	SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry, balanceChanges map[string]decimal.Decimal) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
