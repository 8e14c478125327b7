package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// LedgerReaderSvc defines read operations over posted transactions.
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction with its entries.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of a fiscal year's transactions, date descending.
	ListTransactions(ctx context.Context, fiscalYearID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListEntriesByAccount retrieves a page of one account's entries within a fiscal year.
	ListEntriesByAccount(ctx context.Context, fiscalYearID, accountID string, params dto.ListTransactionsParams) (*dto.ListEntriesResponse, error)
}

// LedgerWriterSvc defines the posting operation.
type LedgerWriterSvc interface {
	// PostTransaction validates and atomically persists a balanced transaction,
	// applying per-account balance increments. Unbalanced entry sets are
	// rejected with apperrors.ErrUnbalanced before any write; posting to a
	// closed fiscal year fails with apperrors.ErrFiscalYearClosed.
	PostTransaction(ctx context.Context, fiscalYearID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
