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
	"github.com/enkelbok/enkelbok/internal/utils/accounting"
)

// ledgerService implements transaction posting and reads. Posting is the one
// write path of the ledger: validate, check the fiscal year, then hand the
// transaction plus balance deltas to the repository as a single atomic unit.
type ledgerService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	fiscalYearRepo  portsrepo.FiscalYearRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		transactionRepo: transactionRepo,
		fiscalYearRepo:  fiscalYearRepo,
		accountRepo:     accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateCounterEntries checks mirrored pairs: every entry naming a counter
// account must have a matching entry on that account with the opposite type
// and the identical amount.
func validateCounterEntries(entries []domain.Entry) error {
	for _, e := range entries {
		if e.CounterAccountID == "" {
			continue
		}
		found := false
		for _, counter := range entries {
			if counter.AccountID != e.CounterAccountID {
				continue
			}
			if err := accounting.ValidateEntryPair(e, counter); err == nil {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: no mirrored counter entry on account %s for entry on account %s",
				apperrors.ErrValidation, e.CounterAccountID, e.AccountID)
		}
	}
	return nil
}

// PostTransaction validates and atomically persists a balanced transaction.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) PostTransaction(ctx context.Context, fiscalYearID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
	}

	entries, err := req.ToEntries()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := accounting.ValidateEntries(entries); err != nil {
		return nil, err
	}
	if err := validateCounterEntries(entries); err != nil {
		return nil, err
	}

	// The fundamental double-entry invariant, checked before any write.
	if !accounting.IsBalanced(entries) {
		debits, credits := accounting.SumEntries(entries)
		return nil, fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalanced, debits.String(), credits.String())
	}

	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch fiscal year for posting", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %s", apperrors.ErrFiscalYearClosed, fiscalYearID)
	}

	// Every referenced account must exist, belong to the year's organisation
	// and be active.
	accountIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		accountIDs = append(accountIDs, e.AccountID)
	}
	uniqueAccountIDs := uniqueStrings(accountIDs)

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.OrganisationID != year.OrganisationID {
			logger.Warn("Account used in transaction belongs to a different organisation",
				slog.String("account_id", id),
				slog.String("account_organisation", acc.OrganisationID),
				slog.String("year_organisation", year.OrganisationID))
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	domainEntries := make([]domain.Entry, len(entries))
	for i, e := range entries {
		e.EntryID = uuid.NewString()
		e.TransactionID = transactionID
		e.AuditFields = audit
		domainEntries[i] = e
	}

	txn := domain.Transaction{
		TransactionID:   transactionID,
		FiscalYearID:    fiscalYearID,
		OrganisationID:  year.OrganisationID,
		TransactionDate: req.Date,
		Description:     req.Description,
		ProofRef:        req.ProofRef,
		AuditFields:     audit,
	}

	// +amount for debits, -amount for credits, folded per account.
	balanceChanges := accounting.BalanceChanges(domainEntries)

	if err := s.transactionRepo.SaveTransaction(ctx, txn, domainEntries, balanceChanges); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction posted successfully",
		slog.String("transaction_id", transactionID),
		slog.String("fiscal_year_id", fiscalYearID),
		slog.Int("entry_count", len(domainEntries)))

	txn.Entries = domainEntries
	return &txn, nil
}

// GetTransaction retrieves a transaction with its entries.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a page of a fiscal year's transactions.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListTransactions(ctx context.Context, fiscalYearID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.transactionRepo.ListTransactionsByFiscalYear(ctx, fiscalYearID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions from repository", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}

	logger.Debug("Transactions listed successfully", slog.Int("count", len(txns)), slog.String("fiscal_year_id", fiscalYearID))
	return resp, nil
}

// ListEntriesByAccount retrieves a page of one account's entries within a fiscal year.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, fiscalYearID, accountID string, params dto.ListTransactionsParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.transactionRepo.ListEntriesByAccount(ctx, fiscalYearID, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries by account from repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
