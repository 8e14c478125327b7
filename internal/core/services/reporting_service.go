package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService builds read-only reports from posted data. Aggregation is
// a pure fold over entries, so report output is independent of posting order.
type reportingService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	fiscalYearRepo  portsrepo.FiscalYearRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		transactionRepo: transactionRepo,
		fiscalYearRepo:  fiscalYearRepo,
		accountRepo:     accountRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// BuildGeneralLedger aggregates a fiscal year's entries per account into the
// huvudbok report. Implements portssvc.ReportingSvcFacade.
func (s *reportingService) BuildGeneralLedger(ctx context.Context, fiscalYearID string) (*domain.GeneralLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}

	txns, err := s.transactionRepo.FindTransactionsForLedger(ctx, fiscalYearID)
	if err != nil {
		logger.Error("Failed to fetch transactions for general ledger", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	balances, err := s.fiscalYearRepo.FindBalances(ctx, fiscalYearID)
	if err != nil {
		logger.Error("Failed to fetch balances for general ledger", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	openingByAccount := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		openingByAccount[b.AccountID] = b.OpeningAmount
	}

	accounts, err := s.accountRepo.ListAccountsByOrganisation(ctx, year.OrganisationID)
	if err != nil {
		logger.Error("Failed to fetch accounts for general ledger", slog.String("error", err.Error()), slog.String("organisation_id", year.OrganisationID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accountsByID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.AccountID] = a
	}

	ledger := &domain.GeneralLedger{
		FiscalYearID: fiscalYearID,
		Accounts:     make(map[string]*domain.LedgerAccountView),
	}

	view := func(accountID string) *domain.LedgerAccountView {
		v, ok := ledger.Accounts[accountID]
		if !ok {
			opening := openingByAccount[accountID] // zero unless seeded
			v = &domain.LedgerAccountView{
				AccountID:      accountID,
				OpeningBalance: opening,
				ClosingBalance: opening,
			}
			if acc, found := accountsByID[accountID]; found {
				v.AccountCode = acc.Code
				v.AccountName = acc.Name
			}
			ledger.Accounts[accountID] = v
		}
		return v
	}

	for _, txn := range txns {
		for _, e := range txn.Entries {
			v := view(e.AccountID)
			line := domain.LedgerLine{
				TransactionID: txn.TransactionID,
				Date:          txn.TransactionDate,
				Description:   txn.Description,
			}
			if e.EntryType == domain.Debit {
				line.Debit = e.Amount
			} else {
				line.Credit = e.Amount
			}
			v.Lines = append(v.Lines, line)
			v.ClosingBalance = v.ClosingBalance.Add(e.SignedAmount())
		}
	}

	// Date descending for display parity; the balances above are order
	// independent either way.
	for _, v := range ledger.Accounts {
		sort.SliceStable(v.Lines, func(i, j int) bool {
			return v.Lines[i].Date.After(v.Lines[j].Date)
		})
	}

	logger.Debug("General ledger built",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.Int("account_count", len(ledger.Accounts)),
		slog.Int("transaction_count", len(txns)))
	return ledger, nil
}

// TrialBalance lists every account's current balance within a fiscal year.
// Implements portssvc.ReportingSvcFacade.
func (s *reportingService) TrialBalance(ctx context.Context, fiscalYearID string) ([]domain.TrialBalanceRow, error) {
	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}

	balances, err := s.fiscalYearRepo.FindBalances(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}

	accounts, err := s.accountRepo.ListAccountsByOrganisation(ctx, year.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accountsByID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.AccountID] = a
	}

	rows := make([]domain.TrialBalanceRow, 0, len(balances))
	for _, b := range balances {
		row := domain.TrialBalanceRow{
			AccountID: b.AccountID,
			Balance:   b.Amount,
		}
		if acc, found := accountsByID[b.AccountID]; found {
			row.AccountCode = acc.Code
			row.AccountName = acc.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}
