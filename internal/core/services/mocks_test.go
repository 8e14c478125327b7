package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, entries, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByFiscalYear(ctx context.Context, fiscalYearID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, fiscalYearID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) ListEntriesByAccount(ctx context.Context, fiscalYearID, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, fiscalYearID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Entry), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionsForLedger(ctx context.Context, fiscalYearID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock FiscalYearRepository ---
type MockFiscalYearRepository struct {
	mock.Mock
}

// Ensure MockFiscalYearRepository implements portsrepo.FiscalYearRepositoryFacade
var _ portsrepo.FiscalYearRepositoryFacade = (*MockFiscalYearRepository)(nil)

func (m *MockFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) ListFiscalYearsByOrganisation(ctx context.Context, organisationID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, organisationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) FindMostRecentlyClosed(ctx context.Context, organisationID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, organisationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) FindOverlapping(ctx context.Context, organisationID string, start, end time.Time) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, organisationID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) FindBalances(ctx context.Context, fiscalYearID string) ([]domain.Balance, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

func (m *MockFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear, openingBalances []domain.Balance) error {
	args := m.Called(ctx, year, openingBalances)
	return args.Error(0)
}

func (m *MockFiscalYearRepository) CloseFiscalYear(ctx context.Context, fiscalYearID string, closedBy string, closedAt time.Time) error {
	args := m.Called(ctx, fiscalYearID, closedBy, closedAt)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOrganisation(ctx context.Context, organisationID string) ([]domain.Account, error) {
	args := m.Called(ctx, organisationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasPostedEntries(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock TemplateRepository ---
type MockTemplateRepository struct {
	mock.Mock
}

// Ensure MockTemplateRepository implements portsrepo.TemplateRepositoryFacade
var _ portsrepo.TemplateRepositoryFacade = (*MockTemplateRepository)(nil)

func (m *MockTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ChartOfAccountsTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccountsTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context) ([]domain.ChartOfAccountsTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccountsTemplate), args.Error(1)
}

func (m *MockTemplateRepository) SaveTemplate(ctx context.Context, template domain.ChartOfAccountsTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

// --- Mock OrganisationRepository ---
type MockOrganisationRepository struct {
	mock.Mock
}

// Ensure MockOrganisationRepository implements portsrepo.OrganisationRepositoryFacade
var _ portsrepo.OrganisationRepositoryFacade = (*MockOrganisationRepository)(nil)

func (m *MockOrganisationRepository) FindOrganisationByID(ctx context.Context, organisationID string) (*domain.Organisation, error) {
	args := m.Called(ctx, organisationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) ListOrganisations(ctx context.Context, limit int, offset int) ([]domain.Organisation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) SaveOrganisation(ctx context.Context, organisation domain.Organisation) error {
	args := m.Called(ctx, organisation)
	return args.Error(0)
}

func (m *MockOrganisationRepository) UpdateOrganisation(ctx context.Context, organisation domain.Organisation) error {
	args := m.Called(ctx, organisation)
	return args.Error(0)
}

func (m *MockOrganisationRepository) DeleteOrganisation(ctx context.Context, organisationID string) error {
	args := m.Called(ctx, organisationID)
	return args.Error(0)
}
