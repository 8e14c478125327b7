package repositories

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by account ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByOrganisation retrieves all accounts of an organisation ordered by code.
	ListAccountsByOrganisation(ctx context.Context, organisationID string) ([]domain.Account, error)

	// HasPostedEntries reports whether any transaction entry references the account.
	HasPostedEntries(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a single new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts persists a batch of new accounts, used when an organisation
	// adopts a chart-of-accounts template.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates an existing account's code, name and active flag.
	// The service layer guards code changes for accounts with posted entries.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
