package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// AccountSvcFacade defines account management operations for an organisation.
type AccountSvcFacade interface {
	// CreateAccount persists a single ad hoc account.
	CreateAccount(ctx context.Context, organisationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// AdoptTemplate creates the organisation's accounts from a chart-of-accounts
	// template's rows and records the template as the organisation's accounting plan.
	AdoptTemplate(ctx context.Context, organisationID string, req dto.AdoptTemplateRequest, creatorUserID string) ([]domain.Account, error)

	// GetAccount retrieves an account by its identifier.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all of an organisation's accounts ordered by code.
	ListAccounts(ctx context.Context, organisationID string) ([]domain.Account, error)

	// UpdateAccount applies the non-nil request fields. Code changes are
	// rejected once the account is referenced by a posted entry.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}
