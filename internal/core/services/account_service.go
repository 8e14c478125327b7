package services

import (
	"context"
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
)

// accountService implements account management for organisations.
type accountService struct {
	accountRepo      portsrepo.AccountRepositoryFacade
	organisationRepo portsrepo.OrganisationRepositoryFacade
	templateRepo     portsrepo.TemplateRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	organisationRepo portsrepo.OrganisationRepositoryFacade,
	templateRepo portsrepo.TemplateRepositoryFacade,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:      accountRepo,
		organisationRepo: organisationRepo,
		templateRepo:     templateRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a single ad hoc account.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAccount(ctx context.Context, organisationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID); err != nil {
		return nil, fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}

	existing, err := s.accountRepo.ListAccountsByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, a := range existing {
		if a.Code == req.Code {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganisationID: organisationID,
		Code:           req.Code,
		Name:           req.Name,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// AdoptTemplate creates the organisation's accounts from a template's rows and
// records the template as the organisation's accounting plan.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) AdoptTemplate(ctx context.Context, organisationID string, req dto.AdoptTemplateRequest, creatorUserID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, err := s.organisationRepo.FindOrganisationByID(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organisation %s: %w", organisationID, err)
	}

	template, err := s.templateRepo.FindTemplateByID(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", req.TemplateID, err)
	}

	existing, err := s.accountRepo.ListAccountsByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	existingCodes := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		existingCodes[a.Code] = struct{}{}
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	// Rows whose code the organisation already has are skipped, so adopting
	// a template is additive and repeatable.
	accounts := make([]domain.Account, 0, len(template.Accounts))
	for _, row := range template.Accounts {
		if _, taken := existingCodes[row.Code]; taken {
			continue
		}
		accounts = append(accounts, domain.Account{
			AccountID:      uuid.NewString(),
			OrganisationID: organisationID,
			Code:           row.Code,
			Name:           row.Name,
			TemplateID:     template.TemplateID,
			IsActive:       true,
			AuditFields:    audit,
		})
	}

	if len(accounts) > 0 {
		if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
			logger.Error("Failed to save accounts from template", slog.String("error", err.Error()), slog.String("template_id", req.TemplateID))
			return nil, fmt.Errorf("failed to save accounts: %w", err)
		}
	}

	if org.AccountingPlanID != template.TemplateID {
		org.AccountingPlanID = template.TemplateID
		org.LastUpdatedAt = now
		org.LastUpdatedBy = creatorUserID
		if err := s.organisationRepo.UpdateOrganisation(ctx, *org); err != nil {
			logger.Error("Failed to record accounting plan on organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
			return nil, fmt.Errorf("failed to update organisation accounting plan: %w", err)
		}
	}

	logger.Info("Template adopted successfully",
		slog.String("organisation_id", organisationID),
		slog.String("template_id", template.TemplateID),
		slog.Int("accounts_created", len(accounts)))
	return accounts, nil
}

// GetAccount retrieves an account by its identifier.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves all of an organisation's accounts ordered by code.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) ListAccounts(ctx context.Context, organisationID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies the non-nil request fields. An account referenced by a
// posted entry keeps its code forever.
// Implements portssvc.AccountSvcFacade.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	updated := false
	if req.Code != nil && *req.Code != account.Code {
		posted, err := s.accountRepo.HasPostedEntries(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check posted entries: %w", err)
		}
		if posted {
			return nil, fmt.Errorf("%w: account %s is referenced by posted entries and its code cannot change", apperrors.ErrValidation, accountID)
		}
		account.Code = *req.Code
		updated = true
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}
