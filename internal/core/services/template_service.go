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

// templateService implements chart-of-accounts template operations.
type templateService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo portsrepo.TemplateRepositoryFacade) portssvc.TemplateSvcFacade {
	return &templateService{templateRepo: templateRepo}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

// CreateTemplate persists a new custom template.
// Implements portssvc.TemplateSvcFacade.
func (s *templateService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.ChartOfAccountsTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	seen := make(map[string]struct{}, len(req.Accounts))
	accounts := make([]domain.TemplateAccount, len(req.Accounts))
	for i, row := range req.Accounts {
		if _, dup := seen[row.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate account code %s in template", apperrors.ErrValidation, row.Code)
		}
		seen[row.Code] = struct{}{}
		accounts[i] = domain.TemplateAccount{Code: row.Code, Name: row.Name}
	}

	now := time.Now().UTC()
	template := domain.ChartOfAccountsTemplate{
		TemplateID: uuid.NewString(),
		Name:       req.Name,
		IsLocked:   false,
		Accounts:   accounts,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Template created successfully", slog.String("template_id", template.TemplateID), slog.Int("account_count", len(accounts)))
	return &template, nil
}

// GetTemplate retrieves a template with its account rows.
// Implements portssvc.TemplateSvcFacade.
func (s *templateService) GetTemplate(ctx context.Context, templateID string) (*domain.ChartOfAccountsTemplate, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

// ListTemplates retrieves all templates, name ascending.
// Implements portssvc.TemplateSvcFacade.
func (s *templateService) ListTemplates(ctx context.Context) ([]domain.ChartOfAccountsTemplate, error) {
	templates, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// DeleteTemplate removes a custom template. Locked default templates are refused.
// Implements portssvc.TemplateSvcFacade.
func (s *templateService) DeleteTemplate(ctx context.Context, templateID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if template.IsLocked {
		return fmt.Errorf("%w: template %s is locked", apperrors.ErrForbidden, templateID)
	}

	if err := s.templateRepo.DeleteTemplate(ctx, templateID); err != nil {
		logger.Error("Failed to delete template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return fmt.Errorf("failed to delete template: %w", err)
	}

	logger.Info("Template deleted successfully", slog.String("template_id", templateID))
	return nil
}
