package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// TemplateSvcFacade defines chart-of-accounts template operations.
type TemplateSvcFacade interface {
	// CreateTemplate persists a new custom template.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.ChartOfAccountsTemplate, error)

	// GetTemplate retrieves a template with its account rows.
	GetTemplate(ctx context.Context, templateID string) (*domain.ChartOfAccountsTemplate, error)

	// ListTemplates retrieves all templates, name ascending.
	ListTemplates(ctx context.Context) ([]domain.ChartOfAccountsTemplate, error)

	// DeleteTemplate removes a custom template. Locked default templates are
	// refused with apperrors.ErrForbidden.
	DeleteTemplate(ctx context.Context, templateID string) error
}
