package repositories

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// TemplateReader defines read operations for chart-of-accounts templates.
type TemplateReader interface {
	// FindTemplateByID retrieves a template with its account rows.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.ChartOfAccountsTemplate, error)

	// ListTemplates retrieves all templates (locked defaults and custom ones), name ascending.
	ListTemplates(ctx context.Context) ([]domain.ChartOfAccountsTemplate, error)
}

// TemplateWriter defines write operations for chart-of-accounts templates.
type TemplateWriter interface {
	// SaveTemplate persists a new template with its account rows.
	SaveTemplate(ctx context.Context, template domain.ChartOfAccountsTemplate) error

	// DeleteTemplate removes a custom template. Locked templates must be refused.
	DeleteTemplate(ctx context.Context, templateID string) error
}

// TemplateRepositoryFacade combines all template repository interfaces.
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}
