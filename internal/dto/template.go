package dto

import (
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// TemplateAccountRequest is one {code, name} row of a new template.
type TemplateAccountRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateTemplateRequest is the payload for creating a custom chart-of-accounts template.
type CreateTemplateRequest struct {
	Name     string                   `json:"name" binding:"required"`
	Accounts []TemplateAccountRequest `json:"accounts" binding:"required,min=1,dive"`
}

// TemplateResponse defines the data returned for a chart-of-accounts template.
type TemplateResponse struct {
	TemplateID string                   `json:"templateID"`
	Name       string                   `json:"name"`
	IsLocked   bool                     `json:"isLocked"`
	Accounts   []domain.TemplateAccount `json:"accounts,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// ToTemplateResponse converts a domain template to its response DTO.
func ToTemplateResponse(t *domain.ChartOfAccountsTemplate) TemplateResponse {
	return TemplateResponse{
		TemplateID: t.TemplateID,
		Name:       t.Name,
		IsLocked:   t.IsLocked,
		Accounts:   t.Accounts,
		CreatedAt:  t.CreatedAt,
	}
}

// ToTemplateResponses converts a slice of domain templates to response DTOs.
func ToTemplateResponses(templates []domain.ChartOfAccountsTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses
}
