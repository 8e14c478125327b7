package dto

import (
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// CreateAccountRequest is the payload for creating an ad hoc account.
type CreateAccountRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// UpdateAccountRequest is the payload for updating an account. A code change
// is rejected once the account is referenced by a posted entry.
type UpdateAccountRequest struct {
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// AdoptTemplateRequest selects the chart-of-accounts template whose rows
// become the organisation's accounts.
type AdoptTemplateRequest struct {
	TemplateID string `json:"templateID" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string    `json:"accountID"`
	OrganisationID string    `json:"organisationID"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	TemplateID     string    `json:"templateID,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		OrganisationID: a.OrganisationID,
		Code:           a.Code,
		Name:           a.Name,
		TemplateID:     a.TemplateID,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
