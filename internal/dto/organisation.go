package dto

import (
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
)

// CreateOrganisationRequest is the payload for creating an organisation.
type CreateOrganisationRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registrationNumber"`
	VATNumber          string `json:"vatNumber"`
	LogoRef            string `json:"logoRef"`
	AccountingPlanID   string `json:"accountingPlanID"`
}

// UpdateOrganisationRequest is the payload for updating an organisation in place.
// Nil fields are left unchanged.
type UpdateOrganisationRequest struct {
	Name               *string `json:"name,omitempty"`
	RegistrationNumber *string `json:"registrationNumber,omitempty"`
	VATNumber          *string `json:"vatNumber,omitempty"`
	LogoRef            *string `json:"logoRef,omitempty"`
}

// OrganisationResponse defines the data returned for an organisation.
type OrganisationResponse struct {
	OrganisationID     string    `json:"organisationID"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	VATNumber          string    `json:"vatNumber,omitempty"`
	LogoRef            string    `json:"logoRef,omitempty"`
	AccountingPlanID   string    `json:"accountingPlanID,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToOrganisationResponse converts a domain.Organisation to its response DTO.
func ToOrganisationResponse(o *domain.Organisation) OrganisationResponse {
	return OrganisationResponse{
		OrganisationID:     o.OrganisationID,
		Name:               o.Name,
		RegistrationNumber: o.RegistrationNumber,
		VATNumber:          o.VATNumber,
		LogoRef:            o.LogoRef,
		AccountingPlanID:   o.AccountingPlanID,
		CreatedAt:          o.CreatedAt,
	}
}

// ToOrganisationResponses converts a slice of domain organisations to response DTOs.
func ToOrganisationResponses(orgs []domain.Organisation) []OrganisationResponse {
	responses := make([]OrganisationResponse, len(orgs))
	for i := range orgs {
		responses[i] = ToOrganisationResponse(&orgs[i])
	}
	return responses
}
