package domain

// Organisation is a tenant entity. All accounts, fiscal years and transactions
// belong to exactly one organisation.
type Organisation struct {
	OrganisationID     string `json:"organisationID"` // Primary Key (UUID)
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	VATNumber          string `json:"vatNumber"`
	LogoRef            string `json:"logoRef,omitempty"` // Opaque reference to an uploaded logo; storage is external
	AccountingPlanID   string `json:"accountingPlanID"`  // FK -> ChartOfAccountsTemplate, the adopted chart of accounts
	AuditFields
}
