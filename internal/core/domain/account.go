package domain

// Account represents a ledger account within an organisation's chart of accounts.
type Account struct {
	AccountID      string `json:"accountID"`      // Primary Key (UUID)
	OrganisationID string `json:"organisationID"` // FK -> Organisation (Not Null)
	Code           string `json:"code"`           // Account code, e.g. "1910"
	Name           string `json:"name"`
	TemplateID     string `json:"templateID,omitempty"` // Set when the account was created from a template
	IsActive       bool   `json:"isActive"`
	AuditFields
}
