package domain

// TemplateAccount is a single {code, name} row in a chart-of-accounts template.
type TemplateAccount struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ChartOfAccountsTemplate is a named, reusable list of account code/name pairs.
// Locked templates (the shipped defaults) cannot be modified or deleted.
type ChartOfAccountsTemplate struct {
	TemplateID string            `json:"templateID"` // Primary Key (UUID)
	Name       string            `json:"name"`
	IsLocked   bool              `json:"isLocked"`
	Accounts   []TemplateAccount `json:"accounts"`
	AuditFields
}
