package domain

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents an authenticated user of the application.
// Authentication is a boundary concern; the ledger core never sees users
// beyond the audit fields on its entities.
type User struct {
	UserID       string       `json:"userID"` // Primary Key (UUID)
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Provider     AuthProvider `json:"provider"`
	PasswordHash string       `json:"-"` // bcrypt hash; empty for external providers
	AuditFields
}
