package services

import (
	"context"

	"github.com/enkelbok/enkelbok/internal/dto"
)

// AuthSvcFacade is the authentication boundary. It is a collaborator of the
// ledger core, not part of it: the core only ever sees user IDs.
type AuthSvcFacade interface {
	// Register creates a local user with a bcrypt password hash.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)

	// Login verifies local credentials and issues a signed bearer token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// GoogleAuthURL returns the Google OAuth consent URL for the given CSRF state.
	GoogleAuthURL(state string) string

	// GoogleLogin exchanges an OAuth authorization code, upserts the Google
	// user, and issues a signed bearer token.
	GoogleLogin(ctx context.Context, code string) (*dto.LoginResponse, error)
}
