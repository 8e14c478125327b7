package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthConfig carries the signing and OAuth settings the auth service needs.
type AuthConfig struct {
	JWTSecret          string
	JWTExpiryDuration  time.Duration
	JWTIssuer          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// authService implements the authentication boundary: local users with bcrypt
// hashes and Google OAuth sign-in, both issuing HS256 bearer tokens.
type authService struct {
	userRepo    portsrepo.UserRepositoryFacade
	cfg         AuthConfig
	googleOAuth *oauth2.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, cfg AuthConfig) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		googleOAuth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates a local user with a bcrypt password hash.
// Implements portssvc.AuthSvcFacade.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check existing user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		Provider:     domain.ProviderLocal,
		PasswordHash: string(hash),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &dto.UserResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies local credentials and issues a signed bearer token.
// Implements portssvc.AuthSvcFacade.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password so callers cannot probe for accounts.
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
		}
		logger.Error("Failed to fetch user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user.Provider != domain.ProviderLocal {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	return s.issueToken(ctx, user)
}

// GoogleAuthURL returns the Google OAuth consent URL for the given CSRF state.
// Implements portssvc.AuthSvcFacade.
func (s *authService) GoogleAuthURL(state string) string {
	return s.googleOAuth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// googleUserInfo is the subset of Google's userinfo payload we consume.
type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLogin exchanges an OAuth authorization code, upserts the Google user,
// and issues a signed bearer token.
// Implements portssvc.AuthSvcFacade.
func (s *authService) GoogleLogin(ctx context.Context, code string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	token, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		logger.Warn("Google OAuth code exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: google code exchange failed", apperrors.ErrValidation)
	}

	resp, err := s.googleOAuth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch google user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: google account has no email", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if errors.Is(err, apperrors.ErrNotFound) {
		now := time.Now().UTC()
		newUser := domain.User{
			UserID:   uuid.NewString(),
			Email:    info.Email,
			Name:     info.Name,
			Provider: domain.ProviderGoogle,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
			logger.Error("Failed to save Google user", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to save user: %w", err)
		}
		user = &newUser
		logger.Info("Google user registered", slog.String("user_id", user.UserID))
	} else if err != nil {
		logger.Error("Failed to fetch user for Google login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return s.issueToken(ctx, user)
}

// issueToken signs an HS256 bearer token with the user ID as subject.
func (s *authService) issueToken(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.JWTExpiryDuration)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		Issuer:    s.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User: dto.UserResponse{
			UserID:    user.UserID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
