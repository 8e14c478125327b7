package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/core/services"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

// Ensure MockUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
	cfg          services.AuthConfig
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.cfg = services.AuthConfig{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "enkelbok-test",
	}
	suite.service = services.NewAuthService(suite.mockUserRepo, suite.cfg)
}

// --- Test Cases ---

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "anna@example.com",
		Name:     "Anna Andersson",
		Password: "correct horse battery",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		// The stored hash must verify against the supplied password and never
		// contain the password itself.
		return user.Email == req.Email &&
			user.Provider == domain.ProviderLocal &&
			user.PasswordHash != req.Password &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) == nil
	})).Return(nil).Once()

	resp, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.UserID)
	suite.Equal(req.Email, resp.Email)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Email: "anna@example.com", Name: "Anna", Password: "password123"}

	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email, Provider: domain.ProviderLocal}
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	resp, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(resp)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	password := "correct horse battery"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "anna@example.com",
		Name:         "Anna Andersson",
		Provider:     domain.ProviderLocal,
		PasswordHash: string(hash),
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: password})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.Token)
	suite.Equal(user.UserID, resp.User.UserID)

	// The token must verify with the configured secret and carry the user as subject.
	parsed, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(suite.cfg.JWTSecret), nil
	})
	suite.Require().NoError(err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal(suite.cfg.JWTIssuer, claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("the real password"), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "anna@example.com",
		Provider:     domain.ProviderLocal,
		PasswordHash: string(hash),
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "a guess"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailSameError() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	suite.Require().Error(err)
	// Indistinguishable from a wrong password.
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(resp)
}

func (suite *AuthServiceTestSuite) TestLogin_GoogleUserCannotUsePassword() {
	ctx := context.Background()
	user := &domain.User{
		UserID:   uuid.NewString(),
		Email:    "anna@example.com",
		Provider: domain.ProviderGoogle,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "whatever"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
}

func (suite *AuthServiceTestSuite) TestGoogleAuthURL_CarriesState() {
	url := suite.service.GoogleAuthURL("csrf-state-token")
	suite.Contains(url, "state=csrf-state-token")
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
