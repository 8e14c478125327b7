package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/core/services"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockOrgRepo      *MockOrganisationRepository
	mockTemplateRepo *MockTemplateRepository
	service          portssvc.AccountSvcFacade
	organisation     domain.Organisation
	userID           string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOrgRepo = new(MockOrganisationRepository)
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockOrgRepo, suite.mockTemplateRepo)

	suite.organisation = domain.Organisation{
		OrganisationID: uuid.NewString(),
		Name:           "Testbolaget AB",
	}
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1930", Name: "Företagskonto"}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByOrganisation", ctx, suite.organisation.OrganisationID).Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("1930", account.Code)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1930", Name: "Företagskonto"}

	existing := []domain.Account{{
		AccountID:      uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		Code:           "1930",
		Name:           "Bankkonto",
	}}
	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByOrganisation", ctx, suite.organisation.OrganisationID).Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestAdoptTemplate_CreatesAccountsAndRecordsPlan() {
	ctx := context.Background()
	template := &domain.ChartOfAccountsTemplate{
		TemplateID: uuid.NewString(),
		Name:       "BAS (minimal)",
		IsLocked:   true,
		Accounts: []domain.TemplateAccount{
			{Code: "1910", Name: "Kassa"},
			{Code: "3010", Name: "Försäljning"},
		},
	}
	req := dto.AdoptTemplateRequest{TemplateID: template.TemplateID}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockTemplateRepo.On("FindTemplateByID", ctx, template.TemplateID).Return(template, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByOrganisation", ctx, suite.organisation.OrganisationID).Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("SaveAccounts", ctx, mock.MatchedBy(func(accounts []domain.Account) bool {
		return len(accounts) == 2 &&
			accounts[0].Code == "1910" &&
			accounts[1].Code == "3010" &&
			accounts[0].TemplateID == template.TemplateID
	})).Return(nil).Once()
	suite.mockOrgRepo.On("UpdateOrganisation", ctx, mock.MatchedBy(func(org domain.Organisation) bool {
		return org.AccountingPlanID == template.TemplateID
	})).Return(nil).Once()

	accounts, err := suite.service.AdoptTemplate(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestAdoptTemplate_SkipsExistingCodes() {
	ctx := context.Background()
	template := &domain.ChartOfAccountsTemplate{
		TemplateID: uuid.NewString(),
		Name:       "BAS (minimal)",
		Accounts: []domain.TemplateAccount{
			{Code: "1910", Name: "Kassa"},
			{Code: "3010", Name: "Försäljning"},
		},
	}
	req := dto.AdoptTemplateRequest{TemplateID: template.TemplateID}

	// The organisation already has a 1910; only 3010 is created.
	existing := []domain.Account{{
		AccountID:      uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		Code:           "1910",
		Name:           "Kassa (custom)",
	}}
	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockTemplateRepo.On("FindTemplateByID", ctx, template.TemplateID).Return(template, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByOrganisation", ctx, suite.organisation.OrganisationID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("SaveAccounts", ctx, mock.MatchedBy(func(accounts []domain.Account) bool {
		return len(accounts) == 1 && accounts[0].Code == "3010"
	})).Return(nil).Once()
	suite.mockOrgRepo.On("UpdateOrganisation", ctx, mock.AnythingOfType("domain.Organisation")).Return(nil).Once()

	accounts, err := suite.service.AdoptTemplate(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Equal("3010", accounts[0].Code)
}

func (suite *AccountServiceTestSuite) TestAdoptTemplate_TemplateNotFound() {
	ctx := context.Background()
	templateID := uuid.NewString()
	req := dto.AdoptTemplateRequest{TemplateID: templateID}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockTemplateRepo.On("FindTemplateByID", ctx, templateID).Return(nil, apperrors.ErrNotFound).Once()

	accounts, err := suite.service.AdoptTemplate(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(accounts)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameWithoutPostings() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		Code:           "1910",
		Name:           "Kassa",
		IsActive:       true,
	}
	newCode := "1911"
	req := dto.UpdateAccountRequest{Code: &newCode}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasPostedEntries", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1911"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("1911", updated.Code)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeFrozenAfterPosting() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		Code:           "1910",
		Name:           "Kassa",
		IsActive:       true,
	}
	newCode := "1911"
	req := dto.UpdateAccountRequest{Code: &newCode}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasPostedEntries", ctx, account.AccountID).Return(true, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(updated)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_DeactivateKeepsCode() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		Code:           "1910",
		Name:           "Kassa",
		IsActive:       true,
	}
	inactive := false
	req := dto.UpdateAccountRequest{IsActive: &inactive}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return !a.IsActive && a.Code == "1910"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, account.AccountID, req, suite.userID)

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	// Deactivation does not touch the code, so no posted-entry check runs.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "HasPostedEntries", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
