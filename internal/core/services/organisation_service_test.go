package services_test

import (
	"context"
	"testing"
	"time"

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
type OrganisationServiceTestSuite struct {
	suite.Suite
	mockOrgRepo      *MockOrganisationRepository
	mockFYRepo       *MockFiscalYearRepository
	mockTemplateRepo *MockTemplateRepository
	service          portssvc.OrganisationSvcFacade
	userID           string
}

func (suite *OrganisationServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganisationRepository)
	suite.mockFYRepo = new(MockFiscalYearRepository)
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.service = services.NewOrganisationService(suite.mockOrgRepo, suite.mockFYRepo, suite.mockTemplateRepo)
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *OrganisationServiceTestSuite) TestCreateOrganisation_Success() {
	ctx := context.Background()
	req := dto.CreateOrganisationRequest{
		Name:               "Testbolaget AB",
		RegistrationNumber: "556677-8899",
		VATNumber:          "SE556677889901",
	}

	suite.mockOrgRepo.On("SaveOrganisation", ctx, mock.AnythingOfType("domain.Organisation")).Return(nil).Once()

	org, err := suite.service.CreateOrganisation(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(org)
	suite.NotEmpty(org.OrganisationID)
	suite.Equal(req.Name, org.Name)
	suite.Equal(req.RegistrationNumber, org.RegistrationNumber)
	suite.Equal(suite.userID, org.CreatedBy)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganisationServiceTestSuite) TestCreateOrganisation_WithAccountingPlan() {
	ctx := context.Background()
	template := &domain.ChartOfAccountsTemplate{TemplateID: uuid.NewString(), Name: "BAS (minimal)"}
	req := dto.CreateOrganisationRequest{Name: "Testbolaget AB", AccountingPlanID: template.TemplateID}

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, template.TemplateID).Return(template, nil).Once()
	suite.mockOrgRepo.On("SaveOrganisation", ctx, mock.MatchedBy(func(org domain.Organisation) bool {
		return org.AccountingPlanID == template.TemplateID
	})).Return(nil).Once()

	org, err := suite.service.CreateOrganisation(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(template.TemplateID, org.AccountingPlanID)
}

func (suite *OrganisationServiceTestSuite) TestCreateOrganisation_UnknownAccountingPlan() {
	ctx := context.Background()
	req := dto.CreateOrganisationRequest{Name: "Testbolaget AB", AccountingPlanID: uuid.NewString()}

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, req.AccountingPlanID).Return(nil, apperrors.ErrNotFound).Once()

	org, err := suite.service.CreateOrganisation(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(org)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "SaveOrganisation", mock.Anything, mock.Anything)
}

func (suite *OrganisationServiceTestSuite) TestUpdateOrganisation_PartialUpdate() {
	ctx := context.Background()
	org := &domain.Organisation{
		OrganisationID:     uuid.NewString(),
		Name:               "Gamla namnet AB",
		RegistrationNumber: "556677-8899",
	}
	newName := "Nya namnet AB"
	req := dto.UpdateOrganisationRequest{Name: &newName}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, org.OrganisationID).Return(org, nil).Once()
	suite.mockOrgRepo.On("UpdateOrganisation", ctx, mock.MatchedBy(func(updated domain.Organisation) bool {
		return updated.Name == newName && updated.RegistrationNumber == "556677-8899"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateOrganisation(ctx, org.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganisationServiceTestSuite) TestUpdateOrganisation_NoFieldsNoWrite() {
	ctx := context.Background()
	org := &domain.Organisation{OrganisationID: uuid.NewString(), Name: "Testbolaget AB"}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, org.OrganisationID).Return(org, nil).Once()

	updated, err := suite.service.UpdateOrganisation(ctx, org.OrganisationID, dto.UpdateOrganisationRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(org, updated)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "UpdateOrganisation", mock.Anything, mock.Anything)
}

func (suite *OrganisationServiceTestSuite) TestDeleteOrganisation_Success() {
	ctx := context.Background()
	org := &domain.Organisation{OrganisationID: uuid.NewString(), Name: "Testbolaget AB"}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, org.OrganisationID).Return(org, nil).Once()
	suite.mockFYRepo.On("ListFiscalYearsByOrganisation", ctx, org.OrganisationID).Return([]domain.FiscalYear{}, nil).Once()
	suite.mockOrgRepo.On("DeleteOrganisation", ctx, org.OrganisationID).Return(nil).Once()

	err := suite.service.DeleteOrganisation(ctx, org.OrganisationID)

	suite.Require().NoError(err)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganisationServiceTestSuite) TestDeleteOrganisation_BlockedByFiscalYears() {
	ctx := context.Background()
	org := &domain.Organisation{OrganisationID: uuid.NewString(), Name: "Testbolaget AB"}
	years := []domain.FiscalYear{{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: org.OrganisationID,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, org.OrganisationID).Return(org, nil).Once()
	suite.mockFYRepo.On("ListFiscalYearsByOrganisation", ctx, org.OrganisationID).Return(years, nil).Once()

	err := suite.service.DeleteOrganisation(ctx, org.OrganisationID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "DeleteOrganisation", mock.Anything, mock.Anything)
}

func (suite *OrganisationServiceTestSuite) TestDeleteOrganisation_NotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, orgID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteOrganisation(ctx, orgID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestOrganisationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganisationServiceTestSuite))
}
