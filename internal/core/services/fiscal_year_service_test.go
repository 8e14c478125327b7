package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/core/services"
	"github.com/enkelbok/enkelbok/internal/dto"
)

// --- Test Suite Setup ---
type FiscalYearServiceTestSuite struct {
	suite.Suite
	mockFYRepo   *MockFiscalYearRepository
	mockOrgRepo  *MockOrganisationRepository
	service      portssvc.FiscalYearSvcFacade
	organisation domain.Organisation
	userID       string
}

func (suite *FiscalYearServiceTestSuite) SetupTest() {
	suite.mockFYRepo = new(MockFiscalYearRepository)
	suite.mockOrgRepo = new(MockOrganisationRepository)
	suite.service = services.NewFiscalYearService(suite.mockFYRepo, suite.mockOrgRepo)

	suite.organisation = domain.Organisation{
		OrganisationID: uuid.NewString(),
		Name:           "Testbolaget AB",
	}
	suite.userID = uuid.NewString()
}

func yearSpan(year int) (time.Time, time.Time) {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

// --- Test Cases ---

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_FirstYearZeroBalances() {
	ctx := context.Background()
	start, end := yearSpan(2025)
	req := dto.CreateFiscalYearRequest{StartDate: start, EndDate: end}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockFYRepo.On("FindOverlapping", ctx, suite.organisation.OrganisationID, start, end).Return([]domain.FiscalYear{}, nil).Once()
	// No closed predecessor, so the year starts with no seeded balances.
	suite.mockFYRepo.On("FindMostRecentlyClosed", ctx, suite.organisation.OrganisationID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFYRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear"), mock.MatchedBy(func(balances []domain.Balance) bool {
		return len(balances) == 0
	})).Return(nil).Once()

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(year)
	suite.NotEmpty(year.FiscalYearID)
	suite.Equal(suite.organisation.OrganisationID, year.OrganisationID)
	suite.False(year.IsClosed)
	suite.Equal(suite.userID, year.CreatedBy)

	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockFYRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_RollsForwardClosedBalances() {
	ctx := context.Background()
	start, end := yearSpan(2026)
	req := dto.CreateFiscalYearRequest{StartDate: start, EndDate: end}

	prevStart, prevEnd := yearSpan(2025)
	previous := &domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		StartDate:      prevStart,
		EndDate:        prevEnd,
		IsClosed:       true,
	}
	accountID := uuid.NewString()
	prevBalances := []domain.Balance{{
		FiscalYearID:  previous.FiscalYearID,
		AccountID:     accountID,
		OpeningAmount: decimal.NewFromInt(500),
		Amount:        decimal.NewFromInt(1200),
	}}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockFYRepo.On("FindOverlapping", ctx, suite.organisation.OrganisationID, start, end).Return([]domain.FiscalYear{}, nil).Once()
	suite.mockFYRepo.On("FindMostRecentlyClosed", ctx, suite.organisation.OrganisationID).Return(previous, nil).Once()
	suite.mockFYRepo.On("FindBalances", ctx, previous.FiscalYearID).Return(prevBalances, nil).Once()
	// The closing amount of the prior year, not its opening amount, becomes
	// both the opening and current amount of the new year.
	suite.mockFYRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear"), mock.MatchedBy(func(balances []domain.Balance) bool {
		return len(balances) == 1 &&
			balances[0].AccountID == accountID &&
			balances[0].OpeningAmount.Equal(decimal.NewFromInt(1200)) &&
			balances[0].Amount.Equal(decimal.NewFromInt(1200))
	})).Return(nil).Once()

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(year)
	suite.mockFYRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_ExplicitStartingBalances() {
	ctx := context.Background()
	start, end := yearSpan(2025)
	accountID := uuid.NewString()
	req := dto.CreateFiscalYearRequest{
		StartDate: start,
		EndDate:   end,
		StartingBalances: map[string]decimal.Decimal{
			accountID: decimal.NewFromInt(300),
		},
	}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockFYRepo.On("FindOverlapping", ctx, suite.organisation.OrganisationID, start, end).Return([]domain.FiscalYear{}, nil).Once()
	suite.mockFYRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear"), mock.MatchedBy(func(balances []domain.Balance) bool {
		return len(balances) == 1 &&
			balances[0].AccountID == accountID &&
			balances[0].OpeningAmount.Equal(decimal.NewFromInt(300))
	})).Return(nil).Once()

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(year)
	// Explicit balances must not trigger the roll-forward lookup.
	suite.mockFYRepo.AssertNotCalled(suite.T(), "FindMostRecentlyClosed", mock.Anything, mock.Anything)
	suite.mockFYRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_StartNotBeforeEnd() {
	ctx := context.Background()
	start, _ := yearSpan(2025)
	req := dto.CreateFiscalYearRequest{StartDate: start, EndDate: start}

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(year)
	suite.mockFYRepo.AssertNotCalled(suite.T(), "SaveFiscalYear", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_Overlap() {
	ctx := context.Background()
	start, end := yearSpan(2025)
	req := dto.CreateFiscalYearRequest{StartDate: start, EndDate: end}

	existing := domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		StartDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(&suite.organisation, nil).Once()
	suite.mockFYRepo.On("FindOverlapping", ctx, suite.organisation.OrganisationID, start, end).Return([]domain.FiscalYear{existing}, nil).Once()

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverlap)
	suite.Nil(year)
	suite.mockFYRepo.AssertNotCalled(suite.T(), "SaveFiscalYear", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestOpenFiscalYear_OrganisationNotFound() {
	ctx := context.Background()
	start, end := yearSpan(2025)
	req := dto.CreateFiscalYearRequest{StartDate: start, EndDate: end}

	suite.mockOrgRepo.On("FindOrganisationByID", ctx, suite.organisation.OrganisationID).Return(nil, apperrors.ErrNotFound).Once()

	year, err := suite.service.OpenFiscalYear(ctx, suite.organisation.OrganisationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(year)
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_Success() {
	ctx := context.Background()
	start, end := yearSpan(2025)
	year := &domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		StartDate:      start,
		EndDate:        end,
		IsClosed:       false,
	}
	finalBalances := []domain.Balance{{
		FiscalYearID: year.FiscalYearID,
		AccountID:    uuid.NewString(),
		Amount:       decimal.NewFromInt(810),
	}}

	suite.mockFYRepo.On("FindFiscalYearByID", ctx, year.FiscalYearID).Return(year, nil).Once()
	suite.mockFYRepo.On("CloseFiscalYear", ctx, year.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFYRepo.On("FindBalances", ctx, year.FiscalYearID).Return(finalBalances, nil).Once()

	closed, err := suite.service.CloseFiscalYear(ctx, year.FiscalYearID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(closed)
	suite.True(closed.FiscalYear.IsClosed)
	suite.Equal(suite.userID, closed.FiscalYear.LastUpdatedBy)
	suite.Len(closed.FinalBalances, 1)
	suite.True(closed.FinalBalances[0].Amount.Equal(decimal.NewFromInt(810)))
	suite.mockFYRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_AlreadyClosed() {
	ctx := context.Background()
	year := &domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		IsClosed:       true,
	}
	suite.mockFYRepo.On("FindFiscalYearByID", ctx, year.FiscalYearID).Return(year, nil).Once()

	closed, err := suite.service.CloseFiscalYear(ctx, year.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyClosed)
	suite.Nil(closed)
	suite.mockFYRepo.AssertNotCalled(suite.T(), "CloseFiscalYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_LostRaceToClose() {
	ctx := context.Background()
	year := &domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
		IsClosed:       false,
	}
	// The year looked open, but another request closed it first; the
	// repository's conditional update reports that.
	suite.mockFYRepo.On("FindFiscalYearByID", ctx, year.FiscalYearID).Return(year, nil).Once()
	suite.mockFYRepo.On("CloseFiscalYear", ctx, year.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrAlreadyClosed).Once()

	closed, err := suite.service.CloseFiscalYear(ctx, year.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyClosed)
	suite.Nil(closed)
}

func (suite *FiscalYearServiceTestSuite) TestListBalances() {
	ctx := context.Background()
	year := &domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganisationID: suite.organisation.OrganisationID,
	}
	balances := []domain.Balance{{
		FiscalYearID:  year.FiscalYearID,
		AccountID:     uuid.NewString(),
		OpeningAmount: decimal.NewFromInt(100),
		Amount:        decimal.NewFromInt(250),
	}}
	suite.mockFYRepo.On("FindFiscalYearByID", ctx, year.FiscalYearID).Return(year, nil).Once()
	suite.mockFYRepo.On("FindBalances", ctx, year.FiscalYearID).Return(balances, nil).Once()

	result, err := suite.service.ListBalances(ctx, year.FiscalYearID)

	suite.Require().NoError(err)
	suite.Equal(balances, result)
}

func TestFiscalYearServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalYearServiceTestSuite))
}
