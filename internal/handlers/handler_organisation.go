package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

// organisationHandler handles HTTP requests related to organisations.
type organisationHandler struct {
	organisationService portssvc.OrganisationSvcFacade
	accountService      portssvc.AccountSvcFacade
	fiscalYearService   portssvc.FiscalYearSvcFacade
}

// newOrganisationHandler creates a new organisationHandler.
func newOrganisationHandler(
	organisationService portssvc.OrganisationSvcFacade,
	accountService portssvc.AccountSvcFacade,
	fiscalYearService portssvc.FiscalYearSvcFacade,
) *organisationHandler {
	return &organisationHandler{
		organisationService: organisationService,
		accountService:      accountService,
		fiscalYearService:   fiscalYearService,
	}
}

// registerOrganisationRoutes registers organisation routes and the nested
// account and fiscal year collections.
func registerOrganisationRoutes(
	group *gin.RouterGroup,
	organisationService portssvc.OrganisationSvcFacade,
	accountService portssvc.AccountSvcFacade,
	fiscalYearService portssvc.FiscalYearSvcFacade,
) {
	h := newOrganisationHandler(organisationService, accountService, fiscalYearService)

	organisations := group.Group("/organisations")
	{
		organisations.POST("", h.createOrganisation)
		organisations.GET("", h.listOrganisations)
		organisations.GET("/:organisationID", h.getOrganisation)
		organisations.PUT("/:organisationID", h.updateOrganisation)
		organisations.DELETE("/:organisationID", h.deleteOrganisation)

		organisations.POST("/:organisationID/accounts", h.createAccount)
		organisations.GET("/:organisationID/accounts", h.listAccounts)
		organisations.POST("/:organisationID/accounts/from-template", h.adoptTemplate)

		organisations.POST("/:organisationID/fiscal-years", h.openFiscalYear)
		organisations.GET("/:organisationID/fiscal-years", h.listFiscalYears)
	}
}

// createOrganisation godoc
// @Summary Create an organisation
// @Description Creates a new organisation, optionally referencing a chart-of-accounts template.
// @Tags organisations
// @Accept json
// @Produce json
// @Param organisation body dto.CreateOrganisationRequest true "Organisation"
// @Success 201 {object} dto.OrganisationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations [post]
func (h *organisationHandler) createOrganisation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	org, err := h.organisationService.CreateOrganisation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Accounting plan not found"})
			return
		}
		logger.Error("Failed to create organisation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create organisation"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganisationResponse(org))
}

// listOrganisations godoc
// @Summary List organisations
// @Tags organisations
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.OrganisationResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations [get]
func (h *organisationHandler) listOrganisations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orgs, err := h.organisationService.ListOrganisations(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list organisations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list organisations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationResponses(orgs))
}

// getOrganisation godoc
// @Summary Get an organisation
// @Tags organisations
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Success 200 {object} dto.OrganisationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID} [get]
func (h *organisationHandler) getOrganisation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	org, err := h.organisationService.GetOrganisation(c.Request.Context(), organisationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation not found"})
			return
		}
		logger.Error("Failed to get organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve organisation"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationResponse(org))
}

// updateOrganisation godoc
// @Summary Update an organisation
// @Tags organisations
// @Accept json
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Param organisation body dto.UpdateOrganisationRequest true "Fields to update"
// @Success 200 {object} dto.OrganisationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID} [put]
func (h *organisationHandler) updateOrganisation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	var req dto.UpdateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	org, err := h.organisationService.UpdateOrganisation(c.Request.Context(), organisationID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation not found"})
			return
		}
		logger.Error("Failed to update organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update organisation"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganisationResponse(org))
}

// deleteOrganisation godoc
// @Summary Delete an organisation
// @Description Deletes an organisation. Refused while fiscal years still reference it.
// @Tags organisations
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Fiscal years still exist"
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID} [delete]
func (h *organisationHandler) deleteOrganisation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	err := h.organisationService.DeleteOrganisation(c.Request.Context(), organisationID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to delete organisation", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete organisation"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// createAccount godoc
// @Summary Create an account
// @Description Creates a single ad hoc account within the organisation's chart of accounts.
// @Tags accounts
// @Accept json
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Param account body dto.CreateAccountRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate account code"
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID}/accounts [post]
func (h *organisationHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), organisationID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create account", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List an organisation's accounts
// @Tags accounts
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID}/accounts [get]
func (h *organisationHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), organisationID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// adoptTemplate godoc
// @Summary Adopt a chart-of-accounts template
// @Description Creates the organisation's accounts from a template's rows. Codes the organisation already has are skipped.
// @Tags accounts
// @Accept json
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Param template body dto.AdoptTemplateRequest true "Template selection"
// @Success 201 {array} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID}/accounts/from-template [post]
func (h *organisationHandler) adoptTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	var req dto.AdoptTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accounts, err := h.accountService.AdoptTemplate(c.Request.Context(), organisationID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation or template not found"})
			return
		}
		logger.Error("Failed to adopt template", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to adopt template"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponses(accounts))
}

// openFiscalYear godoc
// @Summary Open a fiscal year
// @Description Creates a fiscal year, seeding balances from the request or from the most recently closed year.
// @Tags fiscal-years
// @Accept json
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Param fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year span"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Span overlaps an existing fiscal year"
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID}/fiscal-years [post]
func (h *organisationHandler) openFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	year, err := h.fiscalYearService.OpenFiscalYear(c.Request.Context(), organisationID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organisation not found"})
		case errors.Is(err, apperrors.ErrOverlap):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to open fiscal year", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open fiscal year"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(year))
}

// listFiscalYears godoc
// @Summary List an organisation's fiscal years
// @Tags fiscal-years
// @Produce json
// @Param organisationID path string true "Organisation ID"
// @Success 200 {array} dto.FiscalYearResponse
// @Failure 500 {object} ErrorResponse
// @Router /organisations/{organisationID}/fiscal-years [get]
func (h *organisationHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organisationID := c.Param("organisationID")

	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context(), organisationID)
	if err != nil {
		logger.Error("Failed to list fiscal years", slog.String("error", err.Error()), slog.String("organisation_id", organisationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list fiscal years"})
		return
	}

	responses := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		responses[i] = dto.ToFiscalYearResponse(&years[i])
	}
	c.JSON(http.StatusOK, responses)
}
