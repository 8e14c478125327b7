package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

// fiscalYearHandler handles HTTP requests addressing fiscal years by ID:
// the close lifecycle, posting, listings and reports.
type fiscalYearHandler struct {
	fiscalYearService portssvc.FiscalYearSvcFacade
	ledgerService     portssvc.LedgerSvcFacade
	reportingService  portssvc.ReportingSvcFacade
}

// newFiscalYearHandler creates a new fiscalYearHandler.
func newFiscalYearHandler(
	fiscalYearService portssvc.FiscalYearSvcFacade,
	ledgerService portssvc.LedgerSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) *fiscalYearHandler {
	return &fiscalYearHandler{
		fiscalYearService: fiscalYearService,
		ledgerService:     ledgerService,
		reportingService:  reportingService,
	}
}

// registerFiscalYearRoutes registers fiscal-year-scoped routes.
func registerFiscalYearRoutes(
	group *gin.RouterGroup,
	fiscalYearService portssvc.FiscalYearSvcFacade,
	ledgerService portssvc.LedgerSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) {
	h := newFiscalYearHandler(fiscalYearService, ledgerService, reportingService)

	years := group.Group("/fiscal-years")
	{
		years.GET("/:fiscalYearID", h.getFiscalYear)
		years.POST("/:fiscalYearID/close", h.closeFiscalYear)
		years.GET("/:fiscalYearID/balances", h.listBalances)

		years.POST("/:fiscalYearID/transactions", h.postTransaction)
		years.GET("/:fiscalYearID/transactions", h.listTransactions)
		years.GET("/:fiscalYearID/accounts/:accountID/entries", h.listEntriesByAccount)

		years.GET("/:fiscalYearID/reports/general-ledger", h.getGeneralLedger)
		years.GET("/:fiscalYearID/reports/trial-balance", h.getTrialBalance)
	}
}

// getFiscalYear godoc
// @Summary Get a fiscal year
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID} [get]
func (h *fiscalYearHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	year, err := h.fiscalYearService.GetFiscalYear(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to get fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve fiscal year"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(year))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Marks the fiscal year closed and returns its frozen final balances. A second close fails.
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Success 200 {object} dto.ClosedFiscalYearResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already closed"
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/close [post]
func (h *fiscalYearHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	closed, err := h.fiscalYearService.CloseFiscalYear(c.Request.Context(), fiscalYearID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
		case errors.Is(err, apperrors.ErrAlreadyClosed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Fiscal year is already closed"})
		default:
			logger.Error("Failed to close fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to close fiscal year"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToClosedFiscalYearResponse(closed))
}

// listBalances godoc
// @Summary List a fiscal year's balances
// @Tags fiscal-years
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Success 200 {array} dto.BalanceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/balances [get]
func (h *fiscalYearHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	balances, err := h.fiscalYearService.ListBalances(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to list balances", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponses(balances))
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Validates and atomically persists a balanced transaction into the fiscal year.
// @Tags transactions
// @Accept json
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction with entries"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Validation or unbalanced entries"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Fiscal year is closed"
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/transactions [post]
func (h *fiscalYearHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), fiscalYearID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnbalanced):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrFiscalYearClosed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Fiscal year is closed"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to post transaction", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to post transaction"})
		}
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a fiscal year's transactions
// @Description Returns a page of transactions, date descending, with a cursor token for the next page.
// @Tags transactions
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid cursor token"
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/transactions [get]
func (h *fiscalYearHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), fiscalYearID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// listEntriesByAccount godoc
// @Summary List one account's entries within a fiscal year
// @Tags transactions
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid cursor token"
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/accounts/{accountID}/entries [get]
func (h *fiscalYearHandler) listEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")
	accountID := c.Param("accountID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.ledgerService.ListEntriesByAccount(c.Request.Context(), fiscalYearID, accountID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
			return
		}
		logger.Error("Failed to list entries", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// getGeneralLedger godoc
// @Summary General ledger report
// @Description Aggregates the fiscal year's entries per account: posting history plus opening and closing balance.
// @Tags reports
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/reports/general-ledger [get]
func (h *fiscalYearHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	ledger, err := h.reportingService.BuildGeneralLedger(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to build general ledger", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build general ledger"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(ledger))
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Tags reports
// @Produce json
// @Param fiscalYearID path string true "Fiscal Year ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fiscal-years/{fiscalYearID}/reports/trial-balance [get]
func (h *fiscalYearHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYearID := c.Param("fiscalYearID")

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal year not found"})
			return
		}
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{FiscalYearID: fiscalYearID, Rows: rows})
}
