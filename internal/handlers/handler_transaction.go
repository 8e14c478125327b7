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

// transactionHandler handles HTTP requests addressing transactions by ID.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ledgerService}
}

// registerTransactionRoutes registers transaction-by-ID routes.
func registerTransactionRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := group.Group("/transactions")
	{
		transactions.GET("/:transactionID", h.getTransaction)
	}
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction with its debit/credit entries.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
			return
		}
		logger.Error("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transaction"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
