package dto

import (
	"fmt"
	"time"

	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one debit/credit line of a new transaction in the
// canonical typed representation.
type CreateEntryRequest struct {
	AccountID        string          `json:"accountID" binding:"required"`
	CounterAccountID string          `json:"counterAccountID,omitempty"`
	Type             string          `json:"type" binding:"required,entrytype"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description,omitempty"`
}

// SignedEntryRequest is one line of a new transaction in the legacy
// signed-pair representation: exactly one of debit/credit non-zero.
type SignedEntryRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateTransactionRequest is the payload for posting a new transaction.
// Callers supply either Entries (typed) or SignedEntries (legacy), not both.
type CreateTransactionRequest struct {
	Date          time.Time            `json:"date" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ProofRef      string               `json:"proofRef,omitempty"`
	Entries       []CreateEntryRequest `json:"entries,omitempty" binding:"omitempty,dive"`
	SignedEntries []SignedEntryRequest `json:"signedEntries,omitempty" binding:"omitempty,dive"`
}

// ToEntries converts the request's entry lines to the canonical domain form,
// applying the signed-pair adapter when the legacy shape was supplied.
func (r CreateTransactionRequest) ToEntries() ([]domain.Entry, error) {
	hasTyped := len(r.Entries) > 0
	hasSigned := len(r.SignedEntries) > 0
	if hasTyped == hasSigned {
		return nil, fmt.Errorf("exactly one of entries and signedEntries must be supplied")
	}

	if hasTyped {
		entries := make([]domain.Entry, len(r.Entries))
		for i, e := range r.Entries {
			entries[i] = domain.Entry{
				AccountID:        e.AccountID,
				CounterAccountID: e.CounterAccountID,
				EntryType:        domain.EntryType(e.Type),
				Amount:           e.Amount,
				Description:      e.Description,
			}
		}
		return entries, nil
	}

	entries := make([]domain.Entry, len(r.SignedEntries))
	for i, e := range r.SignedEntries {
		converted, err := domain.EntryFromSignedPair(e.AccountID, e.Debit, e.Credit)
		if err != nil {
			return nil, err
		}
		entries[i] = converted
	}
	return entries, nil
}

// EntryResponse defines the data returned for a transaction entry.
type EntryResponse struct {
	EntryID          string          `json:"entryID"`
	AccountID        string          `json:"accountID"`
	CounterAccountID string          `json:"counterAccountID,omitempty"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	FiscalYearID  string          `json:"fiscalYearID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	ProofRef      string          `json:"proofRef,omitempty"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListTransactionsParams holds pagination parameters for transaction listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next cursor token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListEntriesResponse is a page of entries plus the next cursor token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.Entry to its response DTO.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		AccountID:        e.AccountID,
		CounterAccountID: e.CounterAccountID,
		Type:             string(e.EntryType),
		Amount:           e.Amount,
		Description:      e.Description,
	}
}

// ToEntryResponses converts a slice of domain entries to response DTOs.
func ToEntryResponses(entries []domain.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		FiscalYearID:  t.FiscalYearID,
		Date:          t.TransactionDate,
		Description:   t.Description,
		ProofRef:      t.ProofRef,
		Entries:       ToEntryResponses(t.Entries),
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
