package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Entry is a single debit or credit line within a Transaction, affecting one account.
// This is the canonical typed representation; the legacy signed-pair form is
// converted at the boundary via EntryFromSignedPair.
type Entry struct {
	EntryID          string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID    string          `json:"transactionID"` // FK -> Transaction (Not Null)
	AccountID        string          `json:"accountID"`     // FK -> Account (Not Null)
	CounterAccountID string          `json:"counterAccountID,omitempty"`
	EntryType        EntryType       `json:"entryType"` // DEBIT or CREDIT (Not Null)
	Amount           decimal.Decimal `json:"amount"`    // Always positive
	Description      string          `json:"description,omitempty"`
	AuditFields
}

// SignedAmount returns the entry's effect on its account balance:
// +Amount for a debit, -Amount for a credit.
func (e Entry) SignedAmount() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Transaction represents a single balanced financial event within a fiscal year,
// composed of one or more debit/credit entries. Transactions are append-only:
// once posted they are never mutated or deleted.
type Transaction struct {
	TransactionID   string    `json:"transactionID"`  // Primary Key (UUID)
	FiscalYearID    string    `json:"fiscalYearID"`   // FK -> FiscalYear (Not Null)
	OrganisationID  string    `json:"organisationID"` // FK -> Organisation (Not Null)
	TransactionDate time.Time `json:"transactionDate"`
	Description     string    `json:"description"`
	ProofRef        string    `json:"proofRef,omitempty"` // Opaque reference to a proof-of-transaction file
	Entries         []Entry   `json:"entries,omitempty"`
	AuditFields
}

// EntryFromSignedPair converts the legacy {accountID, debit, credit} representation
// into the canonical typed Entry. Exactly one of debit/credit must be non-zero.
func EntryFromSignedPair(accountID string, debit, credit decimal.Decimal) (Entry, error) {
	debitSet := !debit.IsZero()
	creditSet := !credit.IsZero()
	if debitSet == creditSet {
		return Entry{}, fmt.Errorf("exactly one of debit and credit must be non-zero for account %s", accountID)
	}
	if debitSet {
		if debit.IsNegative() {
			return Entry{}, fmt.Errorf("debit amount must be positive for account %s", accountID)
		}
		return Entry{AccountID: accountID, EntryType: Debit, Amount: debit}, nil
	}
	if credit.IsNegative() {
		return Entry{}, fmt.Errorf("credit amount must be positive for account %s", accountID)
	}
	return Entry{AccountID: accountID, EntryType: Credit, Amount: credit}, nil
}
