package accounting

import (
	"fmt"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	"github.com/enkelbok/enkelbok/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumEntries returns the debit and credit sums of an entry set using exact
// decimal arithmetic. This is shared by validation and reporting so the
// balance rule is computed in exactly one place.
func SumEntries(entries []domain.Entry) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, e := range entries {
		if e.EntryType == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether sum(debit amounts) == sum(credit amounts).
// This predicate gates whether a transaction may be persisted.
func IsBalanced(entries []domain.Entry) bool {
	debits, credits := SumEntries(entries)
	return debits.Equal(credits)
}

// ValidateEntries checks the per-entry rules for a candidate transaction:
// at least two entries, every account identifier present, every amount
// strictly positive and a recognised entry type.
func ValidateEntries(entries []domain.Entry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: transaction must have at least two entries", apperrors.ErrValidation)
	}
	for i, e := range entries {
		if e.AccountID == "" {
			return fmt.Errorf("%w: entry %d is missing an account identifier", apperrors.ErrValidation, i)
		}
		if e.EntryType != domain.Debit && e.EntryType != domain.Credit {
			return fmt.Errorf("%w: entry %d has unknown type %q", apperrors.ErrValidation, i, e.EntryType)
		}
		if e.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: entry %d amount must be positive, got %s", apperrors.ErrValidation, i, e.Amount.String())
		}
	}
	return nil
}

// ValidateEntryPair checks a candidate debit/credit pair for manual entry:
// both account identifiers non-empty and distinct, a positive amount, and the
// counter entry carrying the opposite type with the identical amount.
func ValidateEntryPair(entry, counter domain.Entry) error {
	if entry.AccountID == "" || counter.AccountID == "" {
		return fmt.Errorf("%w: both entries must reference an account", apperrors.ErrValidation)
	}
	if entry.AccountID == counter.AccountID {
		return fmt.Errorf("%w: entry and counter entry must reference different accounts", apperrors.ErrValidation)
	}
	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, entry.Amount.String())
	}
	if entry.EntryType == counter.EntryType {
		return fmt.Errorf("%w: counter entry must carry the opposite type", apperrors.ErrValidation)
	}
	if !entry.Amount.Equal(counter.Amount) {
		return fmt.Errorf("%w: counter entry amount %s does not mirror %s", apperrors.ErrValidation, counter.Amount.String(), entry.Amount.String())
	}
	return nil
}

// BalanceChanges folds an entry set into per-account balance deltas:
// +amount for debits, -amount for credits. The aggregation is a pure sum and
// therefore independent of entry order.
func BalanceChanges(entries []domain.Entry) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		changes[e.AccountID] = changes[e.AccountID].Add(e.SignedAmount())
	}
	return changes
}
