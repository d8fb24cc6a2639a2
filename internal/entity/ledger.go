package entity

import "time"

type TransactionType string

const (
	TransactionTypeEarned   TransactionType = "earned"
	TransactionTypeSpent    TransactionType = "spent"
	TransactionTypeAdjusted TransactionType = "adjusted"
)

type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "credit"
	DirectionDebit  TransactionDirection = "debit"
)

// WelcomeBonusRef marks the one-per-beneficiary bonus entry; a unique index
// on (beneficiary_id, reference) makes the grant idempotent.
const WelcomeBonusRef = "welcome_bonus"

// Transaction is one immutable credit-affecting event. Amount is always a
// positive magnitude; the sign lives in Direction.
type Transaction struct {
	ID            string               `json:"id"`
	BeneficiaryID string               `json:"beneficiary_id"`
	Amount        int                  `json:"amount"`
	Type          TransactionType      `json:"type"`
	Direction     TransactionDirection `json:"direction"`
	RelatedItemID string               `json:"related_item_id,omitempty"`
	Reference     string               `json:"reference,omitempty"`
	Description   string               `json:"description"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Wallet is the materialized balance projection for a beneficiary. It is a
// cache of the transaction fold, never a second source of truth.
type Wallet struct {
	ID            string    `json:"id"`
	BeneficiaryID string    `json:"beneficiary_id"`
	Balance       int       `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FoldBalance folds a beneficiary's entries into a balance. Credits add,
// debits subtract; the fold is commutative, so entry order never matters.
func FoldBalance(entries []Transaction) int {
	balance := 0
	for _, e := range entries {
		if e.Direction == DirectionDebit {
			balance -= e.Amount
		} else {
			balance += e.Amount
		}
	}
	return balance
}

// DirectionFor returns the direction implied by a transaction type for a
// signed delta. Earned entries are always credits, spent entries always
// debits; adjusted entries follow the sign of the delta.
func DirectionFor(t TransactionType, delta int) TransactionDirection {
	switch t {
	case TransactionTypeSpent:
		return DirectionDebit
	case TransactionTypeAdjusted:
		if delta < 0 {
			return DirectionDebit
		}
		return DirectionCredit
	default:
		return DirectionCredit
	}
}
