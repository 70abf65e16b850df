package enums

import (
	"fmt"
	"strings"
)

// TransactionAction maps to the action column of the transactions table.
type TransactionAction string

const (
	TransactionActionCheckout TransactionAction = "checkout"
	TransactionActionCheckin  TransactionAction = "checkin"
)

var validTransactionActions = []TransactionAction{
	TransactionActionCheckout,
	TransactionActionCheckin,
}

// String implements fmt.Stringer.
func (a TransactionAction) String() string {
	return string(a)
}

// IsValid reports whether the value matches a ledger action.
func (a TransactionAction) IsValid() bool {
	for _, candidate := range validTransactionActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseTransactionAction converts raw input into TransactionAction.
func ParseTransactionAction(value string) (TransactionAction, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validTransactionActions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction action %q", value)
}
