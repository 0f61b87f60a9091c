package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates that the amount is not a positive decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the account balance does not cover the withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnsupportedTransactionType indicates a transaction type other than Deposit or Withdrawal.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
	// ErrPartialCommit indicates that an account balance and its ledger disagree.
	ErrPartialCommit = errors.New("partial commit: balance and ledger diverged")
)

// TransactionType is the kind of money movement.
type TransactionType string

// Supported transaction types.
const (
	Deposit    TransactionType = "Deposit"
	Withdrawal TransactionType = "Withdrawal"
)

// ParseTransactionType returns the transaction type named by s.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case Deposit, Withdrawal:
		return t, nil
	}

	return "", ErrUnsupportedTransactionType
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID            int64           `json:"transaction_id"`
	Type          TransactionType `json:"transaction_type"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Amount        string          `json:"amount"`
	Charge        string          `json:"charge"`
	AccountNumber int64           `json:"account_number"`
}

// Layouts of Transaction.Date and Transaction.Time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// PerformTransactionParams is the input data of a deposit or withdrawal request.
type PerformTransactionParams struct {
	AccountNumber int64
	Type          string
	Amount        string
}

// CommitParams is the input data of the atomic balance update plus ledger insert.
type CommitParams struct {
	AccountNumber int64
	Type          TransactionType
	Amount        string
	At            time.Time
}

// BalanceChange is the engine's decision computed from the locked account row.
type BalanceChange struct {
	NewBalance string
	Charge     string
}

// TransactionResult is the result of a committed transaction.
type TransactionResult struct {
	Account     Account     `json:"account"`
	Transaction Transaction `json:"transaction"`
}

// CreateTransactionParams is the input data to append a ledger entry.
type CreateTransactionParams struct {
	Type          TransactionType
	At            time.Time
	Amount        string
	Charge        string
	AccountNumber int64
}
