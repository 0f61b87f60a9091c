// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNotOwned indicates that the caller does not own the account.
	ErrAccountNotOwned = errors.New("account not owned by caller")
	// ErrCustomerNotFound indicates that the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrAccountTypeNotSupported indicates an unknown account type.
	ErrAccountTypeNotSupported = errors.New("account type not supported")
)

// Supported account types.
const (
	Checking = "Checking"
	Savings  = "Savings"
)

// Account holds balance data of a bank account.
type Account struct {
	Number         int64     `json:"account_number"`
	Type           string    `json:"account_type"`
	Balance        string    `json:"balance"`
	LastAccessDate time.Time `json:"last_access_date"`
	InterestRate   string    `json:"interest_rate"`
	Overdraft      bool      `json:"overdraft"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Type         string
	Balance      string
	InterestRate string
	Overdraft    bool
}

// AccountSet is a set of account numbers.
type AccountSet map[int64]struct{}

// NewAccountSet returns a set holding the given numbers.
func NewAccountSet(numbers ...int64) AccountSet {
	s := make(AccountSet, len(numbers))
	for _, n := range numbers {
		s[n] = struct{}{}
	}

	return s
}

// Has reports whether the number is in the set.
func (s AccountSet) Has(number int64) bool {
	_, ok := s[number]
	return ok
}
