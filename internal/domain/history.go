package domain

import "time"

// HistoryScope limits which ledger entries a caller may see.
type HistoryScope struct {
	all        bool
	customerID string
}

// AllHistory is the scope of every ledger entry.
func AllHistory() HistoryScope {
	return HistoryScope{all: true}
}

// CustomerHistory is the scope of entries on accounts owned by the customer.
func CustomerHistory(customerID string) HistoryScope {
	return HistoryScope{customerID: customerID}
}

// All reports whether the scope is unrestricted.
func (s HistoryScope) All() bool {
	return s.all
}

// CustomerID returns the customer the scope is restricted to.
func (s HistoryScope) CustomerID() string {
	return s.customerID
}

// HistoryFilter holds optional history filters. Zero values mean no filter.
type HistoryFilter struct {
	AccountNumber int64
	Type          TransactionType
	From          time.Time
	To            time.Time
}

// ListHistoryParams is the input data of the history query.
type ListHistoryParams struct {
	Scope  HistoryScope
	Filter HistoryFilter
	Limit  int32
	Offset int32
}

// HistoryEntry is a ledger entry joined with account and customer display fields.
type HistoryEntry struct {
	Transaction
	AccountType  string `json:"account_type"`
	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}
