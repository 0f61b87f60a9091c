package domain

// AccountLedger is an account's stored balance next to the totals of its ledger.
type AccountLedger struct {
	AccountNumber  int64
	OpeningBalance string
	Balance        string
	Deposits       string
	Withdrawals    string
	Entries        int64
}

// Discrepancy describes an account whose balance does not match its ledger.
type Discrepancy struct {
	AccountNumber int64  `json:"account_number"`
	Balance       string `json:"balance"`
	Expected      string `json:"expected"`
	Drift         string `json:"drift"`
}

// ReconciliationReport is the result of checking every account against its ledger.
type ReconciliationReport struct {
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}
