// Package transactionservice manages business logic layer of deposits, withdrawals and their history.
package transactionservice

import (
	"context"
	"time"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Commit(ctx context.Context, arg domain.CommitParams, compute func(current domain.Account) (domain.BalanceChange, error)) (domain.TransactionResult, error)
	History(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error)
}

// Directory resolves the accounts a customer owns.
type Directory interface {
	OwnedAccounts(ctx context.Context, customerID string) (domain.AccountSet, error)
}

// Fixed charges per transaction type.
var (
	DepositCharge    = decimal.New(50, -2)
	WithdrawalCharge = decimal.New(100, -2)
)

// maxAmount is the first value that does not fit NUMERIC(15,2).
var maxAmount = decimal.New(1, 13)

// Service facilitates transaction service layer logic.
type Service struct {
	repo      Repo
	directory Directory
	now       func() time.Time
}

// New returns transaction service struct to manage deposits and withdrawals.
func New(tr Repo, d Directory) *Service {
	return &Service{
		repo:      tr,
		directory: d,
		now:       time.Now,
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	// Sub-cent amounts cannot be stored.
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	return amount, nil
}

func charge(t domain.TransactionType) decimal.Decimal {
	if t == domain.Withdrawal {
		return WithdrawalCharge
	}

	return DepositCharge
}

// balanceChange returns the rule applied to the locked account row.
// The charge is recorded with the entry and never applied to the balance.
func balanceChange(t domain.TransactionType, amount decimal.Decimal) func(domain.Account) (domain.BalanceChange, error) {
	return func(current domain.Account) (domain.BalanceChange, error) {
		balance, err := decimal.NewFromString(current.Balance)
		if err != nil {
			return domain.BalanceChange{}, errorspkg.ErrInternal
		}

		var newBalance decimal.Decimal

		switch t {
		case domain.Withdrawal:
			if balance.LessThan(amount) {
				return domain.BalanceChange{}, domain.ErrInsufficientFunds
			}

			newBalance = balance.Sub(amount)
		case domain.Deposit:
			newBalance = balance.Add(amount)

			if newBalance.GreaterThanOrEqual(maxAmount) {
				return domain.BalanceChange{}, domain.ErrInvalidAmount
			}
		default:
			return domain.BalanceChange{}, domain.ErrUnsupportedTransactionType
		}

		change := domain.BalanceChange{
			NewBalance: newBalance.StringFixed(2),
			Charge:     charge(t).StringFixed(2),
		}

		return change, nil
	}
}

// PerformTransaction validates the request against the caller's owned accounts and applies it.
//
// Ownership is checked first, then the amount and the type. Validation failures leave
// the store untouched. The balance update and the ledger entry are committed together.
func (s *Service) PerformTransaction(ctx context.Context, arg domain.PerformTransactionParams, owned domain.AccountSet) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransactionResult

	if !owned.Has(arg.AccountNumber) {
		l.Warn().Int64("account_number", arg.AccountNumber).Msg("account not owned")
		return result, domain.ErrAccountNotOwned
	}

	amount, err := parseAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return result, err
	}

	txType, err := domain.ParseTransactionType(arg.Type)
	if err != nil {
		l.Info().Err(err).Str("type", arg.Type).Send()
		return result, err
	}

	commitArg := domain.CommitParams{
		AccountNumber: arg.AccountNumber,
		Type:          txType,
		Amount:        amount.StringFixed(2),
		At:            s.now(),
	}

	result, err = s.repo.Commit(ctx, commitArg, balanceChange(txType, amount))
	if err != nil {
		l.Info().Err(err).Int64("account_number", arg.AccountNumber).Msg("transaction rejected")
		return domain.TransactionResult{}, err
	}

	l.Info().
		Int64("account_number", arg.AccountNumber).
		Int64("transaction_id", result.Transaction.ID).
		Str("type", string(txType)).
		Str("amount", commitArg.Amount).
		Msg("transaction committed")

	return result, nil
}

// Perform resolves the customer's accounts and then performs the transaction.
func (s *Service) Perform(ctx context.Context, customerID string, arg domain.PerformTransactionParams) (domain.TransactionResult, error) {
	owned, err := s.directory.OwnedAccounts(ctx, customerID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	return s.PerformTransaction(ctx, arg, owned)
}

// History returns a page of ledger entries visible in the scope, most recent first.
func (s *Service) History(ctx context.Context, scope domain.HistoryScope, filter domain.HistoryFilter, pageSize, pageID int32) ([]domain.HistoryEntry, error) {
	if !scope.All() && scope.CustomerID() == "" {
		return nil, domain.ErrForbidden
	}

	arg := domain.ListHistoryParams{
		Scope:  scope,
		Filter: filter,
		Limit:  pageSize,
		Offset: (pageID - 1) * pageSize,
	}

	entries, err := s.repo.History(ctx, arg)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
