// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/dbpkg"
	"github.com/go-petr/branch-bank/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `account_number, account_type, balance, last_access_date, interest_rate, overdraft`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Type,
		&a.Balance,
		&a.LastAccessDate,
		&a.InterestRate,
		&a.Overdraft,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (account_type, balance, opening_balance, interest_rate, overdraft)
VALUES
    ($1, $2, $2, $3, $4)
RETURNING ` + accountColumns

// Create opens the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Type, arg.Balance, arg.InterestRate, arg.Overdraft)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		switch dbpkg.ConstraintName(err) {
		case "accounts_account_type_check":
			return a, domain.ErrAccountTypeNotSupported
		case "accounts_balance_check":
			return a, domain.ErrInsufficientFunds
		}

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const addOwnerQuery = `
INSERT INTO
    customer_accounts (customer_id, account_number)
VALUES
    ($1, $2)
`

// AddOwner links the account to the customer.
func (r *RepoPGS) AddOwner(ctx context.Context, customerID string, number int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, addOwnerQuery, customerID, number); err != nil {
		l.Error().Err(err).Send()

		switch dbpkg.ConstraintName(err) {
		case "customer_accounts_customer_id_fkey":
			return domain.ErrCustomerNotFound
		case "customer_accounts_account_number_fkey":
			return domain.ErrAccountNotFound
		}

		return errorspkg.ErrStoreUnavailable
	}

	return nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1
`

// Get returns the account with the given number.
func (r *RepoPGS) Get(ctx context.Context, number int64) (domain.Account, error) {
	return r.get(ctx, getQuery, number)
}

const getForUpdateQuery = getQuery + `FOR NO KEY UPDATE`

// GetForUpdate returns the account and locks its row until the surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number int64) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, number)
}

func (r *RepoPGS) get(ctx context.Context, query string, number int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("account_number", number).Send()
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const updateBalanceQuery = `
UPDATE accounts
SET balance = $1, last_access_date = $2
WHERE account_number = $3
RETURNING ` + accountColumns

// UpdateBalance sets the account's balance and last access date and returns the changed account.
func (r *RepoPGS) UpdateBalance(ctx context.Context, number int64, balance string, accessDate time.Time) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateBalanceQuery, balance, accessDate.Format(domain.DateLayout), number)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		if dbpkg.ConstraintName(err) == "accounts_balance_check" {
			return a, domain.ErrInsufficientFunds
		}

		if dbpkg.IsNumericOverflow(err) {
			return a, domain.ErrInvalidAmount
		}

		return a, errorspkg.ErrStoreUnavailable
	}

	return a, nil
}

const listOwnedQuery = `
SELECT a.account_number, a.account_type, a.balance, a.last_access_date, a.interest_rate, a.overdraft
FROM accounts a
JOIN customer_accounts ca ON ca.account_number = a.account_number
WHERE ca.customer_id = $1
ORDER BY a.account_number
LIMIT $2 OFFSET $3
`

// ListOwned returns the specified page of accounts owned by the customer.
func (r *RepoPGS) ListOwned(ctx context.Context, customerID string, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listOwnedQuery, customerID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return items, nil
}

const ownedNumbersQuery = `
SELECT account_number
FROM customer_accounts
WHERE customer_id = $1
`

// OwnedNumbers returns numbers of all accounts owned by the customer.
func (r *RepoPGS) OwnedNumbers(ctx context.Context, customerID string) ([]int64, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ownedNumbersQuery, customerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	numbers := []int64{}

	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		numbers = append(numbers, n)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return numbers, nil
}
