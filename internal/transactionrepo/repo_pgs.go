// Package transactionrepo manages repository layer of the ledger.
package transactionrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-petr/branch-bank/internal/accountrepo"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/dbpkg"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// ErrNoConnection is returned by Commit on a repo bound to an existing transaction.
var ErrNoConnection = errors.New("commit requires a database connection")

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns ledger RepoPGS bound to an existing transaction or connection.
// Commit is not available on it.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const insertQuery = `
INSERT INTO
    transactions (transaction_type, tdate, ttime, amount, charge, account_number)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING id, transaction_type, tdate::text, ttime::text, amount, charge, account_number
`

// Insert appends the ledger entry and then returns it.
func (r *RepoPGS) Insert(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, insertQuery,
		arg.Type,
		arg.At.Format(domain.DateLayout),
		arg.At.Format(domain.TimeLayout),
		arg.Amount,
		arg.Charge,
		arg.AccountNumber,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Date,
		&t.Time,
		&t.Amount,
		&t.Charge,
		&t.AccountNumber,
	)
	if err != nil {
		l.Error().Err(err).Msgf("Insert(ctx, %+v)", arg)

		switch dbpkg.ConstraintName(err) {
		case "transactions_account_number_fkey":
			return t, domain.ErrAccountNotFound
		case "transactions_amount_check":
			return t, domain.ErrInvalidAmount
		case "transactions_type_check":
			return t, domain.ErrUnsupportedTransactionType
		case "transactions_charge_check":
			return t, errorspkg.ErrInternal
		}

		return t, errorspkg.ErrStoreUnavailable
	}

	return t, nil
}

// Commit applies a deposit or withdrawal.
//
// It locks the account row, lets compute decide the new balance, updates the
// account and appends the ledger entry within a single db transaction. Either
// both writes are applied or none.
func (r *RepoPGS) Commit(ctx context.Context, arg domain.CommitParams, compute func(current domain.Account) (domain.BalanceChange, error)) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransactionResult

	if r.conn == nil {
		l.Error().Err(ErrNoConnection).Send()
		return result, ErrNoConnection
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrStoreUnavailable
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.GetForUpdate(ctx, arg.AccountNumber)
	if err != nil {
		return result, err
	}

	change, err := compute(account)
	if err != nil {
		return result, err
	}

	result.Account, err = accountRepo.UpdateBalance(ctx, arg.AccountNumber, change.NewBalance, arg.At)
	if err != nil {
		return result, err
	}

	result.Transaction, err = NewTxRepoPGS(tx).Insert(ctx, domain.CreateTransactionParams{
		Type:          arg.Type,
		At:            arg.At,
		Amount:        arg.Amount,
		Charge:        change.Charge,
		AccountNumber: arg.AccountNumber,
	})
	if err != nil {
		return domain.TransactionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransactionResult{}, errorspkg.ErrStoreUnavailable
	}

	return result, nil
}

// predicates collects WHERE clauses with positional arguments.
type predicates struct {
	clauses []string
	args    []any
}

// add appends a clause whose single %d verb is replaced with the argument position.
func (p *predicates) add(clause string, arg any) {
	p.args = append(p.args, arg)
	p.clauses = append(p.clauses, fmt.Sprintf(clause, len(p.args)))
}

func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// placeholder reserves the next argument position.
func (p *predicates) placeholder(arg any) string {
	p.args = append(p.args, arg)
	return fmt.Sprintf("$%d", len(p.args))
}

const historySelect = `
SELECT
    t.id, t.transaction_type, t.tdate::text, t.ttime::text, t.amount, t.charge, t.account_number,
    a.account_type, o.id, o.first_name, o.last_name
FROM transactions t
JOIN accounts a ON a.account_number = t.account_number
LEFT JOIN LATERAL (
    SELECT c.id, c.first_name, c.last_name
    FROM customer_accounts ca
    JOIN customers c ON c.id = ca.customer_id
    WHERE ca.account_number = t.account_number
    ORDER BY c.id
    LIMIT 1
) o ON true
`

func buildHistoryQuery(arg domain.ListHistoryParams) (string, []any) {
	var p predicates

	if !arg.Scope.All() {
		p.add(`EXISTS (
    SELECT 1 FROM customer_accounts ca
    WHERE ca.account_number = t.account_number AND ca.customer_id = $%d)`, arg.Scope.CustomerID())
	}

	if arg.Filter.AccountNumber != 0 {
		p.add("t.account_number = $%d", arg.Filter.AccountNumber)
	}

	if arg.Filter.Type != "" {
		p.add("t.transaction_type = $%d", string(arg.Filter.Type))
	}

	if !arg.Filter.From.IsZero() {
		p.add("t.tdate >= $%d", arg.Filter.From.Format(domain.DateLayout))
	}

	if !arg.Filter.To.IsZero() {
		p.add("t.tdate <= $%d", arg.Filter.To.Format(domain.DateLayout))
	}

	query := historySelect + p.where() +
		"\nORDER BY t.tdate DESC, t.ttime DESC, t.id DESC" +
		"\nLIMIT " + p.placeholder(arg.Limit) + " OFFSET " + p.placeholder(arg.Offset)

	return query, p.args
}

// History returns one page of ledger entries in the given scope, most recent first.
func (r *RepoPGS) History(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error) {
	l := zerolog.Ctx(ctx)

	query, args := buildHistoryQuery(arg)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.HistoryEntry{}

	for rows.Next() {
		var e domain.HistoryEntry

		var customerID, firstName, lastName sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.Date,
			&e.Time,
			&e.Amount,
			&e.Charge,
			&e.AccountNumber,
			&e.AccountType,
			&customerID,
			&firstName,
			&lastName,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrStoreUnavailable
		}

		e.CustomerID = customerID.String
		e.CustomerName = strings.TrimSpace(firstName.String + " " + lastName.String)

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrStoreUnavailable
	}

	return items, nil
}
