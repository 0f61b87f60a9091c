// Package reconciliationrepo reads balances and ledger totals for reconciliation.
package reconciliationrepo

import (
	"context"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/dbpkg"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates reconciliation repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns reconciliation RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const ledgersQuery = `
SELECT
    a.account_number,
    a.opening_balance::text,
    a.balance::text,
    COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'Deposit'), 0)::text,
    COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'Withdrawal'), 0)::text,
    COUNT(t.id)
FROM
    accounts a
    LEFT JOIN transactions t ON t.account_number = a.account_number
GROUP BY
    a.account_number
ORDER BY
    a.account_number`

// Ledgers returns every account with the totals of its ledger entries.
func (r *RepoPGS) Ledgers(ctx context.Context) ([]domain.AccountLedger, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ledgersQuery)
	if err != nil {
		l.Error().Err(err).Msg("Ledgers(ctx)")
		return nil, errorspkg.ErrStoreUnavailable
	}
	defer rows.Close()

	var result []domain.AccountLedger

	for rows.Next() {
		var a domain.AccountLedger

		if err := rows.Scan(
			&a.AccountNumber,
			&a.OpeningBalance,
			&a.Balance,
			&a.Deposits,
			&a.Withdrawals,
			&a.Entries,
		); err != nil {
			l.Error().Err(err).Msg("Ledgers(ctx)")
			return nil, errorspkg.ErrInternal
		}

		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Msg("Ledgers(ctx)")
		return nil, errorspkg.ErrStoreUnavailable
	}

	return result, nil
}
