// Package reconciliationservice checks account balances against the ledger.
package reconciliationservice

import (
	"context"
	"fmt"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by reconciliation service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reconciliationservice
type Repo interface {
	Ledgers(ctx context.Context) ([]domain.AccountLedger, error)
}

// Service facilitates reconciliation service layer logic.
type Service struct {
	repo Repo
}

// New returns reconciliation service struct.
func New(rr Repo) *Service {
	return &Service{
		repo: rr,
	}
}

// Expected returns the balance implied by the opening balance and the ledger.
// Charges are not part of it.
func Expected(a domain.AccountLedger) (decimal.Decimal, error) {
	var sum decimal.Decimal

	for _, s := range []string{a.OpeningBalance, a.Deposits} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, err
		}

		sum = sum.Add(d)
	}

	withdrawals, err := decimal.NewFromString(a.Withdrawals)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return sum.Sub(withdrawals), nil
}

// Run checks every account. When any account drifted the report is returned
// together with an error wrapping domain.ErrPartialCommit.
func (s *Service) Run(ctx context.Context) (domain.ReconciliationReport, error) {
	l := zerolog.Ctx(ctx)

	ledgers, err := s.repo.Ledgers(ctx)
	if err != nil {
		return domain.ReconciliationReport{}, err
	}

	report := domain.ReconciliationReport{
		Checked:       len(ledgers),
		Discrepancies: []domain.Discrepancy{},
	}

	for _, a := range ledgers {
		expected, err := Expected(a)
		if err != nil {
			l.Error().Err(err).Int64("account_number", a.AccountNumber).Send()
			return domain.ReconciliationReport{}, errorspkg.ErrInternal
		}

		balance, err := decimal.NewFromString(a.Balance)
		if err != nil {
			l.Error().Err(err).Int64("account_number", a.AccountNumber).Send()
			return domain.ReconciliationReport{}, errorspkg.ErrInternal
		}

		if balance.Equal(expected) {
			continue
		}

		d := domain.Discrepancy{
			AccountNumber: a.AccountNumber,
			Balance:       balance.StringFixed(2),
			Expected:      expected.StringFixed(2),
			Drift:         balance.Sub(expected).StringFixed(2),
		}

		l.Warn().
			Int64("account_number", d.AccountNumber).
			Str("balance", d.Balance).
			Str("expected", d.Expected).
			Int64("entries", a.Entries).
			Msg("balance does not match ledger")

		report.Discrepancies = append(report.Discrepancies, d)
	}

	if n := len(report.Discrepancies); n > 0 {
		return report, fmt.Errorf("%w: %d of %d accounts", domain.ErrPartialCommit, n, report.Checked)
	}

	l.Info().Int("checked", report.Checked).Msg("ledger reconciled")

	return report, nil
}
