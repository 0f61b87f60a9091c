// Package accountservice manages business logic layer of accounts.
//
// It is the account directory: it resolves which accounts a customer owns.
package accountservice

import (
	"context"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, number int64) (domain.Account, error)
	ListOwned(ctx context.Context, customerID string, limit, offset int32) ([]domain.Account, error)
	OwnedNumbers(ctx context.Context, customerID string) ([]int64, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// OwnedAccounts returns the set of accounts owned by the customer.
//
// The set is read from the store on every call. A customer without accounts gets an empty set.
func (s *Service) OwnedAccounts(ctx context.Context, customerID string) (domain.AccountSet, error) {
	numbers, err := s.repo.OwnedNumbers(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return domain.NewAccountSet(numbers...), nil
}

// Get returns the account if the customer owns it.
func (s *Service) Get(ctx context.Context, customerID string, number int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	owned, err := s.OwnedAccounts(ctx, customerID)
	if err != nil {
		return domain.Account{}, err
	}

	if !owned.Has(number) {
		l.Warn().Str("customer_id", customerID).Int64("account_number", number).Msg("account not owned")
		return domain.Account{}, domain.ErrAccountNotOwned
	}

	return s.repo.Get(ctx, number)
}

// List returns accounts that are owned by the given customer.
func (s *Service) List(ctx context.Context, customerID string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.ListOwned(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
