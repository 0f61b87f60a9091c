package transactionservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 14, 9, 26, 53, 0, time.UTC)

// memLedger serializes commits the way a row lock does.
type memLedger struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
	entries  []domain.Transaction
}

func newMemLedger(accounts ...domain.Account) *memLedger {
	m := &memLedger{accounts: map[int64]domain.Account{}}
	for _, a := range accounts {
		m.accounts[a.Number] = a
	}

	return m
}

func (m *memLedger) Commit(_ context.Context, arg domain.CommitParams, compute func(domain.Account) (domain.BalanceChange, error)) (domain.TransactionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[arg.AccountNumber]
	if !ok {
		return domain.TransactionResult{}, domain.ErrAccountNotFound
	}

	change, err := compute(account)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	account.Balance = change.NewBalance
	account.LastAccessDate = arg.At.Truncate(24 * time.Hour)
	m.accounts[arg.AccountNumber] = account

	entry := domain.Transaction{
		ID:            int64(len(m.entries) + 1),
		Type:          arg.Type,
		Date:          arg.At.Format(domain.DateLayout),
		Time:          arg.At.Format(domain.TimeLayout),
		Amount:        arg.Amount,
		Charge:        change.Charge,
		AccountNumber: arg.AccountNumber,
	}
	m.entries = append(m.entries, entry)

	return domain.TransactionResult{Account: account, Transaction: entry}, nil
}

func (m *memLedger) History(context.Context, domain.ListHistoryParams) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (m *memLedger) balance(number int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accounts[number].Balance
}

func newTestService(repo Repo, d Directory) *Service {
	s := New(repo, d)
	s.now = func() time.Time { return testNow }

	return s
}

func TestPerformTransactionValidation(t *testing.T) {
	owned := domain.NewAccountSet(1001)

	testCases := []struct {
		name    string
		arg     domain.PerformTransactionParams
		wantErr error
	}{
		{
			name:    "NotOwned",
			arg:     domain.PerformTransactionParams{AccountNumber: 2002, Type: "Deposit", Amount: "10"},
			wantErr: domain.ErrAccountNotOwned,
		},
		{
			name:    "NotOwnedWithInvalidAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 2002, Type: "Deposit", Amount: "abc"},
			wantErr: domain.ErrAccountNotOwned,
		},
		{
			name:    "ZeroAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "0"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Withdrawal", Amount: "-5"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "NonNumericAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "abc"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "EmptyAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: ""},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "SubCentAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "0.001"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "HugeAmount",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "10000000000000"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "UnsupportedType",
			arg:     domain.PerformTransactionParams{AccountNumber: 1001, Type: "Transfer", Amount: "10"},
			wantErr: domain.ErrUnsupportedTransactionType,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			got, err := newTestService(repo, nil).PerformTransaction(context.Background(), tc.arg, owned)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, got)
		})
	}
}

func TestPerformTransactionCommit(t *testing.T) {
	owned := domain.NewAccountSet(1001)
	account := domain.Account{Number: 1001, Type: domain.Checking, Balance: "100.00"}

	testCases := []struct {
		name       string
		arg        domain.PerformTransactionParams
		commitErr  error
		wantChange domain.BalanceChange
		wantErr    error
	}{
		{
			name:       "Deposit",
			arg:        domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "50"},
			wantChange: domain.BalanceChange{NewBalance: "150.00", Charge: "0.50"},
		},
		{
			name:       "Withdrawal",
			arg:        domain.PerformTransactionParams{AccountNumber: 1001, Type: "Withdrawal", Amount: "99.99"},
			wantChange: domain.BalanceChange{NewBalance: "0.01", Charge: "1.00"},
		},
		{
			name:      "StoreUnavailable",
			arg:       domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "50"},
			commitErr: errorspkg.ErrStoreUnavailable,
			wantErr:   errorspkg.ErrStoreUnavailable,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)

			wantArg := domain.CommitParams{
				AccountNumber: tc.arg.AccountNumber,
				Type:          domain.TransactionType(tc.arg.Type),
				Amount:        decimal.RequireFromString(tc.arg.Amount).StringFixed(2),
				At:            testNow,
			}

			repo.EXPECT().Commit(gomock.Any(), gomock.Eq(wantArg), gomock.Any()).
				Times(1).
				DoAndReturn(func(_ context.Context, _ domain.CommitParams, compute func(domain.Account) (domain.BalanceChange, error)) (domain.TransactionResult, error) {
					if tc.commitErr != nil {
						return domain.TransactionResult{}, tc.commitErr
					}

					change, err := compute(account)
					if err != nil {
						return domain.TransactionResult{}, err
					}

					if diff := cmp.Diff(tc.wantChange, change); diff != "" {
						t.Errorf("compute(%+v) returned unexpected diff (-want +got):\n%s", account, diff)
					}

					return domain.TransactionResult{
						Account:     domain.Account{Number: account.Number, Balance: change.NewBalance},
						Transaction: domain.Transaction{ID: 1, Charge: change.Charge},
					}, nil
				})

			got, err := newTestService(repo, nil).PerformTransaction(context.Background(), tc.arg, owned)
			require.ErrorIs(t, err, tc.wantErr)

			if tc.wantErr == nil {
				require.Equal(t, tc.wantChange.NewBalance, got.Account.Balance)
				require.Equal(t, tc.wantChange.Charge, got.Transaction.Charge)
			}
		})
	}
}

func TestBalanceChange(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		txType  domain.TransactionType
		balance string
		amount  string
		want    domain.BalanceChange
		wantErr error
	}{
		{
			name:    "DepositUpToBalanceLimit",
			txType:  domain.Deposit,
			balance: "9999999999999.00",
			amount:  "0.99",
			want:    domain.BalanceChange{NewBalance: "9999999999999.99", Charge: "0.50"},
		},
		{
			name:    "DepositOverflowsBalance",
			txType:  domain.Deposit,
			balance: "9999999999999.00",
			amount:  "5.00",
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "DepositReachesBalanceLimit",
			txType:  domain.Deposit,
			balance: "9999999999999.99",
			amount:  "0.01",
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "WithdrawExactBalance",
			txType:  domain.Withdrawal,
			balance: "150.00",
			amount:  "150",
			want:    domain.BalanceChange{NewBalance: "0.00", Charge: "1.00"},
		},
		{
			name:    "WithdrawMoreThanBalance",
			txType:  domain.Withdrawal,
			balance: "150.00",
			amount:  "150.01",
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "UnknownType",
			txType:  "Transfer",
			balance: "150.00",
			amount:  "1",
			wantErr: domain.ErrUnsupportedTransactionType,
		},
		{
			name:    "CorruptBalance",
			txType:  domain.Deposit,
			balance: "NaN",
			amount:  "1",
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			compute := balanceChange(tc.txType, decimal.RequireFromString(tc.amount))

			got, err := compute(domain.Account{Balance: tc.balance})
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPerform(t *testing.T) {
	customerID := randompkg.CustomerID()
	arg := domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "10"}

	t.Run("DirectoryError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepo(ctrl)
		directory := NewMockDirectory(ctrl)

		directory.EXPECT().OwnedAccounts(gomock.Any(), gomock.Eq(customerID)).
			Times(1).
			Return(nil, errorspkg.ErrStoreUnavailable)
		repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := newTestService(repo, directory).Perform(context.Background(), customerID, arg)
		require.ErrorIs(t, err, errorspkg.ErrStoreUnavailable)
	})

	t.Run("NoAccounts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepo(ctrl)
		directory := NewMockDirectory(ctrl)

		directory.EXPECT().OwnedAccounts(gomock.Any(), gomock.Eq(customerID)).
			Times(1).
			Return(domain.NewAccountSet(), nil)
		repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := newTestService(repo, directory).Perform(context.Background(), customerID, arg)
		require.ErrorIs(t, err, domain.ErrAccountNotOwned)
	})

	t.Run("OK", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := NewMockDirectory(ctrl)
		ledger := newMemLedger(domain.Account{Number: 1001, Balance: "0.00"})

		directory.EXPECT().OwnedAccounts(gomock.Any(), gomock.Eq(customerID)).
			Times(1).
			Return(domain.NewAccountSet(1001), nil)

		got, err := newTestService(ledger, directory).Perform(context.Background(), customerID, arg)
		require.NoError(t, err)
		require.Equal(t, "10.00", got.Account.Balance)
	})
}

func TestBranchScenario(t *testing.T) {
	ledger := newMemLedger(domain.Account{Number: 1001, Type: domain.Checking, Balance: "100.00"})
	s := newTestService(ledger, nil)
	owned := domain.NewAccountSet(1001)
	ctx := context.Background()

	got, err := s.PerformTransaction(ctx, domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "50.00"}, owned)
	require.NoError(t, err)
	require.Equal(t, "150.00", got.Account.Balance)

	wantDeposit := domain.Transaction{
		ID:            1,
		Type:          domain.Deposit,
		Date:          "2024-03-14",
		Time:          "09:26:53",
		Amount:        "50.00",
		Charge:        "0.50",
		AccountNumber: 1001,
	}
	if diff := cmp.Diff(wantDeposit, got.Transaction); diff != "" {
		t.Errorf("deposit entry unexpected diff (-want +got):\n%s", diff)
	}

	_, err = s.PerformTransaction(ctx, domain.PerformTransactionParams{AccountNumber: 1001, Type: "Withdrawal", Amount: "200.00"}, owned)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Equal(t, "150.00", ledger.balance(1001))
	require.Len(t, ledger.entries, 1)

	got, err = s.PerformTransaction(ctx, domain.PerformTransactionParams{AccountNumber: 1001, Type: "Withdrawal", Amount: "150.00"}, owned)
	require.NoError(t, err)
	require.Equal(t, "0.00", got.Account.Balance)
	require.Equal(t, domain.Withdrawal, got.Transaction.Type)
	require.Equal(t, "150.00", got.Transaction.Amount)
	require.Equal(t, "1.00", got.Transaction.Charge)
	require.Len(t, ledger.entries, 2)
}

func TestDepositBeyondBalanceLimit(t *testing.T) {
	ledger := newMemLedger(domain.Account{Number: 1001, Type: domain.Savings, Balance: "9999999999999.00"})
	s := newTestService(ledger, nil)
	owned := domain.NewAccountSet(1001)

	_, err := s.PerformTransaction(context.Background(),
		domain.PerformTransactionParams{AccountNumber: 1001, Type: "Deposit", Amount: "5"}, owned)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	require.Equal(t, "9999999999999.00", ledger.balance(1001))
	require.Empty(t, ledger.entries)
}

func TestBalanceEqualsSignedLedgerSum(t *testing.T) {
	const initial = "500.00"

	ledger := newMemLedger(domain.Account{Number: 1001, Balance: initial})
	s := newTestService(ledger, nil)
	owned := domain.NewAccountSet(1001)

	for i := 0; i < 200; i++ {
		txType := "Deposit"
		if randompkg.Intn(2) == 0 {
			txType = "Withdrawal"
		}

		arg := domain.PerformTransactionParams{
			AccountNumber: 1001,
			Type:          txType,
			Amount:        randompkg.MoneyAmountBetween(1, 300),
		}

		before := ledger.balance(1001)
		entriesBefore := len(ledger.entries)

		_, err := s.PerformTransaction(context.Background(), arg, owned)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			require.Equal(t, before, ledger.balance(1001))
			require.Len(t, ledger.entries, entriesBefore)
		}
	}

	sum := decimal.RequireFromString(initial)

	for _, e := range ledger.entries {
		amount := decimal.RequireFromString(e.Amount)
		if e.Type == domain.Withdrawal {
			amount = amount.Neg()
		}

		sum = sum.Add(amount)
	}

	require.Equal(t, sum.StringFixed(2), ledger.balance(1001))
}

func TestConcurrentWithdrawalsOfWholeBalance(t *testing.T) {
	ledger := newMemLedger(domain.Account{Number: 1001, Balance: "100.00"})
	s := newTestService(ledger, nil)
	owned := domain.NewAccountSet(1001)
	arg := domain.PerformTransactionParams{AccountNumber: 1001, Type: "Withdrawal", Amount: "100.00"}

	n := 2
	errs := make(chan error)

	for i := 0; i < n; i++ {
		go func() {
			_, err := s.PerformTransaction(context.Background(), arg, owned)
			errs <- err
		}()
	}

	var succeeded, rejected int

	for i := 0; i < n; i++ {
		err := <-errs

		switch {
		case err == nil:
			succeeded++
		case err == domain.ErrInsufficientFunds:
			rejected++
		default:
			t.Fatalf("PerformTransaction(ctx, %+v) returned unexpected error: %v", arg, err)
		}
	}

	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)
	require.Equal(t, "0.00", ledger.balance(1001))
}

func TestHistory(t *testing.T) {
	customerID := randompkg.CustomerID()
	entries := []domain.HistoryEntry{{Transaction: domain.Transaction{ID: 2}}, {Transaction: domain.Transaction{ID: 1}}}
	filter := domain.HistoryFilter{Type: domain.Deposit}

	testCases := []struct {
		name       string
		scope      domain.HistoryScope
		buildStubs func(repo *MockRepo)
		want       []domain.HistoryEntry
		wantErr    error
	}{
		{
			name:  "Employee",
			scope: domain.AllHistory(),
			buildStubs: func(repo *MockRepo) {
				arg := domain.ListHistoryParams{Scope: domain.AllHistory(), Filter: filter, Limit: 10, Offset: 10}
				repo.EXPECT().History(gomock.Any(), gomock.Eq(arg)).Times(1).Return(entries, nil)
			},
			want: entries,
		},
		{
			name:  "Customer",
			scope: domain.CustomerHistory(customerID),
			buildStubs: func(repo *MockRepo) {
				arg := domain.ListHistoryParams{Scope: domain.CustomerHistory(customerID), Filter: filter, Limit: 10, Offset: 10}
				repo.EXPECT().History(gomock.Any(), gomock.Eq(arg)).Times(1).Return(entries, nil)
			},
			want: entries,
		},
		{
			name:  "CustomerWithoutID",
			scope: domain.CustomerHistory(""),
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().History(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:  "StoreUnavailable",
			scope: domain.AllHistory(),
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().History(gomock.Any(), gomock.Any()).Times(1).Return(nil, errorspkg.ErrStoreUnavailable)
			},
			wantErr: errorspkg.ErrStoreUnavailable,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			got, err := newTestService(repo, nil).History(context.Background(), tc.scope, filter, 10, 2)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}
