// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/branch-bank/internal/accountrepo"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/transactionrepo"
	"github.com/go-petr/branch-bank/internal/userrepo"
	"github.com/go-petr/branch-bank/pkg/dbpkg"
	"github.com/go-petr/branch-bank/pkg/passpkg"
	"github.com/go-petr/branch-bank/pkg/randompkg"
)

const seedCustomerQuery = `
INSERT INTO customers (id, first_name, last_name)
VALUES ($1, $2, $3)
`

// SeedCustomer creates a random customer inside a test transaction.
func SeedCustomer(t *testing.T, tx dbpkg.SQLInterface) domain.Customer {
	t.Helper()

	c := domain.Customer{
		ID:        randompkg.CustomerID(),
		FirstName: randompkg.String(6),
		LastName:  randompkg.String(8),
	}

	if _, err := tx.ExecContext(context.Background(), seedCustomerQuery, c.ID, c.FirstName, c.LastName); err != nil {
		t.Fatalf("seeding customer %+v returned error: %v", c, err)
	}

	return c
}

// SeedAccount opens a Checking account with the given balance.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		Type:         domain.Checking,
		Balance:      balance,
		InterestRate: "0.00",
	}

	account, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedOwnedAccount opens an account with the given balance and links it to the customer.
func SeedOwnedAccount(t *testing.T, tx dbpkg.SQLInterface, customerID, balance string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx, balance)

	if err := accountrepo.NewRepoPGS(tx).AddOwner(context.Background(), customerID, account.Number); err != nil {
		t.Fatalf("accountRepo.AddOwner(ctx, %v, %v) returned error: %v", customerID, account.Number, err)
	}

	return account
}

// SeedTransaction appends a ledger entry without touching the balance.
func SeedTransaction(t *testing.T, tx dbpkg.SQLInterface, arg domain.CreateTransactionParams) domain.Transaction {
	t.Helper()

	entry, err := transactionrepo.NewTxRepoPGS(tx).Insert(context.Background(), arg)
	if err != nil {
		t.Fatalf("transactionRepo.Insert(ctx, %+v) returned error: %v", arg, err)
	}

	return entry
}

// SeedUser creates a user with the given role and password inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface, role domain.Role, customerID, password string) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(%v) returned error: %v", password, err)
	}

	arg := domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.String(10),
		Role:           role,
		CustomerID:     customerID,
	}

	user, err := userrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return user
}
