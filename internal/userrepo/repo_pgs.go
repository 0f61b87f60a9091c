// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/dbpkg"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u          domain.User
		role       string
		customerID sql.NullString
	)

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&role,
		&customerID,
		&u.CreatedAt,
	)
	if err != nil {
		return u, err
	}

	u.Role, err = domain.ParseRole(role)
	u.CustomerID = customerID.String

	return u, err
}

const createQuery = `
INSERT INTO users (
	username,
	hashed_password,
	full_name,
	role,
	customer_id
) VALUES (
	$1, $2, $3, $4, $5
) RETURNING username, hashed_password, full_name, role, customer_id, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	customerID := sql.NullString{String: arg.CustomerID, Valid: arg.CustomerID != ""}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Username,
		arg.HashedPassword,
		arg.FullName,
		arg.Role.String(),
		customerID,
	)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Str("username", arg.Username).Send()

		if dbpkg.IsUniqueViolation(err) {
			return domain.User{}, domain.ErrUsernameAlreadyExists
		}

		switch dbpkg.ConstraintName(err) {
		case "users_customer_id_fkey":
			return domain.User{}, domain.ErrCustomerNotFound
		case "users_customer_role_check":
			return domain.User{}, domain.ErrCustomerRequired
		}

		return domain.User{}, errorspkg.ErrStoreUnavailable
	}

	return u, nil
}

const getQuery = `
SELECT username, hashed_password, full_name, role, customer_id, created_at
FROM users
WHERE username = $1
`

// Get returns the user with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, getQuery, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Str("username", username).Send()
			return domain.User{}, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return domain.User{}, errorspkg.ErrStoreUnavailable
	}

	return u, nil
}
