// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		CustomerID: u.CustomerID,
		CreatedAt:  u.CreatedAt,
	}
}

// Create enrolls a login and returns it.
func (s *Service) Create(ctx context.Context, arg domain.RegisterUserParams) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	switch arg.Role {
	case domain.RoleCustomer:
		if arg.CustomerID == "" {
			return result, domain.ErrCustomerRequired
		}
	case domain.RoleEmployee:
		arg.CustomerID = ""
	default:
		return result, domain.ErrUnknownRole
	}

	hashedPassword, err := passpkg.Hash(arg.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	createArg := domain.CreateUserParams{
		Username:       arg.Username,
		HashedPassword: hashedPassword,
		FullName:       arg.FullName,
		Role:           arg.Role,
		CustomerID:     arg.CustomerID,
	}

	gotUser, err := s.repo.Create(ctx, createArg)
	if err != nil {
		return result, err
	}

	return NewUserWithoutPassword(gotUser), nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, pass string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.Get(ctx, username)
	if err != nil {
		return response, err
	}

	if err = passpkg.Check(pass, gotUser.HashedPassword); err != nil {
		l.Warn().Err(err).Str("username", username).Send()
		return response, domain.ErrWrongPassword
	}

	return NewUserWithoutPassword(gotUser), nil
}
