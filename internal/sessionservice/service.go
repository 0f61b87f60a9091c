// Package sessionservice manages business logic layer of sessions.
package sessionservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/configpkg"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/tokenpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNonPositiveDuration is returned when the configured token lifetime is not positive.
var ErrNonPositiveDuration = errors.New("access token duration must be positive")

// Repo provides data access layer interface needed by session service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type Repo interface {
	Create(ctx context.Context, s domain.Session) (domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service facilitates session service layer logic.
type Service struct {
	repo       Repo
	config     configpkg.Config
	tokenMaker tokenpkg.Maker
}

// New returns session service struct to manage session business logic.
func New(sr Repo, config configpkg.Config, tm tokenpkg.Maker) (*Service, error) {
	if config.AccessTokenDuration <= 0 {
		return nil, ErrNonPositiveDuration
	}

	return &Service{
		repo:       sr,
		config:     config,
		tokenMaker: tm,
	}, nil
}

// Create opens a session for an authenticated login and returns its access token.
func (s *Service) Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error) {
	l := zerolog.Ctx(ctx)

	accessToken, payload, err := s.tokenMaker.CreateToken(arg.Username, s.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return "", time.Time{}, domain.Session{}, errorspkg.ErrInternal
	}

	sess := domain.Session{
		ID:         payload.ID,
		Username:   arg.Username,
		Role:       arg.Role,
		CustomerID: arg.CustomerID,
		UserAgent:  arg.UserAgent,
		ClientIP:   arg.ClientIP,
		ExpiresAt:  payload.ExpiredAt,
		CreatedAt:  payload.IssuedAt,
	}

	created, err := s.repo.Create(ctx, sess)
	if err != nil {
		return "", time.Time{}, domain.Session{}, err
	}

	return accessToken, payload.ExpiredAt, created, nil
}

// Verify resolves an access token to its live session.
func (s *Service) Verify(ctx context.Context, accessToken string) (domain.Session, error) {
	l := zerolog.Ctx(ctx)

	payload, err := s.tokenMaker.VerifyToken(accessToken)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Session{}, err
	}

	sess, err := s.repo.Get(ctx, payload.ID)
	if err != nil {
		return domain.Session{}, err
	}

	if sess.Username != payload.Username {
		l.Warn().Str("session_user", sess.Username).Str("token_user", payload.Username).Msg("session username mismatch")
		return domain.Session{}, domain.ErrNotAuthenticated
	}

	return sess, nil
}

// Delete closes the session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
