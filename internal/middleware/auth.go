// Package middleware holds gin middlewares shared by the http handlers.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/branch-bank/internal/accessguard"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/pkg/web"
	"github.com/rs/zerolog"
)

// Authorization header parts.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	SessionKey     = "session"
)

// Authorization header errors.
var (
	ErrAuthHeaderNotFound  = errors.New("authorization header is not provided")
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// SessionVerifier resolves an access token to a live session.
//
//go:generate mockgen -source auth.go -destination auth_mock.go -package middleware
type SessionVerifier interface {
	Verify(ctx context.Context, accessToken string) (domain.Session, error)
}

// AddAuthorization sets the authorization header of r.
func AddAuthorization(r *http.Request, authType, accessToken string) {
	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, accessToken))
}

// AuthMiddleware resolves the bearer token into a session and stores it in the gin context.
func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		authHeader := gctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))
			return
		}

		authType := strings.ToLower(fields[0])
		if authType != AuthTypeBearer {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))
			return
		}

		ctx := gctx.Request.Context()

		sess, err := verifier.Verify(ctx, fields[1])
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		l := zerolog.Ctx(ctx).With().
			Str("username", sess.Username).
			Str("role", sess.Role.String()).
			Logger()
		gctx.Request = gctx.Request.WithContext(l.WithContext(ctx))

		gctx.Set(SessionKey, &sess)
		gctx.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware or nil.
func SessionFrom(gctx *gin.Context) *domain.Session {
	v, ok := gctx.Get(SessionKey)
	if !ok {
		return nil
	}

	sess, _ := v.(*domain.Session)

	return sess
}

// RequireCapability aborts requests whose session does not grant c.
func RequireCapability(c accessguard.Capability) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		err := accessguard.Check(SessionFrom(gctx), c)

		switch err {
		case nil:
			gctx.Next()
		case domain.ErrNotAuthenticated:
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
		default:
			zerolog.Ctx(gctx.Request.Context()).Warn().Err(err).Str("capability", c.String()).Send()
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(err))
		}
	}
}
