// Package sessiondelivery manages delivery layer of sessions.
package sessiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/web"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by session delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package sessiondelivery
type Service interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler facilitates session delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns session handler.
func NewHandler(ss Service) *Handler {
	return &Handler{
		service: ss,
	}
}

// Logout handles http request to close the caller's session.
func (h *Handler) Logout(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	sess := middleware.SessionFrom(gctx)
	if sess == nil {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrNotAuthenticated))
		return
	}

	if err := h.service.Delete(ctx, sess.ID); err != nil {
		if err == domain.ErrSessionNotFound {
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	l.Info().Str("session_id", sess.ID.String()).Msg("logged out")
	gctx.Status(http.StatusNoContent)
}
