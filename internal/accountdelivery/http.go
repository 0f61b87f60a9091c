// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, customerID string, number int64) (domain.Account, error)
	List(ctx context.Context, customerID string, pageSize, pageID int32) ([]domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type accountData struct {
	Account domain.Account `json:"account"`
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

func writeServiceError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotOwned:
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errorspkg.ErrStoreUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type getRequest struct {
	Number int64 `uri:"number" binding:"required,min=1"`
}

// Get handles http request to get one of the caller's accounts.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	sess := middleware.SessionFrom(gctx)
	if sess == nil {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrNotAuthenticated))
		return
	}

	acc, err := h.service.Get(ctx, sess.CustomerID, req.Number)
	if err != nil {
		writeServiceError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountData{Account: acc}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=5,max=20"`
}

// List handles http request to list the caller's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	sess := middleware.SessionFrom(gctx)
	if sess == nil {
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrNotAuthenticated))
		return
	}

	accounts, err := h.service.List(ctx, sess.CustomerID, req.PageSize, req.PageID)
	if err != nil {
		writeServiceError(gctx, err)
		return
	}

	if accounts == nil {
		accounts = []domain.Account{}
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{Accounts: accounts}})
}
