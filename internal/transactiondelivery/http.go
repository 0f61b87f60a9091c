// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/branch-bank/internal/accessguard"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/web"
	"github.com/rs/zerolog"
)

// ErrInvalidDateRange is returned when the history range ends before it starts.
var ErrInvalidDateRange = errors.New("to must not be before from")

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Perform(ctx context.Context, customerID string, arg domain.PerformTransactionParams) (domain.TransactionResult, error)
	History(ctx context.Context, scope domain.HistoryScope, filter domain.HistoryFilter, pageSize, pageID int32) ([]domain.HistoryEntry, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

// StatusCode maps an error to the http status reported to the client.
func StatusCode(err error) int {
	switch err {
	case domain.ErrInvalidAmount, domain.ErrUnsupportedTransactionType, domain.ErrInsufficientFunds:
		return http.StatusBadRequest
	case domain.ErrNotAuthenticated:
		return http.StatusUnauthorized
	case domain.ErrAccountNotOwned, domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrAccountNotFound:
		return http.StatusNotFound
	case errorspkg.ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func writeError(gctx *gin.Context, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		err = errorspkg.ErrInternal
	}

	gctx.JSON(code, web.Error(err))
}

type performRequest struct {
	AccountNumber   int64  `json:"account_number" binding:"required,min=1"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
}

// Perform handles http request to deposit to or withdraw from an owned account.
func (h *Handler) Perform(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req performRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	sess := middleware.SessionFrom(gctx)
	if err := accessguard.Check(sess, accessguard.CustomerOnly); err != nil {
		writeError(gctx, err)
		return
	}

	arg := domain.PerformTransactionParams{
		AccountNumber: req.AccountNumber,
		Type:          req.TransactionType,
		Amount:        req.Amount,
	}

	result, err := h.service.Perform(ctx, sess.CustomerID, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

type historyRequest struct {
	PageID          int32  `form:"page_id" binding:"required,min=1"`
	PageSize        int32  `form:"page_size" binding:"required,min=5,max=50"`
	AccountNumber   int64  `form:"account_number" binding:"omitempty,min=1"`
	TransactionType string `form:"transaction_type" binding:"omitempty,transactiontype"`
	From            string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To              string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func (r historyRequest) filter() domain.HistoryFilter {
	f := domain.HistoryFilter{
		AccountNumber: r.AccountNumber,
		Type:          domain.TransactionType(r.TransactionType),
	}

	// Layouts are checked by the binding tags.
	if r.From != "" {
		f.From, _ = time.Parse(domain.DateLayout, r.From)
	}

	if r.To != "" {
		f.To, _ = time.Parse(domain.DateLayout, r.To)
	}

	return f
}

type historyData struct {
	Transactions []domain.HistoryEntry `json:"transactions"`
}

// History handles http request to list ledger entries visible to the caller.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	filter := req.filter()
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		l.Info().Err(ErrInvalidDateRange).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(ErrInvalidDateRange))

		return
	}

	scope, err := accessguard.HistoryScope(middleware.SessionFrom(gctx))
	if err != nil {
		writeError(gctx, err)
		return
	}

	entries, err := h.service.History(ctx, scope, filter, req.PageSize, req.PageID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{Transactions: entries}})
}
