package transactiondelivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/pkg/errorspkg"
	"github.com/go-petr/branch-bank/pkg/randompkg"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("transactiontype", ValidTransactionType); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

func newServer(h *Handler, sess *domain.Session) *gin.Engine {
	server := gin.New()

	setSession := func(gctx *gin.Context) {
		if sess != nil {
			gctx.Set(middleware.SessionKey, sess)
		}
	}

	server.POST("/transactions", setSession, h.Perform)
	server.GET("/transactions", setSession, h.History)

	return server
}

type performResponse struct {
	Data  domain.TransactionResult `json:"data"`
	Error string                   `json:"error"`
}

func TestPerform(t *testing.T) {
	t.Parallel()

	customerID := randompkg.CustomerID()
	customer := &domain.Session{Username: "jdoe", Role: domain.RoleCustomer, CustomerID: customerID}
	employee := &domain.Session{Username: "teller", Role: domain.RoleEmployee}

	result := domain.TransactionResult{
		Account: domain.Account{
			Number:         1001,
			Type:           domain.Checking,
			Balance:        "150.00",
			LastAccessDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			InterestRate:   "0.00",
		},
		Transaction: domain.Transaction{
			ID:            1,
			Type:          domain.Deposit,
			Date:          "2024-03-14",
			Time:          "09:26:53",
			Amount:        "50.00",
			Charge:        "0.50",
			AccountNumber: 1001,
		},
	}

	validBody := gin.H{
		"account_number":   1001,
		"transaction_type": "Deposit",
		"amount":           "50.00",
	}

	wantArg := domain.PerformTransactionParams{
		AccountNumber: 1001,
		Type:          "Deposit",
		Amount:        "50.00",
	}

	serviceError := func(err error) func(service *MockService) {
		return func(service *MockService) {
			service.EXPECT().
				Perform(gomock.Any(), gomock.Eq(customerID), gomock.Eq(wantArg)).
				Times(1).
				Return(domain.TransactionResult{}, err)
		}
	}

	testCases := []struct {
		name           string
		sess           *domain.Session
		body           gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			sess: customer,
			body: validBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Perform(gomock.Any(), gomock.Eq(customerID), gomock.Eq(wantArg)).
					Times(1).
					Return(result, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "AccountNotOwned",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(domain.ErrAccountNotOwned),
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrAccountNotOwned.Error(),
		},
		{
			name:           "InvalidAmount",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(domain.ErrInvalidAmount),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:           "UnsupportedTransactionType",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(domain.ErrUnsupportedTransactionType),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrUnsupportedTransactionType.Error(),
		},
		{
			name:           "InsufficientFunds",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(domain.ErrInsufficientFunds),
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name:           "StoreUnavailable",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(errorspkg.ErrStoreUnavailable),
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      errorspkg.ErrStoreUnavailable.Error(),
		},
		{
			name:           "PartialCommit",
			sess:           customer,
			body:           validBody,
			buildStubs:     serviceError(domain.ErrPartialCommit),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
		{
			name: "Employee",
			sess: employee,
			body: validBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().Perform(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrForbidden.Error(),
		},
		{
			name: "NoSession",
			body: validBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().Perform(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrNotAuthenticated.Error(),
		},
		{
			name: "MissingAmount",
			sess: customer,
			body: gin.H{
				"account_number":   1001,
				"transaction_type": "Deposit",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Perform(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newServer(NewHandler(service), tc.sess)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))

			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			var got performResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
			require.Equal(t, tc.wantError, got.Error)

			if tc.wantError == "" {
				if diff := cmp.Diff(result, got.Data); diff != "" {
					t.Errorf("result mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

type historyResponse struct {
	Data  historyData `json:"data"`
	Error string      `json:"error"`
}

func TestHistory(t *testing.T) {
	t.Parallel()

	customerID := randompkg.CustomerID()
	customer := &domain.Session{Username: "jdoe", Role: domain.RoleCustomer, CustomerID: customerID}
	employee := &domain.Session{Username: "teller", Role: domain.RoleEmployee}

	entries := []domain.HistoryEntry{
		{
			Transaction: domain.Transaction{
				ID:            2,
				Type:          domain.Withdrawal,
				Date:          "2024-03-14",
				Time:          "09:30:00",
				Amount:        "150.00",
				Charge:        "1.00",
				AccountNumber: 1001,
			},
			AccountType:  domain.Checking,
			CustomerID:   customerID,
			CustomerName: "Jane Doe",
		},
	}

	testCases := []struct {
		name           string
		sess           *domain.Session
		query          string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		wantEntries    []domain.HistoryEntry
	}{
		{
			name:  "EmployeeSeesAll",
			sess:  employee,
			query: "?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					History(gomock.Any(), gomock.Eq(domain.AllHistory()), gomock.Eq(domain.HistoryFilter{}),
						gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Times(1).
					Return(entries, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEntries:    entries,
		},
		{
			name:  "CustomerWithFilters",
			sess:  customer,
			query: "?page_id=2&page_size=5&account_number=1001&transaction_type=Withdrawal&from=2024-03-01&to=2024-03-31",
			buildStubs: func(service *MockService) {
				filter := domain.HistoryFilter{
					AccountNumber: 1001,
					Type:          domain.Withdrawal,
					From:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
					To:            time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
				}
				service.EXPECT().
					History(gomock.Any(), gomock.Eq(domain.CustomerHistory(customerID)), gomock.Eq(filter),
						gomock.Eq(int32(5)), gomock.Eq(int32(2))).
					Times(1).
					Return(entries, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEntries:    entries,
		},
		{
			name:  "EmptyPage",
			sess:  customer,
			query: "?page_id=9&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEntries:    []domain.HistoryEntry{},
		},
		{
			name:  "UnsupportedTypeFilter",
			sess:  employee,
			query: "?page_id=1&page_size=10&transaction_type=Transfer",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "TransactionType is not supported",
		},
		{
			name:  "BadDate",
			sess:  employee,
			query: "?page_id=1&page_size=10&from=14-03-2024",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "From must match layout 2006-01-02",
		},
		{
			name:  "RangeEndsBeforeStart",
			sess:  employee,
			query: "?page_id=1&page_size=10&from=2024-03-31&to=2024-03-01",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      ErrInvalidDateRange.Error(),
		},
		{
			name:  "SingleDayRange",
			sess:  employee,
			query: "?page_id=1&page_size=10&from=2024-03-14&to=2024-03-14",
			buildStubs: func(service *MockService) {
				day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
				service.EXPECT().
					History(gomock.Any(), gomock.Eq(domain.AllHistory()), gomock.Eq(domain.HistoryFilter{From: day, To: day}),
						gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Times(1).
					Return(entries, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEntries:    entries,
		},
		{
			name:  "NoSession",
			query: "?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrNotAuthenticated.Error(),
		},
		{
			name:  "CustomerWithoutID",
			sess:  &domain.Session{Username: "ghost", Role: domain.RoleCustomer},
			query: "?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrForbidden.Error(),
		},
		{
			name:  "InternalError",
			sess:  employee,
			query: "?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, errors.New("connection reset"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newServer(NewHandler(service), tc.sess)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/transactions"+tc.query, nil)

			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			var got historyResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
			require.Equal(t, tc.wantError, got.Error)

			if tc.wantEntries != nil {
				if diff := cmp.Diff(tc.wantEntries, got.Data.Transactions); diff != "" {
					t.Errorf("entries mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusBadRequest, StatusCode(domain.ErrInvalidAmount))
	require.Equal(t, http.StatusBadRequest, StatusCode(domain.ErrUnsupportedTransactionType))
	require.Equal(t, http.StatusBadRequest, StatusCode(domain.ErrInsufficientFunds))
	require.Equal(t, http.StatusForbidden, StatusCode(domain.ErrAccountNotOwned))
	require.Equal(t, http.StatusUnauthorized, StatusCode(domain.ErrNotAuthenticated))
	require.Equal(t, http.StatusForbidden, StatusCode(domain.ErrForbidden))
	require.Equal(t, http.StatusServiceUnavailable, StatusCode(errorspkg.ErrStoreUnavailable))
	require.Equal(t, http.StatusInternalServerError, StatusCode(domain.ErrPartialCommit))
}
