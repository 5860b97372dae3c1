package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
)

// ---- mock implementations ----

type mockTransactionCommander struct {
	postFn func(cqrs.PostTransactionCommand) (*models.TransactionView, error)
}

func (m *mockTransactionCommander) PostTransaction(_ context.Context, cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
	if m.postFn != nil {
		return m.postFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockTransactionQuerier struct {
	getFn  func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	listFn func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

func (m *mockTransactionQuerier) GetTransaction(_ context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionQuerier) ListTransactions(_ context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuthTx(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newTxTestRouter(cmds TransactionCommander, qrys TransactionQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthTx(authUserID))
	h := NewTransactionHandler(cmds, qrys)
	v1 := r.Group("/v1/accounts/:accountId/transactions")
	v1.POST("", h.PostTransaction)
	v1.GET("", h.ListTransactions)
	v1.GET("/:transactionId", h.GetTransaction)
	return r
}

func txDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var txTestView = &models.TransactionView{
	ID: "tan-001", AccountID: "acc-001", UserID: "usr-001",
	Amount: 50.00, Currency: "GBP", Kind: "deposit",
	CreatedAt: time.Now(),
}

func txDepositBody() map[string]interface{} {
	return map[string]interface{}{"amount": 50.0, "type": "deposit"}
}

func txWithdrawBody() map[string]interface{} {
	return map[string]interface{}{"amount": 25.0, "type": "withdraw"}
}

// ---- tests ----

func TestPostTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		accountID      string
		body           interface{}
		postFn         func(cqrs.PostTransactionCommand) (*models.TransactionView, error)
		expectedStatus int
	}{
		{
			name:      "success - deposit into own account",
			accountID: "acc-001",
			body:      txDepositBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return txTestView, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "success - withdraw from own account",
			accountID: "acc-001",
			body:      txWithdrawBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return txTestView, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "unprocessable entity - insufficient balance",
			accountID: "acc-001",
			body:      txWithdrawBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return nil, ledger.ErrInsufficientBalance
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:      "forbidden - transact on another user's account",
			accountID: "acc-999",
			body:      txDepositBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return nil, ledger.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - account does not exist",
			accountID: "acc-000",
			body:      txDepositBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return nil, ledger.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:      "service unavailable - retry budget exhausted",
			accountID: "acc-001",
			body:      txDepositBody(),
			postFn: func(cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
				return nil, fmt.Errorf("%w: connection reset", ledger.ErrUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "bad request - missing required fields",
			accountID:      "acc-001",
			body:           map[string]interface{}{},
			postFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - amount is zero",
			accountID:      "acc-001",
			body:           map[string]interface{}{"amount": 0, "type": "deposit"},
			postFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unknown transaction type",
			accountID:      "acc-001",
			body:           map[string]interface{}{"amount": 10.0, "type": "transfer"},
			postFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{postFn: tt.postFn}
			router := newTxTestRouter(cmds, &mockTransactionQuerier{}, "usr-001")
			url := "/v1/accounts/" + tt.accountID + "/transactions"
			w := txDoRequest(router, http.MethodPost, url, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactionsHandler(t *testing.T) {
	tests := []struct {
		name           string
		accountID      string
		listFn         func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
		expectedStatus int
	}{
		{
			name:      "success - list transactions on own account",
			accountID: "acc-001",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return []models.TransactionView{*txTestView}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "success - empty log serialises as empty array",
			accountID: "acc-001",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "forbidden - another user's account",
			accountID: "acc-999",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, ledger.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - account does not exist",
			accountID: "acc-000",
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				return nil, ledger.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{listFn: tt.listFn}, "usr-001")
			url := "/v1/accounts/" + tt.accountID + "/transactions"
			w := txDoRequest(router, http.MethodGet, url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && !strings.Contains(w.Body.String(), `"transactions":[`) {
				t.Errorf("[%s] expected transactions array in body: %s", tt.name, w.Body.String())
			}
		})
	}
}

func TestGetTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		accountID      string
		transactionID  string
		getFn          func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
		expectedStatus int
	}{
		{
			name:      "success - fetch transaction on own account",
			accountID: "acc-001", transactionID: "tan-001",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return txTestView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "forbidden - another user's account",
			accountID: "acc-999", transactionID: "tan-001",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, ledger.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - transaction does not exist",
			accountID: "acc-001", transactionID: "tan-999",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, ledger.ErrTransactionNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:      "not found - account does not exist",
			accountID: "acc-000", transactionID: "tan-001",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, ledger.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{getFn: tt.getFn}, "usr-001")
			url := "/v1/accounts/" + tt.accountID + "/transactions/" + tt.transactionID
			w := txDoRequest(router, http.MethodGet, url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
