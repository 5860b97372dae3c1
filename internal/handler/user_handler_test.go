package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
)

type mockUserCommander struct {
	createFn func(cqrs.CreateUserCommand) (*models.User, error)
}

func (m *mockUserCommander) CreateUser(_ context.Context, cmd cqrs.CreateUserCommand) (*models.User, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockUserQuerier struct {
	getFn func(cqrs.GetUserQuery) (*models.UserView, error)
}

func (m *mockUserQuerier) GetUser(_ context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

func newUserTestRouter(cmds UserCommander, qrys UserQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(cmds, qrys)
	r.POST("/v1/users", h.CreateUser)
	authed := r.Group("/v1", fakeAuthTx(authUserID))
	authed.GET("/users/:userId", h.GetUser)
	return r
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateUserCommand) (*models.User, error)
		expectedStatus int
	}{
		{
			name: "success - new user registered",
			body: map[string]interface{}{"username": "alice", "password": "hunter2hunter2"},
			createFn: func(cmd cqrs.CreateUserCommand) (*models.User, error) {
				return &models.User{ID: "usr-001", Username: cmd.Username, CreatedAt: time.Now()}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "conflict - username already taken",
			body: map[string]interface{}{"username": "alice", "password": "hunter2hunter2"},
			createFn: func(cmd cqrs.CreateUserCommand) (*models.User, error) {
				return nil, ledger.ErrUsernameTaken
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]interface{}{"username": "alice"},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - password too short",
			body:           map[string]interface{}{"username": "alice", "password": "short"},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - username too short",
			body:           map[string]interface{}{"username": "al", "password": "hunter2hunter2"},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{createFn: tt.createFn}, &mockUserQuerier{}, "")
			w := txDoRequest(router, http.MethodPost, "/v1/users", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		targetID       string
		getFn          func(cqrs.GetUserQuery) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:     "success - own profile",
			targetID: "usr-001",
			getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
				return &models.UserView{ID: "usr-001", Username: "alice", CreatedAt: time.Now()}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "forbidden - another user's profile",
			targetID: "usr-999",
			getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
				return nil, ledger.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:     "not found - unknown user",
			targetID: "usr-001",
			getFn: func(q cqrs.GetUserQuery) (*models.UserView, error) {
				return nil, fmt.Errorf("sql: no rows in result set")
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserCommander{}, &mockUserQuerier{getFn: tt.getFn}, "usr-001")
			w := txDoRequest(router, http.MethodGet, "/v1/users/"+tt.targetID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
