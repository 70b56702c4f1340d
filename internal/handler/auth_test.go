package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-planner-api/internal/auth"
	"github.com/BuzzLyutic/task-planner-api/internal/repo"
	"github.com/BuzzLyutic/task-planner-api/internal/service"
)

func TestAuthHandler(t *testing.T) {
	authService := service.NewAuthService(repo.NewMemoryUserRepo(), auth.Plain{})
	handler := NewAuthHandler(authService, zap.NewNop())

	tests := []struct {
		name     string
		call     http.HandlerFunc
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "signup",
			call:     handler.Signup,
			body:     `{"username":"alice","password":"pw1"}`,
			wantCode: http.StatusOK,
			wantBody: `{"id":1,"username":"alice"}`,
		},
		{
			name:     "signup duplicate",
			call:     handler.Signup,
			body:     `{"username":"alice","password":"other"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Username already exists"}`,
		},
		{
			name:     "signup second user",
			call:     handler.Signup,
			body:     `{"username":"bob","password":"pw2"}`,
			wantCode: http.StatusOK,
			wantBody: `{"id":2,"username":"bob"}`,
		},
		{
			name:     "signup missing password",
			call:     handler.Signup,
			body:     `{"username":"carol"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "login",
			call:     handler.Login,
			body:     `{"username":"alice","password":"pw1"}`,
			wantCode: http.StatusOK,
			wantBody: `{"id":1,"username":"alice"}`,
		},
		{
			name:     "login wrong password",
			call:     handler.Login,
			body:     `{"username":"alice","password":"pw2"}`,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid credentials"}`,
		},
		{
			name:     "login unknown user",
			call:     handler.Login,
			body:     `{"username":"mallory","password":"pw1"}`,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid credentials"}`,
		},
		{
			name:     "login bad json",
			call:     handler.Login,
			body:     `not json`,
			wantCode: http.StatusBadRequest,
		},
	}

	// Cases share one registry and run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			tt.call(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				var body map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}
