package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bank-ledger/model"
	"bank-ledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func tokenFor(t *testing.T, auth *service.AuthService, clientID int, role model.Role) string {
	t.Helper()
	token, _, err := auth.GenerateToken(&model.Client{ID: clientID, ExternalID: int64(clientID), Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	auth := service.NewAuthService("middleware-secret", time.Hour, bcrypt.MinCost)

	var gotID int
	var gotRole model.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotRole, _ = caller(r)
		w.WriteHeader(http.StatusOK)
	})
	h := AuthMiddleware(auth)(next)

	cases := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantCode: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + tokenFor(t, auth, 12, model.RoleClient), wantCode: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}

	assert.Equal(t, 12, gotID)
	assert.Equal(t, model.RoleClient, gotRole)
}

func TestAdminMiddleware(t *testing.T) {
	auth := service.NewAuthService("middleware-secret", time.Hour, bcrypt.MinCost)
	h := AuthMiddleware(auth)(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	t.Run("client is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/banks/1/summary", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, auth, 1, model.RoleClient))
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/banks/1/summary", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, auth, 2, model.RoleAdmin))
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
