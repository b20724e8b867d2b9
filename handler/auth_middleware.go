package handler

import (
	"context"
	"net/http"
	"strings"

	"bank-ledger/common"
	"bank-ledger/model"
	"bank-ledger/service"
)

type contextKey string

const (
	ClientIDKey   contextKey = "clientID"
	ClientRoleKey contextKey = "clientRole"
)

// AuthMiddleware requires a valid bearer token and puts the caller's client id
// and role into the request context.
func AuthMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := auth.ParseToken(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, claims.ClientID)
			ctx = context.WithValue(ctx, ClientRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(ClientRoleKey).(model.Role)
		if !ok || role != model.RoleAdmin {
			common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil).Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// caller returns the authenticated client id and role from the request context.
func caller(r *http.Request) (int, model.Role, *common.AppError) {
	clientID, ok := r.Context().Value(ClientIDKey).(int)
	if !ok {
		return 0, "", common.NewAppError(http.StatusUnauthorized, "Invalid client ID in token", nil)
	}
	role, _ := r.Context().Value(ClientRoleKey).(model.Role)
	return clientID, role, nil
}
