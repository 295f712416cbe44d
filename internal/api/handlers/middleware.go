package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop-service/internal/auth"
	"shop-service/internal/models"
	"shop-service/internal/repository"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware is the auth gate: RequireSignIn verifies the bearer
// token and loads the account, RequireAdmin checks the role. They are
// always composed in that order on privileged routes.
type AuthMiddleware struct {
	tokens *auth.Manager
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens *auth.Manager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func (a *AuthMiddleware) RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}

		// The token only names an account; confirm it still exists.
		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "account no longer exists")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load account")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
			return
		}
		if user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// ContextWithUser is used by tests to seed an authenticated identity.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
