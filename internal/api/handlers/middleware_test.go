package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shop-service/internal/auth"
	"shop-service/internal/models"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *fakeUserRepo, *auth.Manager) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, users), users, tokens
}

func okProbe(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireSignInNoToken(t *testing.T) {
	mw, _, _ := newTestAuth(t)
	next, called := okProbe(t)

	w := httptest.NewRecorder()
	mw.RequireSignIn(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, *called)
}

func TestRequireSignInMalformedToken(t *testing.T) {
	mw, _, _ := newTestAuth(t)
	next, called := okProbe(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	mw.RequireSignIn(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, *called)
}

func TestRequireSignInExpiredToken(t *testing.T) {
	mw, users, _ := newTestAuth(t)
	expired := auth.NewManager("test-secret", -time.Minute)

	u := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), &u))

	token, err := expired.Issue(u.UserID)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	next, called := okProbe(t)
	w := httptest.NewRecorder()
	mw.RequireSignIn(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, *called)
}

func TestRequireSignInDeletedAccount(t *testing.T) {
	mw, _, tokens := newTestAuth(t)

	// Token for a user id that was never created.
	token, err := tokens.Issue(999)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	next, called := okProbe(t)
	w := httptest.NewRecorder()
	mw.RequireSignIn(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, *called)
}

func TestRequireSignInAttachesUser(t *testing.T) {
	mw, users, tokens := newTestAuth(t)

	u := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), &u))

	token, err := tokens.Issue(u.UserID)
	require.NoError(t, err)

	var got *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	for _, header := range []string{"Bearer " + token, token} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)

		w := httptest.NewRecorder()
		mw.RequireSignIn(next).ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		require.Equal(t, u.UserID, got.UserID)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, _, _ := newTestAuth(t)

	cases := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"standard user forbidden", &models.User{UserID: 1, Role: models.RoleStandard}, http.StatusForbidden},
		{"admin allowed", &models.User{UserID: 2, Role: models.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, called := okProbe(t)

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(ContextWithUser(r.Context(), tc.user))

			w := httptest.NewRecorder()
			mw.RequireAdmin(next).ServeHTTP(w, r)

			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.status == http.StatusOK, *called)
		})
	}
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	mw, _, _ := newTestAuth(t)
	next, called := okProbe(t)

	w := httptest.NewRecorder()
	mw.RequireAdmin(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, *called)
}
