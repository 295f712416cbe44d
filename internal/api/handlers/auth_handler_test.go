package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"shop-service/internal/auth"
	"shop-service/internal/models"
)

func newAuthFixture(t *testing.T) (*AuthHandler, *fakeUserRepo, *fakeOrderRepo, *auth.Manager) {
	t.Helper()
	users := newFakeUserRepo()
	orders := newFakeOrderRepo()
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewAuthHandler(users, orders, tokens), users, orders, tokens
}

func registerBody(email string) string {
	return `{"name":"Ada","email":"` + email + `","password":"secret1","phone":"555-0100","address":"1 Main St"}`
}

func TestRegisterSuccess(t *testing.T) {
	h, users, _, _ := newAuthFixture(t)

	w := httptest.NewRecorder()
	h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", registerBody("ada@example.com")))

	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(t, w)
	require.Equal(t, true, resp["success"])

	payload := resp["user"].(map[string]any)
	require.Equal(t, "ada@example.com", payload["email"])
	require.Equal(t, float64(models.RoleStandard), payload["role"])
	// The hash never leaves the server.
	require.NotContains(t, payload, "password")

	stored, err := users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", stored.Password)
	require.True(t, auth.CheckPassword(stored.Password, "secret1"))
}

func TestRegisterValidation(t *testing.T) {
	h, _, _, _ := newAuthFixture(t)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing email", `{"name":"Ada","password":"secret1","phone":"p","address":"a"}`, "email is required"},
		{"bad email", `{"name":"Ada","email":"not-an-email","password":"secret1","phone":"p","address":"a"}`, "invalid email format"},
		{"short password", `{"name":"Ada","email":"ada@example.com","password":"abc","phone":"p","address":"a"}`, "password is too short"},
		{"missing name", `{"email":"ada@example.com","password":"secret1","phone":"p","address":"a"}`, "name is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", tc.body))
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, tc.message, decodeBody(t, w)["message"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _, _, _ := newAuthFixture(t)

	w := httptest.NewRecorder()
	h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", registerBody("ada@example.com")))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", registerBody("ada@example.com")))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	h, _, _, tokens := newAuthFixture(t)

	w := httptest.NewRecorder()
	h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", registerBody("ada@example.com")))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Login(w, jsonReq(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"secret1"}`))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)

	token, ok := resp["token"].(string)
	require.True(t, ok)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, float64(userID), resp["user"].(map[string]any)["user_id"])
}

func TestLoginRejections(t *testing.T) {
	h, _, _, _ := newAuthFixture(t)

	w := httptest.NewRecorder()
	h.Register(w, jsonReq(http.MethodPost, "/api/v1/auth/register", registerBody("ada@example.com")))
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown email and wrong password answer identically.
	for name, body := range map[string]string{
		"unknown email":  `{"email":"nobody@example.com","password":"secret1"}`,
		"wrong password": `{"email":"ada@example.com","password":"wrong-pass"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Login(w, jsonReq(http.MethodPost, "/api/v1/auth/login", body))
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Equal(t, "invalid email or password", decodeBody(t, w)["message"])
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	h, users, _, _ := newAuthFixture(t)

	user := models.User{Name: "Ada", Email: "ada@example.com", Password: "old-hash", Phone: "555-0100"}
	require.NoError(t, users.Create(context.Background(), &user))

	req := jsonReq(http.MethodPut, "/api/v1/auth/profile", `{"name":"Ada L.","password":"newsecret"}`)
	req = req.WithContext(ContextWithUser(req.Context(), &user))

	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := users.GetByID(context.Background(), user.UserID)
	require.NoError(t, err)
	require.Equal(t, "Ada L.", stored.Name)
	// Untouched fields survive.
	require.Equal(t, "555-0100", stored.Phone)
	require.True(t, auth.CheckPassword(stored.Password, "newsecret"))
}

func TestUpdateProfileShortPassword(t *testing.T) {
	h, users, _, _ := newAuthFixture(t)

	user := models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, users.Create(context.Background(), &user))

	req := jsonReq(http.MethodPut, "/api/v1/auth/profile", `{"password":"abc"}`)
	req = req.WithContext(ContextWithUser(req.Context(), &user))

	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrdersScopedToBuyer(t *testing.T) {
	h, _, orders, _ := newAuthFixture(t)

	mine := models.Order{BuyerID: 1, Status: models.StatusNotProcessed}
	theirs := models.Order{BuyerID: 2, Status: models.StatusNotProcessed}
	item := []models.OrderItem{{ProductID: 1, Name: "Blue Shirt", Price: 25.50, Quantity: 1}}
	require.NoError(t, orders.Create(context.Background(), &mine, item))
	require.NoError(t, orders.Create(context.Background(), &theirs, item))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/orders", nil)
	req = req.WithContext(ContextWithUser(req.Context(), &models.User{UserID: 1}))

	w := httptest.NewRecorder()
	h.GetOrders(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)["orders"].([]any)
	require.Len(t, got, 1)
	require.Equal(t, float64(1), got[0].(map[string]any)["buyer_id"])
}

func TestUpdateOrderStatus(t *testing.T) {
	h, _, orders, _ := newAuthFixture(t)

	order := models.Order{BuyerID: 1, Status: models.StatusNotProcessed}
	item := []models.OrderItem{{ProductID: 1, Name: "Blue Shirt", Price: 25.50, Quantity: 1}}
	require.NoError(t, orders.Create(context.Background(), &order, item))

	router := chi.NewRouter()
	router.Put("/auth/order-status/{id}", h.UpdateOrderStatus)

	put := func(id, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonReq(http.MethodPut, "/auth/order-status/"+id, body))
		return w
	}

	w := put("1", `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.StatusShipped, orders.orders[0].Status)

	require.Equal(t, http.StatusBadRequest, put("1", `{"status":"teleported"}`).Code)
	require.Equal(t, http.StatusNotFound, put("99", `{"status":"shipped"}`).Code)
	require.Equal(t, http.StatusBadRequest, put("abc", `{"status":"shipped"}`).Code)
}

func TestProbe(t *testing.T) {
	h, _, _, _ := newAuthFixture(t)

	w := httptest.NewRecorder()
	h.Probe(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/user-auth", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["ok"])
}
