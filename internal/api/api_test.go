package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
)

// newFakeShop starts an httptest server around the given router and
// returns a Client pointed at it.
func newFakeShop(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

func TestListProducts_BareArray(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "0", req.URL.Query().Get("page"))
		assert.Equal(t, "50", req.URL.Query().Get("size"))
		_ = json.NewEncoder(w).Encode([]models.Product{
			{ID: 1, Name: "Keyboard"},
			{ID: 2, Name: "Mouse"},
		})
	})

	client := newFakeShop(t, r)
	page, err := client.ListProducts(context.Background(), 0, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalCount)
}

func TestListProducts_PageEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":       []models.Product{{ID: 1, Name: "Keyboard"}},
			"totalElements": 37,
		})
	})

	client := newFakeShop(t, r)
	page, err := client.ListProducts(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 37, page.TotalCount)
}

func TestListProducts_InvalidBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	})

	client := newFakeShop(t, r)
	_, err := client.ListProducts(context.Background(), 0, 10)
	assert.Error(t, err)
}

func TestErrorMapping(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/cart", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	})
	r.Delete("/api/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "admins only", http.StatusForbidden)
	})
	r.Post("/api/contact", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "message too long", http.StatusBadRequest)
	})

	client := newFakeShop(t, r)
	ctx := context.Background()

	_, err := client.GetCart(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsForbidden(err))

	err = client.SendContactMessage(ctx, models.ContactMessage{})
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "message too long", apiErr.Message)
}

func TestCartEndpoints(t *testing.T) {
	now := []models.CartItem{{
		ID:       7,
		Product:  models.Product{ID: 3, Name: "Keyboard", Price: 49.9},
		Quantity: 2,
	}}

	r := chi.NewRouter()
	r.Post("/api/cart/items", func(w http.ResponseWriter, req *http.Request) {
		var body models.AddToCartRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, int64(3), body.ProductID)
		assert.Equal(t, 2, body.Quantity)
		_ = json.NewEncoder(w).Encode(models.Cart{ID: 1, Items: now})
	})
	r.Put("/api/cart/items/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "7", chi.URLParam(req, "id"))
		assert.Equal(t, "5", req.URL.Query().Get("quantity"))
		_ = json.NewEncoder(w).Encode(models.Cart{ID: 1, Items: now})
	})
	r.Post("/api/cart/checkout", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("Order #42 confirmed\n"))
	})

	client := newFakeShop(t, r)
	ctx := context.Background()

	cart, err := client.AddCartItem(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	_, err = client.UpdateCartItem(ctx, 7, 5)
	require.NoError(t, err)

	confirmation, err := client.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Order #42 confirmed", confirmation)
}

func TestAuthEndpoints(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/account", func(w http.ResponseWriter, req *http.Request) {
		var body models.RegisterRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token:    "new-token",
			Username: body.Username,
			Email:    body.Email,
		})
	})
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AuthResponse{Token: "login-token", Username: "alice"})
	})

	client := newFakeShop(t, r)
	ctx := context.Background()

	resp, err := client.Register(ctx, models.RegisterRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new-token", resp.Token)
	assert.Equal(t, "bob", resp.Username)

	resp, err = client.Login(ctx, models.LoginRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "login-token", resp.Token)
}

func TestGetProductByCode(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products/code/{code}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "KB-01", chi.URLParam(req, "code"))
		_ = json.NewEncoder(w).Encode(models.Product{ID: 3, Code: "KB-01"})
	})

	client := newFakeShop(t, r)
	p, err := client.GetProductByCode(context.Background(), "KB-01")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}
