// Package api is the REST collaborator boundary: a thin client over the
// storefront server. It normalizes response shapes at this boundary so
// the stores above it deal with a single canonical form.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shopfront/internal/models"
)

// Error carries a non-2xx HTTP response back to the caller.
type Error struct {
	// Status is the HTTP status code.
	Status int
	// Message is the response body, trimmed.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api: server returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an HTTP 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsForbidden reports whether err is an HTTP 403 from the server.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// ProductPage is the canonical product listing shape, regardless of
// whether the server answered with a bare array or a page envelope.
type ProductPage struct {
	// Items holds the returned products.
	Items []models.Product
	// TotalCount is the server-side total, or len(Items) for bare arrays.
	TotalCount int
}

// Client talks to the storefront REST API. The http.Client it is given
// carries the outbound pipeline (token attachment, error classification).
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given base URL. httpClient must not
// be nil; its transport is expected to be the assembled pipeline.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Register creates an account and returns the issued token and identity.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/account", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/token", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCart fetches the current cart snapshot.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds a product to the cart and returns the new snapshot.
func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	req := models.AddToCartRequest{ProductID: productID, Quantity: quantity}
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/items", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem changes an item's quantity and returns the new snapshot.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	path := fmt.Sprintf("/api/cart/items/%d?quantity=%d", itemID, quantity)
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes an item and returns the new snapshot.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", itemID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart empties the cart server-side.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

// Checkout commits the order and returns the server's plain-text
// confirmation.
func (c *Client) Checkout(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/cart/checkout", nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetWishlist fetches the current wishlist snapshot.
func (c *Client) GetWishlist(ctx context.Context) (*models.Wishlist, error) {
	var wl models.Wishlist
	if err := c.doJSON(ctx, http.MethodGet, "/api/wishlist", nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

// AddWishlistItem saves a product to the wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, productID int64) (*models.Wishlist, error) {
	path := "/api/wishlist/items?productId=" + strconv.FormatInt(productID, 10)
	var wl models.Wishlist
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

// RemoveWishlistItem deletes a saved product.
func (c *Client) RemoveWishlistItem(ctx context.Context, itemID int64) (*models.Wishlist, error) {
	var wl models.Wishlist
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/wishlist/items/%d", itemID), nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

// ClearWishlist empties the wishlist server-side.
func (c *Client) ClearWishlist(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/wishlist", nil, nil)
}

// ListProducts fetches one page of the catalog. The server may answer
// with either a bare JSON array or a {content, totalElements} page
// envelope; both are normalized to a ProductPage here.
func (c *Client) ListProducts(ctx context.Context, page, size int) (*ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	body, err := c.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeProducts(body)
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductByCode fetches a single product by its code.
func (c *Client) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/code/"+url.PathEscape(code), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SendContactMessage submits the contact form.
func (c *Client) SendContactMessage(ctx context.Context, msg models.ContactMessage) error {
	return c.doJSON(ctx, http.MethodPost, "/api/contact", msg, nil)
}

// normalizeProducts converts either listing shape into a ProductPage.
func normalizeProducts(body []byte) (*ProductPage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Product
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("api: invalid product list: %w", err)
		}
		return &ProductPage{Items: items, TotalCount: len(items)}, nil
	}

	var envelope struct {
		Content       []models.Product `json:"content"`
		TotalElements int              `json:"totalElements"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("api: invalid product page: %w", err)
	}
	return &ProductPage{Items: envelope.Content, TotalCount: envelope.TotalElements}, nil
}

// doJSON issues a request with an optional JSON body and decodes the
// JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	var err error
	if in != nil {
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
	}

	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("api: invalid response: %w", err)
	}
	return nil
}

// do performs the request through the pipeline and returns the raw body.
// Non-2xx statuses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(respBody)),
		}
	}
	return respBody, nil
}
