// Package models defines the core data structures exchanged with the
// storefront API: products, carts, wishlists, users, and auth payloads.
package models

import "time"

// InventoryStatus classifies the stock level of a product.
type InventoryStatus string

const (
	// InStock means the product is freely available.
	InStock InventoryStatus = "INSTOCK"
	// LowStock means only a few units remain.
	LowStock InventoryStatus = "LOWSTOCK"
	// OutOfStock means the product cannot currently be ordered.
	OutOfStock InventoryStatus = "OUTOFSTOCK"
)

// Product is a catalog entry as returned by the server. Quantity and
// InventoryStatus are server-owned stock truth and are never modified
// on the client.
type Product struct {
	// ID is the unique identifier for the product.
	ID int64 `json:"id"`
	// Code is the human-facing product reference.
	Code string `json:"code"`
	// Name is the display name.
	Name string `json:"name"`
	// Description is the long-form description text.
	Description string `json:"description"`
	// Image is the product image URL or asset name.
	Image string `json:"image"`
	// Category groups products for filtering.
	Category string `json:"category"`
	// Price is the unit price. Always >= 0.
	Price float64 `json:"price"`
	// Quantity is the server-owned stock count. Always >= 0.
	Quantity int `json:"quantity"`
	// InternalReference is the warehouse reference.
	InternalReference string `json:"internalReference,omitempty"`
	// ShellID identifies the shelving unit.
	ShellID int64 `json:"shellId,omitempty"`
	// InventoryStatus classifies Quantity into stock bands.
	InventoryStatus InventoryStatus `json:"inventoryStatus"`
	// Rating is the average customer rating.
	Rating float64 `json:"rating,omitempty"`
	// CreatedAt is the server-side creation timestamp.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	// UpdatedAt is the server-side last-modification timestamp.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CartItem is one line of a cart: a full product value plus the chosen
// quantity.
type CartItem struct {
	// ID is the cart-item identifier used for update and remove calls.
	ID int64 `json:"id"`
	// Product is the full product value at the time it was added.
	Product Product `json:"product"`
	// Quantity is the number of units. Always >= 1.
	Quantity int `json:"quantity"`
	// AddedAt records when the item entered the cart.
	AddedAt *time.Time `json:"addedAt,omitempty"`
}

// Cart is the server's authoritative view of the shopping cart.
type Cart struct {
	// ID is the cart identifier.
	ID int64 `json:"id"`
	// Items holds the cart lines.
	Items []CartItem `json:"items"`
	// CreatedAt is when the cart was created server-side.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	// UpdatedAt is when the cart last changed server-side.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// WishlistItem is one saved product on a wishlist.
type WishlistItem struct {
	// ID is the wishlist-item identifier used for remove calls.
	ID int64 `json:"id"`
	// Product is the full saved product value.
	Product Product `json:"product"`
	// AddedAt records when the product was saved.
	AddedAt *time.Time `json:"addedAt,omitempty"`
}

// Wishlist is the server's authoritative view of the wishlist.
type Wishlist struct {
	// ID is the wishlist identifier.
	ID int64 `json:"id"`
	// Items holds the saved products.
	Items []WishlistItem `json:"items"`
}

// User is the identity record of the signed-in customer.
type User struct {
	// Username is the login name chosen at registration.
	Username string `json:"username"`
	// Firstname is the customer's first name.
	Firstname string `json:"firstname"`
	// Email is the account email, also used for the admin role check.
	Email string `json:"email"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	// Username is the desired login name.
	Username string `json:"username"`
	// Firstname is the customer's first name.
	Firstname string `json:"firstname"`
	// Email is the account email.
	Email string `json:"email"`
	// Password is the plaintext password, sent once over TLS.
	Password string `json:"password"`
}

// LoginRequest is the payload for token acquisition.
type LoginRequest struct {
	// Email identifies the account.
	Email string `json:"email"`
	// Password is the plaintext password.
	Password string `json:"password"`
}

// AuthResponse is returned by both the register and login endpoints.
type AuthResponse struct {
	// Token is the bearer token for subsequent requests.
	Token string `json:"token"`
	// Email echoes the account email.
	Email string `json:"email"`
	// Username echoes the login name.
	Username string `json:"username"`
}

// ContactMessage is the payload for the contact form endpoint.
type ContactMessage struct {
	// Email is the sender's address.
	Email string `json:"email"`
	// Message is the free-form message body.
	Message string `json:"message"`
}

// AddToCartRequest asks the server to add a product to the cart.
type AddToCartRequest struct {
	// ProductID identifies the product to add.
	ProductID int64 `json:"productId"`
	// Quantity is the number of units to add. Always >= 1.
	Quantity int `json:"quantity"`
}
