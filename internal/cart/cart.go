// Package cart holds the server-authoritative cart snapshot and its
// derived views. Every mutation is one round-trip: on success the whole
// snapshot is replaced with the server's cart and subscribers are
// pinged; on failure the snapshot is left exactly as it was. There is
// no optimistic local mutation, so the client can never drift from the
// server's inventory truth.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"shopfront/internal/models"
)

// CartAPI is the slice of the REST client the cart store needs.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) (*models.Cart, error)
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) (string, error)
}

// Store owns the cart snapshot. Change notifications are payload-free:
// subscribers re-read whatever derived view they need, which keeps them
// decoupled from the snapshot's shape.
type Store struct {
	api CartAPI
	log *zap.Logger

	mu       sync.RWMutex
	snapshot *models.Cart

	subMu  sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func()
}

// NewStore builds an empty cart store.
func NewStore(api CartAPI, log *zap.Logger) *Store {
	return &Store{api: api, log: log}
}

// Subscribe registers a change listener and returns its unsubscribe
// func. Listeners run synchronously on the mutating goroutine, outside
// the store lock, in registration order.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify pings every subscriber once.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// replace installs the new authoritative snapshot and pings subscribers.
func (s *Store) replace(cart *models.Cart) {
	s.mu.Lock()
	s.snapshot = cart
	s.mu.Unlock()
	s.notify()
}

// Refresh fetches the current cart from the server.
func (s *Store) Refresh(ctx context.Context) error {
	cart, err := s.api.GetCart(ctx)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

// Add puts quantity units of a product into the cart.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	cart, err := s.api.AddCartItem(ctx, productID, quantity)
	if err != nil {
		return err
	}
	s.log.Debug("item added to cart", zap.Int64("product_id", productID), zap.Int("quantity", quantity))
	s.replace(cart)
	return nil
}

// UpdateQuantity sets the quantity of an existing cart item.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	cart, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

// Remove deletes a cart item.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	cart, err := s.api.RemoveCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.api.ClearCart(ctx); err != nil {
		return err
	}
	s.replace(nil)
	return nil
}

// Checkout commits the order. On success the server has consumed the
// cart, so the snapshot is dropped; on failure it is untouched. Returns
// the server's confirmation text.
func (s *Store) Checkout(ctx context.Context) (string, error) {
	confirmation, err := s.api.Checkout(ctx)
	if err != nil {
		return "", err
	}
	s.log.Info("order placed", zap.String("confirmation", confirmation))
	s.replace(nil)
	return confirmation, nil
}

// Snapshot returns a copy of the current cart, or nil when empty.
func (s *Store) Snapshot() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	c := *s.snapshot
	c.Items = append([]models.CartItem(nil), s.snapshot.Items...)
	return &c
}

// ItemCount is the sum of quantities across the current snapshot,
// recomputed on every read.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return 0
	}
	total := 0
	for _, item := range s.snapshot.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity across the current
// snapshot, recomputed on every read.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return 0
	}
	var total float64
	for _, item := range s.snapshot.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}
