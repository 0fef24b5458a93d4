// Package wishlist holds the server-authoritative wishlist snapshot.
// It follows the same rules as the cart store: replace-whole-snapshot on
// success, untouched on failure, payload-free change notifications.
package wishlist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"shopfront/internal/models"
)

// WishlistAPI is the slice of the REST client the wishlist store needs.
type WishlistAPI interface {
	GetWishlist(ctx context.Context) (*models.Wishlist, error)
	AddWishlistItem(ctx context.Context, productID int64) (*models.Wishlist, error)
	RemoveWishlistItem(ctx context.Context, itemID int64) (*models.Wishlist, error)
	ClearWishlist(ctx context.Context) error
}

// Store owns the wishlist snapshot.
type Store struct {
	api WishlistAPI
	log *zap.Logger

	mu       sync.RWMutex
	snapshot *models.Wishlist

	subMu sync.Mutex
	subs  []func()
}

// NewStore builds an empty wishlist store.
func NewStore(api WishlistAPI, log *zap.Logger) *Store {
	return &Store{api: api, log: log}
}

// Subscribe registers a change listener. Wishlist listeners cannot be
// removed; the set is fixed at wiring time.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) replace(wl *models.Wishlist) {
	s.mu.Lock()
	s.snapshot = wl
	s.mu.Unlock()

	s.subMu.Lock()
	fns := append([]func(){}, s.subs...)
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Refresh fetches the current wishlist from the server.
func (s *Store) Refresh(ctx context.Context) error {
	wl, err := s.api.GetWishlist(ctx)
	if err != nil {
		return err
	}
	s.replace(wl)
	return nil
}

// Add saves a product to the wishlist.
func (s *Store) Add(ctx context.Context, productID int64) error {
	wl, err := s.api.AddWishlistItem(ctx, productID)
	if err != nil {
		return err
	}
	s.log.Debug("product saved to wishlist", zap.Int64("product_id", productID))
	s.replace(wl)
	return nil
}

// Remove deletes a saved product.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	wl, err := s.api.RemoveWishlistItem(ctx, itemID)
	if err != nil {
		return err
	}
	s.replace(wl)
	return nil
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.api.ClearWishlist(ctx); err != nil {
		return err
	}
	s.replace(nil)
	return nil
}

// Snapshot returns a copy of the current wishlist, or nil when empty.
func (s *Store) Snapshot() *models.Wishlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	wl := *s.snapshot
	wl.Items = append([]models.WishlistItem(nil), s.snapshot.Items...)
	return &wl
}

// ItemCount is the number of saved products, recomputed on every read.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return 0
	}
	return len(s.snapshot.Items)
}
