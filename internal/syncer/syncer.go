// Package syncer keeps the displayed catalog in step with cart
// mutations. A cart change means the server has moved stock, so the
// catalog is reloaded from the server rather than decremented locally:
// optimistic decrements can show impossible states when two sessions
// mutate the same product concurrently.
package syncer

import (
	"context"

	"go.uber.org/zap"
)

// CartSource is any store emitting payload-free change notifications.
type CartSource interface {
	Subscribe(fn func()) func()
}

// CatalogSink is the catalog side of the synchronizer.
type CatalogSink interface {
	Reload(ctx context.Context) error
}

// Synchronizer triggers exactly one catalog reload per cart change.
type Synchronizer struct {
	catalog CatalogSink
	log     *zap.Logger
}

// New builds a Synchronizer targeting the given catalog.
func New(catalog CatalogSink, log *zap.Logger) *Synchronizer {
	return &Synchronizer{catalog: catalog, log: log}
}

// Bind subscribes to the cart's change signal and returns the
// unsubscribe func. Reload failures are logged, not propagated: the
// next mutation will trigger another reload anyway, and the cart
// operation that caused the ping has already succeeded.
func (s *Synchronizer) Bind(ctx context.Context, cart CartSource) func() {
	return cart.Subscribe(func() {
		if err := s.catalog.Reload(ctx); err != nil {
			s.log.Warn("catalog refresh after cart change failed", zap.Error(err))
		}
	})
}
