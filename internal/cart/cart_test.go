package cart

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shopfront/internal/models"
)

// fakeCartAPI scripts server responses for the store under test.
type fakeCartAPI struct {
	cart *models.Cart
	err  error
}

func (f *fakeCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeCartAPI) AddCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeCartAPI) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeCartAPI) RemoveCartItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	return f.cart, f.err
}

func (f *fakeCartAPI) ClearCart(ctx context.Context) error {
	return f.err
}

func (f *fakeCartAPI) Checkout(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Order placed successfully", nil
}

func cartWith(items ...models.CartItem) *models.Cart {
	return &models.Cart{ID: 1, Items: items}
}

func TestDerivedViews(t *testing.T) {
	fake := &fakeCartAPI{cart: cartWith(
		models.CartItem{ID: 1, Product: models.Product{ID: 10, Price: 100}, Quantity: 2},
	)}
	s := NewStore(fake, zap.NewNop())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := s.ItemCount(); got != 2 {
		t.Errorf("expected item count 2, got %d", got)
	}
	if got := s.TotalPrice(); got != 200 {
		t.Errorf("expected total 200, got %v", got)
	}

	// derived views recompute when the snapshot is replaced
	fake.cart = cartWith(
		models.CartItem{ID: 1, Product: models.Product{ID: 10, Price: 100}, Quantity: 3},
		models.CartItem{ID: 2, Product: models.Product{ID: 11, Price: 5.5}, Quantity: 2},
	)
	if err := s.UpdateQuantity(context.Background(), 1, 3); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if got := s.ItemCount(); got != 5 {
		t.Errorf("expected item count 5, got %d", got)
	}
	if got := s.TotalPrice(); got != 311 {
		t.Errorf("expected total 311, got %v", got)
	}
}

func TestEmptyStore(t *testing.T) {
	s := NewStore(&fakeCartAPI{}, zap.NewNop())
	if s.Snapshot() != nil {
		t.Error("expected nil snapshot before any fetch")
	}
	if s.ItemCount() != 0 || s.TotalPrice() != 0 {
		t.Error("expected zero derived views for empty store")
	}
}

func TestMutationFailure_LeavesSnapshotUntouched(t *testing.T) {
	fake := &fakeCartAPI{cart: cartWith(
		models.CartItem{ID: 1, Product: models.Product{Price: 10}, Quantity: 1},
	)}
	s := NewStore(fake, zap.NewNop())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	fake.err = errors.New("out of stock")
	pinged := false
	s.Subscribe(func() { pinged = true })

	if err := s.Add(context.Background(), 99, 1); err == nil {
		t.Fatal("expected error from failed mutation")
	}
	if s.ItemCount() != 1 {
		t.Errorf("snapshot changed on failure: count %d", s.ItemCount())
	}
	if pinged {
		t.Error("no notification expected for a failed mutation")
	}
}

func TestCheckout_ClearsSnapshot(t *testing.T) {
	fake := &fakeCartAPI{cart: cartWith(
		models.CartItem{ID: 1, Product: models.Product{Price: 10}, Quantity: 4},
	)}
	s := NewStore(fake, zap.NewNop())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	confirmation, err := s.Checkout(context.Background())
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if confirmation != "Order placed successfully" {
		t.Errorf("unexpected confirmation %q", confirmation)
	}
	if s.Snapshot() != nil {
		t.Error("expected empty snapshot after checkout")
	}
	if s.ItemCount() != 0 {
		t.Errorf("expected item count 0 after checkout, got %d", s.ItemCount())
	}
}

func TestCheckoutFailure_KeepsCart(t *testing.T) {
	fake := &fakeCartAPI{
		cart: cartWith(models.CartItem{ID: 1, Product: models.Product{Price: 10}, Quantity: 4}),
	}
	s := NewStore(fake, zap.NewNop())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	fake.err = errors.New("payment declined")
	if _, err := s.Checkout(context.Background()); err == nil {
		t.Fatal("expected checkout error")
	}
	if s.ItemCount() != 4 {
		t.Errorf("cart must not be half-cleared on failure, got count %d", s.ItemCount())
	}
}

func TestNotification_OncePerMutation(t *testing.T) {
	fake := &fakeCartAPI{cart: cartWith()}
	s := NewStore(fake, zap.NewNop())

	pings := 0
	s.Subscribe(func() { pings++ })

	ctx := context.Background()
	if err := s.Add(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateQuantity(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Checkout(ctx); err != nil {
		t.Fatal(err)
	}

	if pings != 5 {
		t.Errorf("expected exactly one ping per mutation (5), got %d", pings)
	}
}

func TestUnsubscribe(t *testing.T) {
	fake := &fakeCartAPI{cart: cartWith()}
	s := NewStore(fake, zap.NewNop())

	pings := 0
	unsubscribe := s.Subscribe(func() { pings++ })

	if err := s.Add(context.Background(), 1, 1); err != nil {
		t.Fatal(err)
	}
	unsubscribe()
	if err := s.Add(context.Background(), 2, 1); err != nil {
		t.Fatal(err)
	}

	if pings != 1 {
		t.Errorf("expected 1 ping after unsubscribe, got %d", pings)
	}
}
