package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omarsaab96/2akel/internal/localcache"
)

type stubRepo struct {
	rows      []Order
	listErr   error
	insertErr error
	updateErr error

	inserted []Order
	statuses []Status
}

func (r *stubRepo) List(ctx context.Context) ([]Order, error) {
	return r.rows, r.listErr
}

func (r *stubRepo) Insert(ctx context.Context, o *Order) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *o)
	return nil
}

func (r *stubRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.statuses = append(r.statuses, status)
	return nil
}

func storeWithOrder(repo *stubRepo, status Status) (*Store, Order) {
	o := Order{
		ID:           "order-1",
		CustomerID:   "cust-1",
		RestaurantID: "rest-1",
		Items:        []CartItem{burgerLine(2)},
		TotalAmount:  dec("18.00"),
		Status:       status,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s := NewStore(repo, nil)
	s.orders = []Order{o}
	return s, o
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	s := NewStore(&stubRepo{}, nil)
	_, err := s.PlaceOrder(context.Background(), "cust-1", "", "")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	repo := &stubRepo{}
	s := NewStore(repo, nil)
	s.AddToCart("rest-1", burgerLine(2))
	s.AddToCart("rest-1", burgerLine(1))

	o, err := s.PlaceOrder(context.Background(), "cust-1", "7", "no onions")
	require.NoError(t, err)

	require.NotEmpty(t, o.ID)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, "cust-1", o.CustomerID)
	require.Equal(t, "rest-1", o.RestaurantID)
	require.Equal(t, "7", o.TableNumber)
	require.Equal(t, "no onions", o.SpecialInstructions)
	require.Len(t, o.Items, 1)
	require.Equal(t, 3, o.Items[0].Quantity)
	require.True(t, o.TotalAmount.Equal(dec("27.00")), "total = %s", o.TotalAmount)

	// cart is gone and the order reached the remote service
	require.Empty(t, s.CartView().Items)
	require.Len(t, repo.inserted, 1)
	require.Equal(t, o.ID, repo.inserted[0].ID)

	got := s.ByCustomer("cust-1")
	require.Len(t, got, 1)
	require.Equal(t, o.ID, got[0].ID)
}

func TestPlaceOrderRemoteFailureClearsCart(t *testing.T) {
	repo := &stubRepo{insertErr: errors.New("boom")}
	s := NewStore(repo, nil)
	s.AddToCart("rest-1", burgerLine(2))

	_, err := s.PlaceOrder(context.Background(), "cust-1", "", "")
	require.Error(t, err)

	// the cart does not linger after a failed placement
	require.Empty(t, s.CartView().Items)
	require.Empty(t, s.ByCustomer("cust-1"))
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo := &stubRepo{}
	s, _ := storeWithOrder(repo, StatusPending)

	for _, next := range []Status{StatusPreparing, StatusReady, StatusCompleted} {
		o, err := s.UpdateStatus(context.Background(), "order-1", next)
		require.NoError(t, err, "step to %s", next)
		require.Equal(t, next, o.Status)
	}
	require.Equal(t, []Status{StatusPreparing, StatusReady, StatusCompleted}, repo.statuses)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	s, _ := storeWithOrder(&stubRepo{}, StatusPending)
	_, err := s.UpdateStatus(context.Background(), "order-1", Status("shipped"))
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	s := NewStore(&stubRepo{}, nil)
	_, err := s.UpdateStatus(context.Background(), "order-missing", StatusPreparing)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusSkippingStepRejected(t *testing.T) {
	repo := &stubRepo{}
	s, _ := storeWithOrder(repo, StatusPending)

	_, err := s.UpdateStatus(context.Background(), "order-1", StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, repo.statuses, "remote must not be called for an illegal step")
}

func TestUpdateStatusTerminalRejected(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		s, _ := storeWithOrder(&stubRepo{}, terminal)
		_, err := s.UpdateStatus(context.Background(), "order-1", StatusPreparing)
		require.ErrorIs(t, err, ErrInvalidTransition, "from %s", terminal)
	}
}

func TestUpdateStatusRemoteFailureKeepsLocal(t *testing.T) {
	repo := &stubRepo{updateErr: errors.New("boom")}
	s, _ := storeWithOrder(repo, StatusPending)

	_, err := s.UpdateStatus(context.Background(), "order-1", StatusPreparing)
	require.Error(t, err)

	got, ok := s.ByID("order-1")
	require.True(t, ok)
	require.Equal(t, StatusPending, got.Status)
}

func TestCancelPendingOrder(t *testing.T) {
	s, _ := storeWithOrder(&stubRepo{}, StatusPending)
	o, err := s.Cancel(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, o.Status)
}

func TestCancelAfterPreparingRejected(t *testing.T) {
	s, _ := storeWithOrder(&stubRepo{}, StatusPreparing)
	_, err := s.Cancel(context.Background(), "order-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFiltersNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	s := NewStore(&stubRepo{}, nil)
	s.orders = []Order{
		{ID: "a", CustomerID: "cust-1", RestaurantID: "rest-1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", CustomerID: "cust-1", RestaurantID: "rest-2", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c", CustomerID: "cust-2", RestaurantID: "rest-1", CreatedAt: now},
	}

	byCust := s.ByCustomer("cust-1")
	require.Len(t, byCust, 2)
	require.Equal(t, "b", byCust[0].ID)
	require.Equal(t, "a", byCust[1].ID)

	byRest := s.ByRestaurant("rest-1")
	require.Len(t, byRest, 2)
	require.Equal(t, "c", byRest[0].ID)
}

func TestHydrateReplacesOrdersOnly(t *testing.T) {
	repo := &stubRepo{rows: []Order{
		{ID: "r1", CustomerID: "cust-1"},
		{ID: "r2", CustomerID: "cust-1"},
		{ID: "r3", CustomerID: "cust-2"},
	}}
	s := NewStore(repo, nil)
	s.orders = []Order{{ID: "stale"}}
	s.AddToCart("rest-1", burgerLine(1))

	require.NoError(t, s.Hydrate(context.Background()))

	_, ok := s.ByID("stale")
	require.False(t, ok)
	require.Len(t, s.ByCustomer("cust-1"), 2)
	require.Len(t, s.CartView().Items, 1, "hydrate must not touch the cart")
}

func TestHydrateFailureKeepsCache(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("boom")}
	s, _ := storeWithOrder(repo, StatusPending)

	require.Error(t, s.Hydrate(context.Background()))
	_, ok := s.ByID("order-1")
	require.True(t, ok)
}

func TestRestoreRoundTrip(t *testing.T) {
	mirror := localcache.New(t.TempDir(), "order-storage")

	first := NewStore(&stubRepo{}, mirror)
	first.AddToCart("rest-1", burgerLine(2))
	_, err := first.PlaceOrder(context.Background(), "cust-1", "", "")
	require.NoError(t, err)
	first.AddToCart("rest-1", burgerLine(1))

	second := NewStore(&stubRepo{}, mirror)
	require.True(t, second.Restore())

	require.Len(t, second.ByCustomer("cust-1"), 1)
	cart := second.CartView()
	require.Len(t, cart.Items, 1)
	require.Equal(t, 1, cart.Items[0].Quantity)
	require.True(t, cart.Items[0].Subtotal.Equal(dec("9.00")))
}

func TestRestoreMissingMirror(t *testing.T) {
	mirror := localcache.New(t.TempDir(), "order-storage")
	s := NewStore(&stubRepo{}, mirror)
	require.False(t, s.Restore())
}
