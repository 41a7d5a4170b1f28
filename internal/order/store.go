package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omarsaab96/2akel/internal/localcache"
)

var (
	ErrEmptyCart         = errors.New("cannot place an empty order")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store holds the active cart and the order collection. There is exactly
// one cart per store and it is scoped to a single restaurant. Every write
// is remote-confirm-then-apply: the cache changes only after the remote
// service accepted the write.
type Store struct {
	repo   Repository
	mirror *localcache.File

	mu     sync.RWMutex
	cart   Cart
	orders []Order
}

func NewStore(repo Repository, mirror *localcache.File) *Store {
	return &Store{repo: repo, mirror: mirror}
}

type snapshot struct {
	Cart   Cart    `json:"cart"`
	Orders []Order `json:"orders"`
}

// AddToCart adds a line for restaurantID's menu item. A cart holds items
// from one restaurant only: switching restaurants discards the previous
// contents. A line for the same menu item merges by summing quantities.
func (s *Store) AddToCart(restaurantID string, item CartItem) {
	s.mu.Lock()
	if s.cart.RestaurantID != "" && s.cart.RestaurantID != restaurantID {
		s.cart.Items = nil
	}
	s.cart.RestaurantID = restaurantID

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	merged := false
	for i := range s.cart.Items {
		if s.cart.Items[i].MenuItemID == item.MenuItemID {
			line := &s.cart.Items[i]
			line.Quantity += item.Quantity
			line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			merged = true
			break
		}
	}
	if !merged {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		s.cart.Items = append(s.cart.Items, item)
	}
	s.mu.Unlock()
	s.persist()
}

// UpdateCartQuantity sets a line's quantity. Zero or negative removes the
// line; the subtotal is recomputed from the stored unit price.
func (s *Store) UpdateCartQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(itemID)
		return
	}
	s.mu.Lock()
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			line := &s.cart.Items[i]
			line.Quantity = quantity
			line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(quantity)))
			break
		}
	}
	s.mu.Unlock()
	s.persist()
}

// RemoveFromCart deletes a line; no effect if absent.
func (s *Store) RemoveFromCart(itemID string) {
	s.mu.Lock()
	kept := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.cart.Items = kept
	s.mu.Unlock()
	s.persist()
}

// ClearCart empties the cart and clears its restaurant association.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = Cart{}
	s.mu.Unlock()
	s.persist()
}

// CartTotal is the sum of all line subtotals.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.total()
}

func (c Cart) total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// CartView returns a copy of the current cart.
func (s *Store) CartView() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.cart
	cp.Items = append([]CartItem(nil), s.cart.Items...)
	return cp
}

// PlaceOrder snapshots the cart into a pending order. The snapshot is
// written remotely first and cached only on success; the cart is cleared
// after the attempt either way, so a failed placement does not linger.
func (s *Store) PlaceOrder(ctx context.Context, customerID, tableNumber, specialInstructions string) (*Order, error) {
	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	now := time.Now().UTC()
	o := Order{
		ID:                  uuid.NewString(),
		CustomerID:          customerID,
		RestaurantID:        s.cart.RestaurantID,
		Items:               append([]CartItem(nil), s.cart.Items...),
		TotalAmount:         s.cart.total(),
		Status:              StatusPending,
		TableNumber:         tableNumber,
		SpecialInstructions: specialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.cart = Cart{}
	s.mu.Unlock()

	if err := s.repo.Insert(ctx, &o); err != nil {
		s.persist()
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()
	s.persist()
	return &o, nil
}

// UpdateStatus moves an order along the lifecycle. Illegal steps,
// including any step out of a terminal status, fail without touching
// local or remote state.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	s.mu.RLock()
	cur, ok := s.findOrder(orderID)
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !cur.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, next)
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, orderID, next, now); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.mu.Lock()
	var updated *Order
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = next
			s.orders[i].UpdatedAt = now
			cp := s.orders[i]
			updated = &cp
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	return updated, nil
}

// Cancel marks a pending order cancelled. It goes through the same
// remote-first path as every other status change.
func (s *Store) Cancel(ctx context.Context, orderID string) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// ByCustomer returns the customer's orders, newest first.
func (s *Store) ByCustomer(customerID string) []Order {
	return s.filter(func(o Order) bool { return o.CustomerID == customerID })
}

// ByRestaurant returns the restaurant's orders, newest first.
func (s *Store) ByRestaurant(restaurantID string) []Order {
	return s.filter(func(o Order) bool { return o.RestaurantID == restaurantID })
}

func (s *Store) ByID(orderID string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findOrder(orderID)
}

func (s *Store) filter(keep func(Order) bool) []Order {
	s.mu.RLock()
	var out []Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Hydrate replaces the order collection from the remote table. The cart
// is purely local and untouched.
func (s *Store) Hydrate(ctx context.Context) error {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	s.persist()
	return nil
}

// Restore loads the local mirror (cart included, so a restart keeps the
// shopper's cart). Returns false when there is nothing usable.
func (s *Store) Restore() bool {
	if s.mirror == nil {
		return false
	}
	var snap snapshot
	_, ok, err := s.mirror.Load(&snap)
	if err != nil {
		log.Printf("[order] restore mirror: %v", err)
		return false
	}
	if !ok {
		return false
	}
	s.mu.Lock()
	s.cart = snap.Cart
	s.orders = snap.Orders
	s.mu.Unlock()
	return true
}

func (s *Store) persist() {
	if s.mirror == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{Cart: s.cart, Orders: s.orders}
	if err := s.mirror.Save(snap); err != nil {
		log.Printf("[order] persist mirror: %v", err)
	}
}

func (s *Store) findOrder(id string) (Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}
