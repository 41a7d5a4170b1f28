package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the allowed step for each status. Cancellation is the
// only shortcut and only from pending; completed and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether s -> to is a legal lifecycle step.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// CartItem is one order line: a denormalized snapshot of a menu item plus
// quantity. Subtotal is always price x quantity.
type CartItem struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Cart accumulates lines for a single restaurant before checkout. All
// items belong to RestaurantID; adding from another restaurant discards
// the current contents.
type Cart struct {
	RestaurantID string     `json:"restaurant_id"`
	Items        []CartItem `json:"items"`
}

// Order is an immutable snapshot of a cart at placement time plus a
// mutable status.
type Order struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	RestaurantID        string          `json:"restaurant_id"`
	Items               []CartItem      `json:"items"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Status              Status          `json:"status"`
	TableNumber         string          `json:"table_number,omitempty"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
