// Package saved is the bookmark relation between customers and
// restaurants: a row exists while the bookmark is on, toggling deletes it.
package saved

import "time"

type SavedMenu struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
}
