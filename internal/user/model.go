package user

import "time"

type Role string

const (
	RoleRestaurant Role = "restaurant"
	RoleCustomer   Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleRestaurant || r == RoleCustomer
}

// User is a profile row joined with its auth identity. Restaurants carry
// the restaurant_* fields; customers leave them empty.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	Cuisine        string    `json:"cuisine,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
