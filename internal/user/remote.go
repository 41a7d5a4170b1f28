package user

import (
	"context"

	"github.com/omarsaab96/2akel/internal/remote"
)

// RemoteRepo is the profiles table on the hosted data service.
type RemoteRepo struct{ client *remote.Client }

func NewRemoteRepo(client *remote.Client) *RemoteRepo { return &RemoteRepo{client: client} }

type profileInsert struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	Cuisine        string `json:"cuisine,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Image          string `json:"image,omitempty"`
}

type profilePatch struct {
	Name           string `json:"name,omitempty"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	Cuisine        string `json:"cuisine,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Image          string `json:"image,omitempty"`
}

func (r *RemoteRepo) Insert(ctx context.Context, u *User) error {
	row := profileInsert{
		ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
		RestaurantName: u.RestaurantName, Cuisine: u.Cuisine,
		Phone: u.Phone, Address: u.Address, Image: u.Image,
	}
	return r.client.Insert(ctx, "profiles", row, u)
}

func (r *RemoteRepo) GetByID(ctx context.Context, id string) (*User, error) {
	var rows []User
	if err := r.client.Select(ctx, "profiles", remote.Eq("id", id), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *RemoteRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	q := remote.Eq("role", string(role))
	q.OrderBy, q.OrderDesc = "created_at", true
	var rows []User
	if err := r.client.Select(ctx, "profiles", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RemoteRepo) Update(ctx context.Context, u *User) error {
	patch := profilePatch{
		Name: u.Name, RestaurantName: u.RestaurantName, Cuisine: u.Cuisine,
		Phone: u.Phone, Address: u.Address, Image: u.Image,
	}
	return r.client.Update(ctx, "profiles", remote.Eq("id", u.ID), patch, u)
}
