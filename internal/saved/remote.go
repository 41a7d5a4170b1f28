package saved

import (
	"context"

	"github.com/omarsaab96/2akel/internal/remote"
)

// RemoteRepo is the saved_menus table on the hosted data service.
type RemoteRepo struct{ client *remote.Client }

func NewRemoteRepo(client *remote.Client) *RemoteRepo { return &RemoteRepo{client: client} }

func (r *RemoteRepo) List(ctx context.Context) ([]SavedMenu, error) {
	q := remote.Query{OrderBy: "created_at", OrderDesc: true}
	var rows []SavedMenu
	if err := r.client.Select(ctx, "saved_menus", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RemoteRepo) Insert(ctx context.Context, sm *SavedMenu) error {
	row := struct {
		ID           string `json:"id"`
		CustomerID   string `json:"user_id"`
		RestaurantID string `json:"restaurant_id"`
	}{sm.ID, sm.CustomerID, sm.RestaurantID}
	return r.client.Insert(ctx, "saved_menus", row, sm)
}

func (r *RemoteRepo) Delete(ctx context.Context, customerID, restaurantID string) error {
	return r.client.Delete(ctx, "saved_menus", remote.Eq("user_id", customerID, "restaurant_id", restaurantID))
}
