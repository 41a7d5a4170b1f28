package order

import (
	"context"
	"time"

	"github.com/omarsaab96/2akel/internal/remote"
)

// RemoteRepo is the orders table on the hosted data service. Items are a
// JSONB column, so the Order struct maps onto the row directly.
type RemoteRepo struct{ client *remote.Client }

func NewRemoteRepo(client *remote.Client) *RemoteRepo { return &RemoteRepo{client: client} }

func (r *RemoteRepo) List(ctx context.Context) ([]Order, error) {
	q := remote.Query{OrderBy: "created_at", OrderDesc: true}
	var rows []Order
	if err := r.client.Select(ctx, "orders", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RemoteRepo) Insert(ctx context.Context, o *Order) error {
	return r.client.Insert(ctx, "orders", o, nil)
}

func (r *RemoteRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	patch := struct {
		Status    Status    `json:"status"`
		UpdatedAt time.Time `json:"updated_at"`
	}{status, updatedAt}
	return r.client.Update(ctx, "orders", remote.Eq("id", id), patch, nil)
}
