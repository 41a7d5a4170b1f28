package menu

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/omarsaab96/2akel/internal/remote"
)

// RemoteRepo is the categories and menu_items tables on the hosted service.
type RemoteRepo struct{ client *remote.Client }

func NewRemoteRepo(client *remote.Client) *RemoteRepo { return &RemoteRepo{client: client} }

type itemPatch struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	Featured    bool            `json:"featured"`
	UpdatedAt   string          `json:"updated_at"`
}

func (r *RemoteRepo) ListCategories(ctx context.Context) ([]Category, error) {
	q := remote.Query{OrderBy: "display_order"}
	var rows []Category
	if err := r.client.Select(ctx, "categories", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RemoteRepo) InsertCategory(ctx context.Context, c *Category) error {
	return r.client.Insert(ctx, "categories", c, c)
}

func (r *RemoteRepo) UpdateCategory(ctx context.Context, c *Category) error {
	return r.client.Update(ctx, "categories", remote.Eq("id", c.ID), c, c)
}

func (r *RemoteRepo) DeleteCategory(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "categories", remote.Eq("id", id))
}

func (r *RemoteRepo) SetDisplayOrder(ctx context.Context, id string, order int) error {
	patch := struct {
		DisplayOrder int `json:"display_order"`
	}{order}
	return r.client.Update(ctx, "categories", remote.Eq("id", id), patch, nil)
}

func (r *RemoteRepo) ListItems(ctx context.Context) ([]Item, error) {
	q := remote.Query{OrderBy: "created_at"}
	var rows []Item
	if err := r.client.Select(ctx, "menu_items", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RemoteRepo) InsertItem(ctx context.Context, it *Item) error {
	row := struct {
		ID          string          `json:"id"`
		CategoryID  string          `json:"category_id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		ImageURL    string          `json:"image_url,omitempty"`
		Available   bool            `json:"available"`
		Featured    bool            `json:"featured"`
	}{it.ID, it.CategoryID, it.Name, it.Description, it.Price, it.ImageURL, it.Available, it.Featured}
	return r.client.Insert(ctx, "menu_items", row, it)
}

func (r *RemoteRepo) UpdateItem(ctx context.Context, it *Item) error {
	patch := itemPatch{
		CategoryID: it.CategoryID, Name: it.Name, Description: it.Description,
		Price: it.Price, ImageURL: it.ImageURL, Available: it.Available,
		Featured: it.Featured, UpdatedAt: it.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	return r.client.Update(ctx, "menu_items", remote.Eq("id", it.ID), patch, it)
}

func (r *RemoteRepo) DeleteItem(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "menu_items", remote.Eq("id", id))
}

func (r *RemoteRepo) DeleteItemsByCategory(ctx context.Context, categoryID string) error {
	return r.client.Delete(ctx, "menu_items", remote.Eq("category_id", categoryID))
}
