package menu

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("menu item not found")
)

// Repository is the categories and menu_items tables.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
	SetDisplayOrder(ctx context.Context, id string, order int) error

	ListItems(ctx context.Context) ([]Item, error)
	InsertItem(ctx context.Context, it *Item) error
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsByCategory(ctx context.Context, categoryID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, name, description, display_order
		FROM categories
		ORDER BY display_order
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) InsertCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, restaurant_id, name, description, display_order)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.RestaurantID, c.Name, c.Description, c.DisplayOrder)
	return err
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = COALESCE(NULLIF($2,''), name),
		    description = $3,
		    display_order = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Description, c.DisplayOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PGRepo) DeleteCategory(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}

func (r *PGRepo) SetDisplayOrder(ctx context.Context, id string, order int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE categories SET display_order=$2 WHERE id=$1`, id, order)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PGRepo) ListItems(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, description, price::text, image_url, available, featured, created_at, updated_at
		FROM menu_items
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &price,
			&it.ImageURL, &it.Available, &it.Featured, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		p, err := parsePrice(price)
		if err != nil {
			return nil, err
		}
		it.Price = p
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PGRepo) InsertItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_items (id, category_id, name, description, price, image_url, available, featured, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, it.ID, it.CategoryID, it.Name, it.Description, it.Price.String(), it.ImageURL, it.Available, it.Featured)
	return err
}

func (r *PGRepo) UpdateItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $2,
		    name = COALESCE(NULLIF($3,''), name),
		    description = $4,
		    price = $5,
		    image_url = $6,
		    available = $7,
		    featured = $8,
		    updated_at = NOW()
		WHERE id = $1
	`, it.ID, it.CategoryID, it.Name, it.Description, it.Price.String(), it.ImageURL, it.Available, it.Featured)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PGRepo) DeleteItem(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	return err
}

func (r *PGRepo) DeleteItemsByCategory(ctx context.Context, categoryID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE category_id=$1`, categoryID)
	return err
}
