package saved

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("saved menu not found")

// Repository is the saved_menus table.
type Repository interface {
	List(ctx context.Context) ([]SavedMenu, error)
	Insert(ctx context.Context, sm *SavedMenu) error
	Delete(ctx context.Context, customerID, restaurantID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context) ([]SavedMenu, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, restaurant_id, created_at
		FROM saved_menus
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedMenu
	for rows.Next() {
		var sm SavedMenu
		if err := rows.Scan(&sm.ID, &sm.CustomerID, &sm.RestaurantID, &sm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (r *PGRepo) Insert(ctx context.Context, sm *SavedMenu) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO saved_menus (id, user_id, restaurant_id, created_at)
		VALUES ($1,$2,$3,NOW())
	`, sm.ID, sm.CustomerID, sm.RestaurantID)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, customerID, restaurantID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		DELETE FROM saved_menus WHERE user_id=$1 AND restaurant_id=$2
	`, customerID, restaurantID)
	return err
}
