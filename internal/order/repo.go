package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// Repository is the orders table. Items travel as a JSON document with
// the row; the snapshot is written once and never updated.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Insert(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, restaurant_id, items, total_amount::text, status,
		       table_number, special_instructions, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var itemsJSON []byte
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &itemsJSON, &total,
			&o.Status, &o.TableNumber, &o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
				return nil, fmt.Errorf("unmarshal order items: %w", err)
			}
		}
		o.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse order total: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) Insert(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, customer_id, restaurant_id, items, total_amount, status,
		                    table_number, special_instructions, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, o.ID, o.CustomerID, o.RestaurantID, itemsJSON, o.TotalAmount.String(), o.Status,
		o.TableNumber, o.SpecialInstructions, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, status, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
