package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

// Repository is the profiles table.
type Repository interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, u *User) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Insert(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, email, name, role, restaurant_name, cuisine, phone, address, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`, u.ID, u.Email, u.Name, u.Role, u.RestaurantName, u.Cuisine, u.Phone, u.Address, u.Image)
	if err != nil {
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, restaurant_name, cuisine, phone, address, image, created_at, updated_at
		FROM profiles WHERE id=$1
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.RestaurantName, &u.Cuisine,
		&u.Phone, &u.Address, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, email, name, role, restaurant_name, cuisine, phone, address, image, created_at, updated_at
		FROM profiles WHERE role=$1
		ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.RestaurantName, &u.Cuisine,
			&u.Phone, &u.Address, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET name = COALESCE(NULLIF($2, ''), name),
		    restaurant_name = COALESCE(NULLIF($3, ''), restaurant_name),
		    cuisine = COALESCE(NULLIF($4, ''), cuisine),
		    phone = COALESCE(NULLIF($5, ''), phone),
		    address = COALESCE(NULLIF($6, ''), address),
		    image = COALESCE(NULLIF($7, ''), image),
		    updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Name, u.RestaurantName, u.Cuisine, u.Phone, u.Address, u.Image)
	return err
}
