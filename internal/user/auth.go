package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omarsaab96/2akel/internal/remote"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is the authenticated principal, separate from the profile row.
type Identity struct {
	ID    string
	Email string
}

// Authenticator is password auth. The hosted service implements it behind
// remote.Client; self-hosted deployments use PGAuth.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
}

// RemoteAuth adapts the hosted auth endpoints.
type RemoteAuth struct{ client *remote.Client }

func NewRemoteAuth(client *remote.Client) *RemoteAuth { return &RemoteAuth{client: client} }

func (a *RemoteAuth) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	id, err := a.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: id.ID, Email: id.Email}, nil
}

func (a *RemoteAuth) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: id.ID, Email: id.Email}, nil
}

func (a *RemoteAuth) SignOut(ctx context.Context) error {
	return a.client.SignOut(ctx)
}

// PGAuth keeps credentials in a users table with bcrypt hashes.
type PGAuth struct{ db *pgxpool.Pool }

func NewPGAuth(db *pgxpool.Pool) *PGAuth { return &PGAuth{db: db} }

func (a *PGAuth) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err = a.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
	`, id, email, hash)
	if err != nil {
		return nil, ErrAlreadyExist
	}
	return &Identity{ID: id, Email: email}, nil
}

func (a *PGAuth) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id, hash string
	err := a.db.QueryRow(ctx, `
		SELECT id, password_hash FROM users WHERE email=$1
	`, email).Scan(&id, &hash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: id, Email: email}, nil
}

func (a *PGAuth) SignOut(ctx context.Context) error { return nil }
