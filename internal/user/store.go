package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/omarsaab96/2akel/internal/localcache"
)

var ErrNotLoggedIn = errors.New("no user logged in")

// Store holds the authenticated session. It is a dependency-injected
// state container: construct one per process (or per test) and pass it
// down, there are no package-level singletons.
type Store struct {
	auth     Authenticator
	profiles Repository
	mirror   *localcache.File

	mu      sync.RWMutex
	current *User
}

func NewStore(auth Authenticator, profiles Repository, mirror *localcache.File) *Store {
	return &Store{auth: auth, profiles: profiles, mirror: mirror}
}

// RegisterInput is everything a sign-up form collects.
type RegisterInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	RestaurantName string `json:"restaurant_name"`
	Cuisine        string `json:"cuisine"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

// ProfileUpdate carries the editable profile fields; empty fields are
// left unchanged.
type ProfileUpdate struct {
	Name           string `json:"name"`
	RestaurantName string `json:"restaurant_name"`
	Cuisine        string `json:"cuisine"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Image          string `json:"image"`
}

func (s *Store) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("email, password and name are required")
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}

	identity, err := s.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	u := &User{
		ID:             identity.ID,
		Email:          identity.Email,
		Name:           in.Name,
		Role:           in.Role,
		RestaurantName: in.RestaurantName,
		Cuisine:        in.Cuisine,
		Phone:          in.Phone,
		Address:        in.Address,
	}
	// An orphaned identity is left for the service's cleanup if the
	// profile insert fails; the client has no admin rights to undo it.
	if err := s.profiles.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.setCurrent(u)
	return s.Current(), nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	identity, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	u, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	u.Email = identity.Email
	s.setCurrent(u)
	return s.Current(), nil
}

// Logout clears the session locally even if the remote sign-out fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if s.mirror != nil {
		if cerr := s.mirror.Clear(); cerr != nil {
			log.Printf("[user] clear session mirror: %v", cerr)
		}
	}
	return err
}

func (s *Store) UpdateProfile(ctx context.Context, in ProfileUpdate) (*User, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return nil, ErrNotLoggedIn
	}

	updated := *cur
	if in.Name != "" {
		updated.Name = in.Name
	}
	if in.RestaurantName != "" {
		updated.RestaurantName = in.RestaurantName
	}
	if in.Cuisine != "" {
		updated.Cuisine = in.Cuisine
	}
	if in.Phone != "" {
		updated.Phone = in.Phone
	}
	if in.Address != "" {
		updated.Address = in.Address
	}
	if in.Image != "" {
		updated.Image = in.Image
	}

	if err := s.profiles.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.setCurrent(&updated)
	return s.Current(), nil
}

// Restaurants lists every restaurant profile, newest first.
func (s *Store) Restaurants(ctx context.Context) ([]User, error) {
	return s.profiles.ListByRole(ctx, RoleRestaurant)
}

// Restaurant fetches one restaurant profile by id.
func (s *Store) Restaurant(ctx context.Context, id string) (*User, error) {
	u, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleRestaurant {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Store) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Restore loads the previously persisted session, if any. The mirror is a
// possibly stale secondary copy; callers wanting certainty re-login.
func (s *Store) Restore() {
	if s.mirror == nil {
		return
	}
	var u User
	if _, ok, err := s.mirror.Load(&u); err != nil {
		log.Printf("[user] restore session: %v", err)
	} else if ok && u.ID != "" {
		s.mu.Lock()
		s.current = &u
		s.mu.Unlock()
	}
}

func (s *Store) setCurrent(u *User) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
	if s.mirror != nil {
		if err := s.mirror.Save(u); err != nil {
			log.Printf("[user] persist session: %v", err)
		}
	}
}
