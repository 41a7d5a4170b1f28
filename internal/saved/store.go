package saved

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/omarsaab96/2akel/internal/localcache"
)

// Store caches the bookmark rows. Writes are remote-confirm-then-apply.
type Store struct {
	repo   Repository
	mirror *localcache.File

	mu    sync.RWMutex
	saved []SavedMenu
}

func NewStore(repo Repository, mirror *localcache.File) *Store {
	return &Store{repo: repo, mirror: mirror}
}

// Save bookmarks a restaurant for a customer. Saving twice is a no-op
// that returns the existing bookmark.
func (s *Store) Save(ctx context.Context, customerID, restaurantID string) (*SavedMenu, error) {
	s.mu.RLock()
	for _, sm := range s.saved {
		if sm.CustomerID == customerID && sm.RestaurantID == restaurantID {
			s.mu.RUnlock()
			cp := sm
			return &cp, nil
		}
	}
	s.mu.RUnlock()

	sm := SavedMenu{ID: uuid.NewString(), CustomerID: customerID, RestaurantID: restaurantID}
	if err := s.repo.Insert(ctx, &sm); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}

	s.mu.Lock()
	s.saved = append(s.saved, sm)
	s.mu.Unlock()
	s.persist()
	return &sm, nil
}

// Unsave removes the bookmark; no effect if absent.
func (s *Store) Unsave(ctx context.Context, customerID, restaurantID string) error {
	if err := s.repo.Delete(ctx, customerID, restaurantID); err != nil {
		return fmt.Errorf("unsave restaurant: %w", err)
	}

	s.mu.Lock()
	kept := s.saved[:0]
	for _, sm := range s.saved {
		if sm.CustomerID != customerID || sm.RestaurantID != restaurantID {
			kept = append(kept, sm)
		}
	}
	s.saved = kept
	s.mu.Unlock()
	s.persist()
	return nil
}

func (s *Store) IsSaved(customerID, restaurantID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sm := range s.saved {
		if sm.CustomerID == customerID && sm.RestaurantID == restaurantID {
			return true
		}
	}
	return false
}

// ByCustomer returns the customer's bookmarks, newest first (the fetch
// order is preserved).
func (s *Store) ByCustomer(customerID string) []SavedMenu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SavedMenu
	for _, sm := range s.saved {
		if sm.CustomerID == customerID {
			out = append(out, sm)
		}
	}
	return out
}

// Hydrate replaces the collection from the remote table.
func (s *Store) Hydrate(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("fetch saved menus: %w", err)
	}
	s.mu.Lock()
	s.saved = rows
	s.mu.Unlock()
	s.persist()
	return nil
}

func (s *Store) Restore() bool {
	if s.mirror == nil {
		return false
	}
	var rows []SavedMenu
	_, ok, err := s.mirror.Load(&rows)
	if err != nil {
		log.Printf("[saved] restore mirror: %v", err)
		return false
	}
	if !ok {
		return false
	}
	s.mu.Lock()
	s.saved = rows
	s.mu.Unlock()
	return true
}

func (s *Store) persist() {
	if s.mirror == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.mirror.Save(s.saved); err != nil {
		log.Printf("[saved] persist mirror: %v", err)
	}
}
