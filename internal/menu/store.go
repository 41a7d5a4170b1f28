package menu

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/omarsaab96/2akel/internal/localcache"
	"github.com/omarsaab96/2akel/internal/storage"
)

// Store is the menu catalog cache: every category and menu item, with the
// remote service as the owner of record. Writes go remote first and are
// applied to the cache only on success.
type Store struct {
	repo   Repository
	images storage.BlobStore
	mirror *localcache.File

	mu         sync.RWMutex
	categories []Category
	items      []Item
}

func NewStore(repo Repository, images storage.BlobStore, mirror *localcache.File) *Store {
	return &Store{repo: repo, images: images, mirror: mirror}
}

type snapshot struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
}

// CategoryUpdate carries partial category edits; nil fields are unchanged.
type CategoryUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

// ItemUpdate carries partial menu item edits; nil fields are unchanged.
type ItemUpdate struct {
	CategoryID  *string          `json:"category_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	Featured    *bool            `json:"featured"`
}

func (s *Store) AddCategory(ctx context.Context, c Category) (*Category, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if c.RestaurantID == "" {
		return nil, fmt.Errorf("restaurant id is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.repo.InsertCategory(ctx, &c); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	s.mu.Lock()
	s.categories = append(s.categories, c)
	s.mu.Unlock()
	s.persist()
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (*Category, error) {
	s.mu.RLock()
	cur, ok := s.findCategory(id)
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCategoryNotFound
	}

	next := cur
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.DisplayOrder != nil {
		next.DisplayOrder = *upd.DisplayOrder
	}

	if err := s.repo.UpdateCategory(ctx, &next); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.mu.Lock()
	s.replaceCategory(next)
	s.mu.Unlock()
	s.persist()
	return &next, nil
}

// DeleteCategory removes the category and cascades to its menu items.
// The cascade is client-initiated: the service has no FK constraint here.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := s.repo.DeleteItemsByCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category items: %w", err)
	}

	s.mu.Lock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	keptItems := s.items[:0]
	for _, it := range s.items {
		if it.CategoryID != id {
			keptItems = append(keptItems, it)
		}
	}
	s.items = keptItems
	s.mu.Unlock()
	s.persist()
	return nil
}

// Reorder rewrites display_order to match the given id sequence.
func (s *Store) Reorder(ctx context.Context, categoryIDs []string) error {
	for i, id := range categoryIDs {
		if err := s.repo.SetDisplayOrder(ctx, id, i); err != nil {
			return fmt.Errorf("reorder category %s: %w", id, err)
		}
		s.mu.Lock()
		for j := range s.categories {
			if s.categories[j].ID == id {
				s.categories[j].DisplayOrder = i
			}
		}
		s.mu.Unlock()
	}
	s.persist()
	return nil
}

func (s *Store) AddItem(ctx context.Context, it Item, img *storage.Upload) (*Item, error) {
	if it.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if it.Price.IsNegative() {
		return nil, fmt.Errorf("price must be >= 0")
	}
	s.mu.RLock()
	cat, ok := s.findCategory(it.CategoryID)
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCategoryNotFound
	}

	if img != nil {
		url, err := s.uploadImage(ctx, cat.RestaurantID, img)
		if err != nil {
			return nil, err
		}
		it.ImageURL = url
	}

	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now

	if err := s.repo.InsertItem(ctx, &it); err != nil {
		if img != nil && it.ImageURL != "" {
			s.removeImage(ctx, it.ImageURL)
		}
		return nil, fmt.Errorf("insert menu item: %w", err)
	}

	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
	s.persist()
	return &it, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, upd ItemUpdate, img *storage.Upload) (*Item, error) {
	s.mu.RLock()
	cur, ok := s.findItem(id)
	s.mu.RUnlock()
	if !ok {
		return nil, ErrItemNotFound
	}

	next := cur
	if upd.CategoryID != nil {
		next.CategoryID = *upd.CategoryID
	}
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Price != nil {
		if upd.Price.IsNegative() {
			return nil, fmt.Errorf("price must be >= 0")
		}
		next.Price = *upd.Price
	}
	if upd.Available != nil {
		next.Available = *upd.Available
	}
	if upd.Featured != nil {
		next.Featured = *upd.Featured
	}

	oldImage := cur.ImageURL
	if img != nil {
		s.mu.RLock()
		cat, ok := s.findCategory(next.CategoryID)
		s.mu.RUnlock()
		if !ok {
			return nil, ErrCategoryNotFound
		}
		url, err := s.uploadImage(ctx, cat.RestaurantID, img)
		if err != nil {
			return nil, err
		}
		next.ImageURL = url
	}
	next.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateItem(ctx, &next); err != nil {
		if img != nil && next.ImageURL != "" {
			s.removeImage(ctx, next.ImageURL)
		}
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	if img != nil && oldImage != "" {
		s.removeImage(ctx, oldImage)
	}

	s.mu.Lock()
	s.replaceItem(next)
	s.mu.Unlock()
	s.persist()
	return &next, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.RLock()
	cur, ok := s.findItem(id)
	s.mu.RUnlock()
	if !ok {
		return ErrItemNotFound
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if cur.ImageURL != "" {
		s.removeImage(ctx, cur.ImageURL)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.persist()
	return nil
}

// CategoriesByRestaurant returns the restaurant's categories sorted by
// display order (stable, so equal orders keep insertion order).
func (s *Store) CategoriesByRestaurant(restaurantID string) []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Category
	for _, c := range s.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

func (s *Store) ItemsByCategory(categoryID string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, it := range s.items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) CategoryByID(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findCategory(id)
}

func (s *Store) ItemByID(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findItem(id)
}

// Hydrate replaces both collections from the remote tables. The fetches
// run in parallel; if either fails the previous cache is kept.
func (s *Store) Hydrate(ctx context.Context) error {
	var categories []Category
	var items []Item

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("fetch menu items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.items = items
	s.mu.Unlock()
	s.persist()
	return nil
}

// Restore loads the local mirror. Returns false when there is nothing
// usable and the caller should Hydrate.
func (s *Store) Restore() bool {
	if s.mirror == nil {
		return false
	}
	var snap snapshot
	_, ok, err := s.mirror.Load(&snap)
	if err != nil {
		log.Printf("[menu] restore mirror: %v", err)
		return false
	}
	if !ok {
		return false
	}
	s.mu.Lock()
	s.categories = snap.Categories
	s.items = snap.Items
	s.mu.Unlock()
	return true
}

func (s *Store) uploadImage(ctx context.Context, restaurantID string, img *storage.Upload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image storage not configured")
	}
	path := storage.MenuImagePath(restaurantID, img.Filename)
	url, err := s.images.Upload(ctx, path, img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (s *Store) removeImage(ctx context.Context, url string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		log.Printf("[menu] remove image %s: %v", url, err)
	}
}

func (s *Store) persist() {
	if s.mirror == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{Categories: s.categories, Items: s.items}
	if err := s.mirror.Save(snap); err != nil {
		log.Printf("[menu] persist mirror: %v", err)
	}
}

func (s *Store) findCategory(id string) (Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s *Store) findItem(id string) (Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) replaceCategory(c Category) {
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = c
			return
		}
	}
}

func (s *Store) replaceItem(it Item) {
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i] = it
			return
		}
	}
}
