package menu

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/omarsaab96/2akel/internal/localcache"
	"github.com/omarsaab96/2akel/internal/storage"
)

type stubRepo struct {
	categories []Category
	items      []Item

	listCategoriesErr error
	listItemsErr      error
	insertItemErr     error
	updateItemErr     error

	orderCalls  map[string]int
	deletedCats []string
	cascades    []string
}

func (r *stubRepo) ListCategories(ctx context.Context) ([]Category, error) {
	return r.categories, r.listCategoriesErr
}

func (r *stubRepo) InsertCategory(ctx context.Context, c *Category) error { return nil }
func (r *stubRepo) UpdateCategory(ctx context.Context, c *Category) error { return nil }

func (r *stubRepo) DeleteCategory(ctx context.Context, id string) error {
	r.deletedCats = append(r.deletedCats, id)
	return nil
}

func (r *stubRepo) SetDisplayOrder(ctx context.Context, id string, order int) error {
	if r.orderCalls == nil {
		r.orderCalls = map[string]int{}
	}
	r.orderCalls[id] = order
	return nil
}

func (r *stubRepo) ListItems(ctx context.Context) ([]Item, error) {
	return r.items, r.listItemsErr
}

func (r *stubRepo) InsertItem(ctx context.Context, it *Item) error { return r.insertItemErr }
func (r *stubRepo) UpdateItem(ctx context.Context, it *Item) error { return r.updateItemErr }
func (r *stubRepo) DeleteItem(ctx context.Context, id string) error { return nil }

func (r *stubRepo) DeleteItemsByCategory(ctx context.Context, categoryID string) error {
	r.cascades = append(r.cascades, categoryID)
	return nil
}

type stubBlobs struct {
	uploadErr error
	uploads   []string
	removed   []string
}

func (b *stubBlobs) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	b.uploads = append(b.uploads, objectPath)
	return "https://cdn.example/" + objectPath, nil
}

func (b *stubBlobs) Remove(ctx context.Context, url string) error {
	b.removed = append(b.removed, url)
	return nil
}

func seededStore(repo *stubRepo) *Store {
	s := NewStore(repo, &stubBlobs{}, nil)
	s.categories = []Category{
		{ID: "cat-mains", RestaurantID: "rest-1", Name: "Mains", DisplayOrder: 0},
		{ID: "cat-sides", RestaurantID: "rest-1", Name: "Sides", DisplayOrder: 1},
		{ID: "cat-other", RestaurantID: "rest-2", Name: "Specials", DisplayOrder: 0},
	}
	s.items = []Item{
		{ID: "item-burger", CategoryID: "cat-mains", Name: "Burger", Price: decimal.RequireFromString("9.00"), Available: true},
		{ID: "item-fries", CategoryID: "cat-sides", Name: "Fries", Price: decimal.RequireFromString("3.50"), Available: true},
	}
	return s
}

func TestAddCategoryValidates(t *testing.T) {
	s := NewStore(&stubRepo{}, nil, nil)

	_, err := s.AddCategory(context.Background(), Category{RestaurantID: "rest-1"})
	require.EqualError(t, err, "name is required")

	_, err = s.AddCategory(context.Background(), Category{Name: "Mains"})
	require.EqualError(t, err, "restaurant id is required")
}

func TestAddCategoryAssignsID(t *testing.T) {
	s := NewStore(&stubRepo{}, nil, nil)
	c, err := s.AddCategory(context.Background(), Category{RestaurantID: "rest-1", Name: "Mains"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	got := s.CategoriesByRestaurant("rest-1")
	require.Len(t, got, 1)
}

func TestUpdateCategoryPartial(t *testing.T) {
	s := seededStore(&stubRepo{})

	name := "Main Dishes"
	c, err := s.UpdateCategory(context.Background(), "cat-mains", CategoryUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Main Dishes", c.Name)
	require.Equal(t, 0, c.DisplayOrder, "unset fields stay put")
}

func TestDeleteCategoryCascades(t *testing.T) {
	repo := &stubRepo{}
	s := seededStore(repo)

	require.NoError(t, s.DeleteCategory(context.Background(), "cat-mains"))

	require.Equal(t, []string{"cat-mains"}, repo.deletedCats)
	require.Equal(t, []string{"cat-mains"}, repo.cascades)

	require.Len(t, s.CategoriesByRestaurant("rest-1"), 1)
	require.Empty(t, s.ItemsByCategory("cat-mains"))
	require.Len(t, s.ItemsByCategory("cat-sides"), 1)
}

func TestReorderRewritesDisplayOrder(t *testing.T) {
	repo := &stubRepo{}
	s := seededStore(repo)

	require.NoError(t, s.Reorder(context.Background(), []string{"cat-sides", "cat-mains"}))

	require.Equal(t, map[string]int{"cat-sides": 0, "cat-mains": 1}, repo.orderCalls)
	got := s.CategoriesByRestaurant("rest-1")
	require.Equal(t, "cat-sides", got[0].ID)
	require.Equal(t, "cat-mains", got[1].ID)
}

func TestAddItemValidates(t *testing.T) {
	s := seededStore(&stubRepo{})

	_, err := s.AddItem(context.Background(), Item{CategoryID: "cat-mains"}, nil)
	require.EqualError(t, err, "name is required")

	_, err = s.AddItem(context.Background(), Item{CategoryID: "cat-mains", Name: "Soup", Price: decimal.RequireFromString("-1")}, nil)
	require.EqualError(t, err, "price must be >= 0")

	_, err = s.AddItem(context.Background(), Item{CategoryID: "cat-missing", Name: "Soup"}, nil)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestAddItemUploadsImage(t *testing.T) {
	blobs := &stubBlobs{}
	s := seededStore(&stubRepo{})
	s.images = blobs

	img := &storage.Upload{Filename: "soup.png", ContentType: "image/png", Data: []byte("png")}
	it, err := s.AddItem(context.Background(), Item{CategoryID: "cat-mains", Name: "Soup", Price: decimal.RequireFromString("4.00")}, img)
	require.NoError(t, err)

	require.Len(t, blobs.uploads, 1)
	require.Contains(t, blobs.uploads[0], "rest-1/", "object path is scoped to the restaurant")
	require.Equal(t, "https://cdn.example/"+blobs.uploads[0], it.ImageURL)
}

func TestAddItemInsertFailureRemovesUpload(t *testing.T) {
	blobs := &stubBlobs{}
	repo := &stubRepo{insertItemErr: errors.New("boom")}
	s := seededStore(repo)
	s.images = blobs

	img := &storage.Upload{Filename: "soup.png", ContentType: "image/png", Data: []byte("png")}
	_, err := s.AddItem(context.Background(), Item{CategoryID: "cat-mains", Name: "Soup", Price: decimal.RequireFromString("4.00")}, img)
	require.Error(t, err)
	require.Len(t, blobs.removed, 1, "orphaned upload must be cleaned up")
}

func TestUpdateItemReplacesImage(t *testing.T) {
	blobs := &stubBlobs{}
	s := seededStore(&stubRepo{})
	s.images = blobs
	s.items[0].ImageURL = "https://cdn.example/rest-1/old.png"

	img := &storage.Upload{Filename: "new.png", ContentType: "image/png", Data: []byte("png")}
	it, err := s.UpdateItem(context.Background(), "item-burger", ItemUpdate{}, img)
	require.NoError(t, err)

	require.NotEqual(t, "https://cdn.example/rest-1/old.png", it.ImageURL)
	require.Equal(t, []string{"https://cdn.example/rest-1/old.png"}, blobs.removed)
}

func TestUpdateItemRejectsNegativePrice(t *testing.T) {
	s := seededStore(&stubRepo{})
	bad := decimal.RequireFromString("-0.01")
	_, err := s.UpdateItem(context.Background(), "item-burger", ItemUpdate{Price: &bad}, nil)
	require.EqualError(t, err, "price must be >= 0")
}

func TestDeleteItemRemovesImage(t *testing.T) {
	blobs := &stubBlobs{}
	s := seededStore(&stubRepo{})
	s.images = blobs
	s.items[0].ImageURL = "https://cdn.example/rest-1/burger.png"

	require.NoError(t, s.DeleteItem(context.Background(), "item-burger"))
	require.Equal(t, []string{"https://cdn.example/rest-1/burger.png"}, blobs.removed)
	_, ok := s.ItemByID("item-burger")
	require.False(t, ok)
}

func TestCategoriesSortedByDisplayOrder(t *testing.T) {
	s := seededStore(&stubRepo{})
	s.categories[0].DisplayOrder = 5

	got := s.CategoriesByRestaurant("rest-1")
	require.Equal(t, "cat-sides", got[0].ID)
	require.Equal(t, "cat-mains", got[1].ID)
}

func TestHydrateReplacesBothCollections(t *testing.T) {
	repo := &stubRepo{
		categories: []Category{{ID: "cat-new", RestaurantID: "rest-9", Name: "New"}},
		items:      []Item{{ID: "item-new", CategoryID: "cat-new", Name: "Dish"}},
	}
	s := seededStore(repo)

	require.NoError(t, s.Hydrate(context.Background()))

	require.Empty(t, s.CategoriesByRestaurant("rest-1"))
	require.Len(t, s.CategoriesByRestaurant("rest-9"), 1)
	require.Len(t, s.ItemsByCategory("cat-new"), 1)
}

func TestHydratePartialFailureKeepsCache(t *testing.T) {
	repo := &stubRepo{
		categories:   []Category{{ID: "cat-new", RestaurantID: "rest-9", Name: "New"}},
		listItemsErr: fmt.Errorf("boom"),
	}
	s := seededStore(repo)

	require.Error(t, s.Hydrate(context.Background()))
	require.Len(t, s.CategoriesByRestaurant("rest-1"), 2, "a failed fetch must not wipe the cache")
}

func TestRestoreRoundTrip(t *testing.T) {
	mirror := localcache.New(t.TempDir(), "menu-storage")

	first := NewStore(&stubRepo{}, nil, mirror)
	_, err := first.AddCategory(context.Background(), Category{ID: "cat-1", RestaurantID: "rest-1", Name: "Mains"})
	require.NoError(t, err)

	second := NewStore(&stubRepo{}, nil, mirror)
	require.True(t, second.Restore())
	require.Len(t, second.CategoriesByRestaurant("rest-1"), 1)
}
