// 2akel server: restaurant menus, carts and orders over a hosted data
// service (or a local Postgres in self-hosted mode).
//
// @title 2akel API
// @version 1.0
// @description Restaurant menu and ordering API.
// @BasePath /api/v1
package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/omarsaab96/2akel/docs"
	"github.com/omarsaab96/2akel/internal/config"
	"github.com/omarsaab96/2akel/internal/httpx"
	"github.com/omarsaab96/2akel/internal/localcache"
	"github.com/omarsaab96/2akel/internal/menu"
	"github.com/omarsaab96/2akel/internal/order"
	"github.com/omarsaab96/2akel/internal/remote"
	"github.com/omarsaab96/2akel/internal/saved"
	"github.com/omarsaab96/2akel/internal/storage"
	"github.com/omarsaab96/2akel/internal/user"
)

type backend struct {
	auth     user.Authenticator
	profiles user.Repository
	menus    menu.Repository
	orders   order.Repository
	saved    saved.Repository
	images   storage.BlobStore
	mediaDir string // non-empty when images live on local disk
}

func newBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	if cfg.RemoteURL != "" {
		client := remote.NewClient(remote.Config{BaseURL: cfg.RemoteURL, APIKey: cfg.RemoteAnonKey})
		return &backend{
			auth:     user.NewRemoteAuth(client),
			profiles: user.NewRemoteRepo(client),
			menus:    menu.NewRemoteRepo(client),
			orders:   order.NewRemoteRepo(client),
			saved:    saved.NewRemoteRepo(client),
			images:   storage.NewBucket(client, cfg.StorageBucket),
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	return &backend{
		auth:     user.NewPGAuth(pool),
		profiles: user.NewPGRepo(pool),
		menus:    menu.NewPGRepo(pool),
		orders:   order.NewPGRepo(pool),
		saved:    saved.NewPGRepo(pool),
		images:   storage.NewDisk(cfg.MediaDir, cfg.MediaBaseURL),
		mediaDir: cfg.MediaDir,
	}, nil
}

// hydrateOrRestore prefers a fresh local mirror and falls back to a full
// remote fetch. A failed fetch over a usable (stale) mirror is logged,
// not fatal.
func hydrateOrRestore(ctx context.Context, name string, mirror *localcache.File, maxAge time.Duration,
	restore func() bool, hydrate func(context.Context) error) {
	if mirror.Fresh(maxAge) && restore() {
		log.Printf("[%s] restored from local mirror", name)
		return
	}
	if err := hydrate(ctx); err != nil {
		log.Printf("[%s] hydrate: %v", name, err)
		if restore() {
			log.Printf("[%s] using stale local mirror", name)
		}
	}
}

func newRouter(users *user.Store, menus *menu.Store, orders *order.Store, bookmarks *saved.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", registerHandler(users))
			auth.POST("/login", loginHandler(users))
			auth.POST("/logout", logoutHandler(users))
			auth.GET("/me", meHandler(users))
		}
		v1.PUT("/profile", updateProfileHandler(users))

		v1.GET("/restaurants", listRestaurantsHandler(users))
		v1.GET("/restaurants/:id/menu", restaurantMenuHandler(users, menus))

		v1.POST("/categories", createCategoryHandler(menus))
		v1.PUT("/categories/reorder", reorderCategoriesHandler(menus))
		v1.PUT("/categories/:id", updateCategoryHandler(menus))
		v1.DELETE("/categories/:id", deleteCategoryHandler(menus))

		v1.POST("/items", createItemHandler(menus))
		v1.PUT("/items/:id", updateItemHandler(menus))
		v1.PUT("/items/:id/image", uploadItemImageHandler(menus))
		v1.DELETE("/items/:id", deleteItemHandler(menus))

		v1.GET("/cart", getCartHandler(orders))
		v1.POST("/cart/items", addCartItemHandler(orders, menus))
		v1.PUT("/cart/items/:id", updateCartItemHandler(orders))
		v1.DELETE("/cart/items/:id", removeCartItemHandler(orders))
		v1.DELETE("/cart", clearCartHandler(orders))

		v1.POST("/orders", placeOrderHandler(orders))
		v1.GET("/orders", listOrdersHandler(orders))
		v1.GET("/orders/:id", getOrderHandler(orders))
		v1.PUT("/orders/:id/status", updateOrderStatusHandler(orders))
		v1.POST("/orders/:id/cancel", cancelOrderHandler(orders))

		v1.POST("/saved", saveRestaurantHandler(bookmarks))
		v1.DELETE("/saved", unsaveRestaurantHandler(bookmarks))
		v1.GET("/saved", listSavedHandler(bookmarks))
	}
	return r
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	be, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("[server] backend: %v", err)
	}

	authMirror := localcache.New(cfg.CacheDir, "auth-storage")
	menuMirror := localcache.New(cfg.CacheDir, "menu-storage")
	orderMirror := localcache.New(cfg.CacheDir, "order-storage")
	savedMirror := localcache.New(cfg.CacheDir, "saved-storage")

	users := user.NewStore(be.auth, be.profiles, authMirror)
	menus := menu.NewStore(be.menus, be.images, menuMirror)
	orders := order.NewStore(be.orders, orderMirror)
	bookmarks := saved.NewStore(be.saved, savedMirror)

	users.Restore()
	hydrateOrRestore(ctx, "menu", menuMirror, cfg.CacheMaxAge, menus.Restore, menus.Hydrate)
	hydrateOrRestore(ctx, "saved", savedMirror, cfg.CacheMaxAge, bookmarks.Restore, bookmarks.Hydrate)

	// The order mirror also carries the cart, so restore it regardless;
	// hydration replaces the order collection only.
	if orders.Restore() && orderMirror.Fresh(cfg.CacheMaxAge) {
		log.Printf("[order] restored from local mirror")
	} else if err := orders.Hydrate(ctx); err != nil {
		log.Printf("[order] hydrate: %v", err)
	}

	r := newRouter(users, menus, orders, bookmarks)
	if be.mediaDir != "" {
		r.Static("/media", be.mediaDir)
	}

	log.Printf("[server] listening on %s", cfg.ServerAddr)
	log.Fatal(r.Run(cfg.ServerAddr))
}
