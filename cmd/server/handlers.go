package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/omarsaab96/2akel/internal/httpx"
	"github.com/omarsaab96/2akel/internal/menu"
	"github.com/omarsaab96/2akel/internal/order"
	"github.com/omarsaab96/2akel/internal/saved"
	"github.com/omarsaab96/2akel/internal/storage"
	"github.com/omarsaab96/2akel/internal/user"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, menu.ErrCategoryNotFound),
		errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, saved.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, user.ErrAlreadyExist):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ---------- auth ----------

// LoginRequest payload.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"owner@burgers.example"`
	Password string `json:"password" example:"secret"`
}

func registerHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := users.Register(c.Request.Context(), in)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func loginHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := users.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func logoutHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.Logout(c.Request.Context()); err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := users.Current()
		if u == nil {
			httpx.ErrorMsg(c, http.StatusUnauthorized, "not logged in")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateProfileHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.ProfileUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := users.UpdateProfile(c.Request.Context(), in)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// ---------- places ----------

func listRestaurantsHandler(users *user.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, err := users.Restaurants(c.Request.Context())
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, rs)
	}
}

// MenuSection is one category with its items, as the public menu shows it.
type MenuSection struct {
	Category menu.Category `json:"category"`
	Items    []menu.Item   `json:"items"`
}

func restaurantMenuHandler(users *user.Store, menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		r, err := users.Restaurant(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		categories := menus.CategoriesByRestaurant(id)
		sections := make([]MenuSection, 0, len(categories))
		for _, cat := range categories {
			sections = append(sections, MenuSection{Category: cat, Items: menus.ItemsByCategory(cat.ID)})
		}
		c.JSON(http.StatusOK, gin.H{"restaurant": r, "menu": sections})
	}
}

// ---------- categories ----------

func createCategoryHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menu.Category
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		created, err := menus.AddCategory(c.Request.Context(), in)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateCategoryHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menu.CategoryUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		updated, err := menus.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteCategoryHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := menus.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ReorderRequest is the full category id sequence in the new order.
// swagger:model ReorderRequest
type ReorderRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

func reorderCategoriesHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ReorderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		if err := menus.Reorder(c.Request.Context(), in.CategoryIDs); err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---------- menu items ----------

func createItemHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menu.Item
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		created, err := menus.AddItem(c.Request.Context(), in, nil)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateItemHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menu.ItemUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		updated, err := menus.UpdateItem(c.Request.Context(), c.Param("id"), in, nil)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteItemHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := menus.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// uploadItemImageHandler replaces an item's image from a multipart form
// field named "image".
func uploadItemImageHandler(menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "image file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, err)
			return
		}
		img := &storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
		updated, err := menus.UpdateItem(c.Request.Context(), c.Param("id"), menu.ItemUpdate{}, img)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------- cart ----------

// AddCartItemRequest adds quantity of a menu item to the cart. Name and
// price are snapshotted from the catalog.
// swagger:model AddCartItemRequest
type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity   int    `json:"quantity"     example:"2"`
}

// CartResponse is the cart plus its computed total.
type CartResponse struct {
	Cart  order.Cart      `json:"cart"`
	Total decimal.Decimal `json:"total"`
}

func cartResponse(orders *order.Store) CartResponse {
	return CartResponse{Cart: orders.CartView(), Total: orders.CartTotal()}
}

func getCartHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartResponse(orders))
	}
}

func addCartItemHandler(orders *order.Store, menus *menu.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in AddCartItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		it, ok := menus.ItemByID(in.MenuItemID)
		if !ok {
			httpx.Error(c, http.StatusNotFound, menu.ErrItemNotFound)
			return
		}
		cat, ok := menus.CategoryByID(it.CategoryID)
		if !ok {
			httpx.Error(c, http.StatusNotFound, menu.ErrCategoryNotFound)
			return
		}
		orders.AddToCart(cat.RestaurantID, order.CartItem{
			MenuItemID: it.ID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   in.Quantity,
		})
		c.JSON(http.StatusOK, cartResponse(orders))
	}
}

// UpdateCartItemRequest sets a line quantity; zero or less removes it.
// swagger:model UpdateCartItemRequest
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

func updateCartItemHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in UpdateCartItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		orders.UpdateCartQuantity(c.Param("id"), in.Quantity)
		c.JSON(http.StatusOK, cartResponse(orders))
	}
}

func removeCartItemHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders.RemoveFromCart(c.Param("id"))
		c.JSON(http.StatusOK, cartResponse(orders))
	}
}

func clearCartHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders.ClearCart()
		c.Status(http.StatusNoContent)
	}
}

// ---------- orders ----------

// PlaceOrderRequest checks out the current cart.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	CustomerID          string `json:"customer_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	TableNumber         string `json:"table_number,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

func placeOrderHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in PlaceOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		if in.CustomerID == "" {
			httpx.ErrorMsg(c, http.StatusBadRequest, "customer_id is required")
			return
		}
		o, err := orders.PlaceOrder(c.Request.Context(), in.CustomerID, in.TableNumber, in.SpecialInstructions)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cid := c.Query("customer_id"); cid != "" {
			c.JSON(http.StatusOK, orders.ByCustomer(cid))
			return
		}
		if rid := c.Query("restaurant_id"); rid != "" {
			c.JSON(http.StatusOK, orders.ByRestaurant(rid))
			return
		}
		httpx.ErrorMsg(c, http.StatusBadRequest, "customer_id or restaurant_id is required")
	}
}

func getOrderHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, ok := orders.ByID(c.Param("id"))
		if !ok {
			httpx.Error(c, http.StatusNotFound, order.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// UpdateOrderStatusRequest moves an order along the lifecycle.
// swagger:model UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status order.Status `json:"status" example:"preparing"`
}

func updateOrderStatusHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func cancelOrderHandler(orders *order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// ---------- saved menus ----------

// SaveRequest bookmarks a restaurant for a customer.
// swagger:model SaveRequest
type SaveRequest struct {
	CustomerID   string `json:"customer_id"`
	RestaurantID string `json:"restaurant_id"`
}

func saveRestaurantHandler(bookmarks *saved.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in SaveRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.ErrorMsg(c, http.StatusBadRequest, "invalid json")
			return
		}
		if in.CustomerID == "" || in.RestaurantID == "" {
			httpx.ErrorMsg(c, http.StatusBadRequest, "customer_id and restaurant_id are required")
			return
		}
		sm, err := bookmarks.Save(c.Request.Context(), in.CustomerID, in.RestaurantID)
		if err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.JSON(http.StatusCreated, sm)
	}
}

func unsaveRestaurantHandler(bookmarks *saved.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, rid := c.Query("customer_id"), c.Query("restaurant_id")
		if cid == "" || rid == "" {
			httpx.ErrorMsg(c, http.StatusBadRequest, "customer_id and restaurant_id are required")
			return
		}
		if err := bookmarks.Unsave(c.Request.Context(), cid, rid); err != nil {
			httpx.Error(c, statusFor(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listSavedHandler(bookmarks *saved.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.Query("customer_id")
		if cid == "" {
			httpx.ErrorMsg(c, http.StatusBadRequest, "customer_id is required")
			return
		}
		c.JSON(http.StatusOK, bookmarks.ByCustomer(cid))
	}
}
