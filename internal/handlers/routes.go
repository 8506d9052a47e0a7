package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minimart/internal/auth"
	"minimart/internal/cart"
	"minimart/internal/events"
	"minimart/internal/middleware"
	"minimart/internal/orders"
	"minimart/internal/store"
	"minimart/internal/uploads"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Store     store.Backend
	Carts     *cart.Service
	Orders    *orders.Service
	Auth      *auth.Service
	Images    *uploads.ImageStore
	Broker    *events.Broker
	Publisher events.Publisher
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Images != nil {
		r.Static(uploads.PublicPrefix, d.Images.Dir())
	}

	r.GET("/health", func(c *gin.Context) {
		if err := ensureBackend(c.Request.Context(), d.Store); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET("/products", GetProducts(d.Store))
	r.GET("/products/:id", GetProduct(d.Store))
	r.GET("/categories", GetCategories(d.Store))
	r.GET("/banners", GetBanners(d.Store, false))
	r.GET("/hero", GetHero(d.Store))

	r.GET("/cart", GetCart(d.Carts))
	r.POST("/cart/items", AddCartItem(d.Carts))
	r.PUT("/cart/items/:productId", UpdateCartItem(d.Carts))
	r.DELETE("/cart/items/:productId", RemoveCartItem(d.Carts))
	r.DELETE("/cart", ClearCart(d.Carts))
	r.DELETE("/cart/notification", DismissCartNotification(d.Carts))

	r.POST("/checkout", Checkout(d.Carts, d.Orders))
	r.GET("/orders/track", TrackOrder(d.Orders))

	if d.Broker != nil {
		r.GET("/events", StreamEvents(d.Broker))
	}

	r.POST("/admin/login", AdminLogin(d.Auth))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(d.JWTSecret))
	{
		admin.GET("/me", AdminMe())
		admin.PUT("/account", UpdateAdminCredentials(d.Auth))

		admin.GET("/products", GetAllProducts(d.Store))
		admin.POST("/products", CreateProduct(d.Store, d.Images, d.Publisher))
		admin.PUT("/products/:id", UpdateProduct(d.Store, d.Images, d.Publisher))
		admin.DELETE("/products/:id", DeleteProduct(d.Store, d.Images, d.Publisher))

		admin.GET("/categories", GetCategories(d.Store))
		admin.POST("/categories", CreateCategory(d.Store, d.Publisher))
		admin.PUT("/categories/:id", UpdateCategory(d.Store, d.Images, d.Publisher))
		admin.DELETE("/categories/:id", DeleteCategory(d.Store, d.Images, d.Publisher))

		admin.GET("/banners", GetBanners(d.Store, true))
		admin.POST("/banners", CreateBanner(d.Store, d.Publisher))
		admin.PUT("/banners/:id", UpdateBanner(d.Store, d.Images, d.Publisher))
		admin.DELETE("/banners/:id", DeleteBanner(d.Store, d.Images, d.Publisher))

		admin.PUT("/hero", SetHero(d.Store, d.Images, d.Publisher))

		if d.Images != nil {
			admin.POST("/uploads", UploadImage(d.Images))
		}

		admin.GET("/orders", GetOrders(d.Orders))
		admin.GET("/orders/statuses", GetOrderStatuses())
		admin.GET("/orders/:id", GetOrder(d.Orders))
		admin.PUT("/orders/:id/status", UpdateOrderStatus(d.Orders))
		admin.DELETE("/orders/:id", DeleteOrder(d.Orders))

		admin.GET("/reports/summary", GetSummary(d.Orders))
	}
}
