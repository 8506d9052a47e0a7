package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"minimart/internal/cart"
)

const (
	CartCookie        = "cart_session"
	CartSessionHeader = "X-Cart-Session"
	cartCookieMaxAge  = 30 * 24 * 60 * 60
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartSession resolves the caller's cart session from the header or cookie,
// issuing a new one when neither carries a valid id.
func cartSession(c *gin.Context) string {
	id := c.GetHeader(CartSessionHeader)
	if id == "" {
		id, _ = c.Cookie(CartCookie)
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartCookie, id, cartCookieMaxAge, "/", "", false, true)
	c.Header(CartSessionHeader, id)
	return id
}

func respondCart(c *gin.Context, route string, view cart.View, err error) {
	if err != nil {
		respondStoreError(c, route, err, "product not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /cart
func GetCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.Get(ctx, cartSession(c))
		respondCart(c, route, view, err)
	}
}

// POST /cart/items adds a product. Out-of-stock products leave the cart as
// it was.
func AddCartItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.Add(ctx, cartSession(c), req.ProductID, req.Quantity)
		respondCart(c, route, view, err)
	}
}

// PUT /cart/items/:productId; zero or less removes the line.
func UpdateCartItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/items/:productId"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.UpdateQuantity(ctx, cartSession(c), c.Param("productId"), *req.Quantity)
		respondCart(c, route, view, err)
	}
}

// DELETE /cart/items/:productId
func RemoveCartItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.Remove(ctx, cartSession(c), c.Param("productId"))
		respondCart(c, route, view, err)
	}
}

// DELETE /cart
func ClearCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.Clear(ctx, cartSession(c))
		respondCart(c, route, view, err)
	}
}

// DELETE /cart/notification
func DismissCartNotification(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/notification"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := carts.DismissNotification(ctx, cartSession(c))
		respondCart(c, route, view, err)
	}
}
