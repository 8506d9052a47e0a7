package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minimart/internal/cart"
	"minimart/internal/models"
	"minimart/internal/orders"
)

type checkoutRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

/* =========================
   CHECKOUT
========================= */

// Checkout turns the session cart into an order. The cart is only cleared
// once the order is stored.
func Checkout(carts *cart.Service, placer cart.OrderPlacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if !bindJSON(c, route, &req) {
			return
		}

		sessionID := cartSession(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := carts.Checkout(ctx, sessionID, placer, models.CustomerInfo{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Notes:   req.Notes,
		})
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}

		log.Println("[ORDER] [INFO] guest order created:", order.ID)
		c.JSON(http.StatusCreated, gin.H{
			"orderId": order.ID,
			"order":   order,
			"message": "order created",
		})
	}
}

/* =========================
   TRACKING
========================= */

// TrackOrder needs both the order id and the phone used at checkout.
func TrackOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/track"
		defer handlePanic(c, route)

		orderID := strings.TrimSpace(c.Query("orderId"))
		phone := strings.TrimSpace(c.Query("phone"))
		if orderID == "" || phone == "" {
			respondWithError(c, http.StatusBadRequest, route, "orderId and phone are required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, found, err := service.Track(ctx, orderID, phone)
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
