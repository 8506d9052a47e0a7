package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minimart/internal/models"
	"minimart/internal/orders"
	"minimart/internal/store"
)

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

/*
GET /admin/api/orders
- ?status= filters by one status
- ?view=grouped splits into active, completed and cancelled
*/
func GetOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		filter := store.OrderFilter{}
		if raw := strings.TrimSpace(c.Query("status")); raw != "" {
			status, err := orders.ParseStatus(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			filter.Status = status
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := service.List(ctx, filter)
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}

		if c.Query("view") == "grouped" {
			c.JSON(http.StatusOK, orders.Group(list))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

func GetOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		o, err := service.Get(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

/*
PUT /admin/api/orders/:id/status
- Delivered and Cancelled orders are returned unchanged
- stock is deducted on the first Accepted/Delivered and restored on Cancelled
*/
func UpdateOrderStatus(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		var req OrderStatusRequest
		if !bindJSON(c, route, &req) {
			return
		}
		status, err := orders.ParseStatus(req.Status)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := service.ApplyStatus(ctx, c.Param("id"), status)
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func DeleteOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := service.Delete(ctx, c.Param("id")); err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

// GET /admin/api/reports/summary
func GetSummary(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/reports/summary"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		summary, err := service.Summary(ctx)
		if err != nil {
			respondStoreError(c, route, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// GET /admin/api/orders/statuses lists the statuses the admin can choose and
// flags the final ones.
func GetOrderStatuses() gin.HandlerFunc {
	type statusOption struct {
		Status   models.OrderStatus `json:"status"`
		Terminal bool               `json:"terminal"`
	}
	return func(c *gin.Context) {
		options := make([]statusOption, 0, len(models.OrderStatuses))
		for _, s := range models.OrderStatuses {
			options = append(options, statusOption{Status: s, Terminal: s.Terminal()})
		}
		c.JSON(http.StatusOK, options)
	}
}
