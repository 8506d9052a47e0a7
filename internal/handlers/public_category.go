package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"minimart/internal/store"
)

// GetCategories serves both the storefront and the admin list.
func GetCategories(categories store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		if err := ensureBackend(c.Request.Context(), categories); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := categories.ListCategories(ctx)
		if err != nil {
			respondStoreError(c, route, err, "category not found")
			return
		}

		log.Printf("[%s] returning %d categories", route, len(list))
		c.JSON(http.StatusOK, list)
	}
}
