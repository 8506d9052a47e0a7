package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minimart/internal/models"
	"minimart/internal/pricing"
	"minimart/internal/store"
)

func decorateProducts(list []models.Product) []models.Product {
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		out = append(out, pricing.Decorate(p))
	}
	return out
}

func paginationBody(page, limit, total int64) gin.H {
	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return gin.H{
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": totalPages,
	}
}

/*
GET /products
- active products only
- pagination only when both page and limit are given
*/
func GetProducts(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
		)

		if err := ensureBackend(c.Request.Context(), products); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := store.ProductFilter{
			ActiveOnly: true,
			Category:   strings.TrimSpace(c.Query("category")),
			Search:     strings.TrimSpace(c.Query("search")),
		}

		pageStr, limitStr := c.Query("page"), c.Query("limit")
		paginated := pageStr != "" && limitStr != ""
		var page, limit int64
		if paginated {
			var err error
			page, limit, err = parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			filter.Skip = (page - 1) * limit
			filter.Limit = limit
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, total, err := products.ListProducts(ctx, filter)
		if err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}

		log.Printf("[%s] returning %d products", route, len(list))
		if !paginated {
			c.JSON(http.StatusOK, decorateProducts(list))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":       decorateProducts(list),
			"pagination": paginationBody(page, limit, total),
		})
	}
}

// GET /products/:id hides inactive products from the storefront.
func GetProduct(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		p, err := products.GetProduct(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}
		if !p.IsActive {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		c.JSON(http.StatusOK, pricing.Decorate(p))
	}
}
