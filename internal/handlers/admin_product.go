package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"minimart/internal/events"
	"minimart/internal/models"
	"minimart/internal/pricing"
	"minimart/internal/store"
	"minimart/internal/uploads"
)

/* =======================
   GET (ADMIN) – LIST
======================= */

func GetAllProducts(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, total, err := products.ListProducts(ctx, store.ProductFilter{
			Category: strings.TrimSpace(c.Query("category")),
			Search:   strings.TrimSpace(c.Query("search")),
			Skip:     (page - 1) * limit,
			Limit:    limit,
		})
		if err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":       decorateProducts(list),
			"pagination": paginationBody(page, limit, total),
		})
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(products store.Products, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		input, uploaded, err := parseProductRequest(c, images)
		if err != nil {
			respondMultipartError(c, route, err)
			return
		}
		if input.Price == nil {
			discardUpload(images, uploaded)
			respondWithError(c, http.StatusBadRequest, route, "price required")
			return
		}

		now := time.Now().UTC()
		product, err := pricing.ApplyUpdate(models.Product{IsActive: true}, input)
		if err != nil {
			discardUpload(images, uploaded)
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		product.ID = primitive.NewObjectID().Hex()
		product.CreatedAt = now
		product.UpdatedAt = now

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.CreateProduct(ctx, product); err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}
		log.Printf("[%s] created product %s", route, product.ID)
		events.Notify(ctx, publisher, store.CollectionProducts, events.ActionCreated, product.ID)

		c.JSON(http.StatusCreated, pricing.Decorate(product))
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(products store.Products, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		input, uploaded, err := parseProductRequest(c, images)
		if err != nil {
			respondMultipartError(c, route, err)
			return
		}
		if input.Empty() {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := products.GetProduct(ctx, c.Param("id"))
		if err != nil {
			discardUpload(images, uploaded)
			respondStoreError(c, route, err, "product not found")
			return
		}

		updated, err := pricing.ApplyUpdate(existing, input)
		if err != nil {
			discardUpload(images, uploaded)
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		updated.UpdatedAt = time.Now().UTC()

		if err := products.ReplaceProduct(ctx, updated); err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, updated.ImageURL)
		}
		events.Notify(ctx, publisher, store.CollectionProducts, events.ActionUpdated, updated.ID)

		c.JSON(http.StatusOK, pricing.Decorate(updated))
	}
}

/* =======================
   DELETE
======================= */

func DeleteProduct(products store.Products, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := products.GetProduct(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}
		if err := products.DeleteProduct(ctx, existing.ID); err != nil {
			respondStoreError(c, route, err, "product not found")
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, "")
		}
		events.Notify(ctx, publisher, store.CollectionProducts, events.ActionDeleted, existing.ID)

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

// discardUpload removes an image stored for a write that was then rejected.
func discardUpload(images *uploads.ImageStore, url string) {
	if images == nil || url == "" {
		return
	}
	images.Replace(url, "")
}
