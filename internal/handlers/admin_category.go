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
	"minimart/internal/store"
	"minimart/internal/uploads"
)

type CategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Icon     string `json:"icon"`
	ImageURL string `json:"imageUrl"`
}

type CategoryUpdateRequest struct {
	Name     *string `json:"name"`
	Icon     *string `json:"icon"`
	ImageURL *string `json:"imageUrl"`
}

/*
POST /admin/api/categories
- names are unique
*/
func CreateCategory(categories store.Categories, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/categories"
		defer handlePanic(c, route)

		var req CategoryCreateRequest
		if !bindJSON(c, route, &req) {
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}

		category := models.Category{
			ID:        primitive.NewObjectID().Hex(),
			Name:      name,
			Icon:      strings.TrimSpace(req.Icon),
			ImageURL:  strings.TrimSpace(req.ImageURL),
			CreatedAt: time.Now().UTC(),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := categories.CreateCategory(ctx, category); err != nil {
			respondCategoryError(c, route, err)
			return
		}
		log.Printf("[%s] created category %s (%s)", route, category.ID, category.Name)
		events.Notify(ctx, publisher, store.CollectionCategories, events.ActionCreated, category.ID)

		c.JSON(http.StatusCreated, category)
	}
}

/*
PUT /admin/api/categories/:id
*/
func UpdateCategory(categories store.Categories, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/categories/:id"
		defer handlePanic(c, route)

		var req CategoryUpdateRequest
		if !bindJSON(c, route, &req) {
			return
		}
		if req.Name == nil && req.Icon == nil && req.ImageURL == nil {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := categories.GetCategory(ctx, c.Param("id"))
		if err != nil {
			respondCategoryError(c, route, err)
			return
		}

		updated := existing
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			updated.Name = name
		}
		if req.Icon != nil {
			updated.Icon = strings.TrimSpace(*req.Icon)
		}
		if req.ImageURL != nil {
			updated.ImageURL = strings.TrimSpace(*req.ImageURL)
		}

		if err := categories.ReplaceCategory(ctx, updated); err != nil {
			respondCategoryError(c, route, err)
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, updated.ImageURL)
		}
		events.Notify(ctx, publisher, store.CollectionCategories, events.ActionUpdated, updated.ID)

		c.JSON(http.StatusOK, updated)
	}
}

/*
DELETE /admin/api/categories/:id
*/
func DeleteCategory(categories store.Categories, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/categories/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := categories.GetCategory(ctx, c.Param("id"))
		if err != nil {
			respondCategoryError(c, route, err)
			return
		}
		if err := categories.DeleteCategory(ctx, existing.ID); err != nil {
			respondCategoryError(c, route, err)
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, "")
		}
		events.Notify(ctx, publisher, store.CollectionCategories, events.ActionDeleted, existing.ID)

		c.Status(http.StatusNoContent)
	}
}

func respondCategoryError(c *gin.Context, route string, err error) {
	if isConflict(err) {
		respondWithError(c, http.StatusConflict, route, "category already exists")
		return
	}
	respondStoreError(c, route, err, "category not found")
}
