package handlers

import (
	"errors"
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

type BannerRequest struct {
	Title    *string `json:"title"`
	ImageURL *string `json:"imageUrl"`
	Link     *string `json:"link"`
	IsActive *bool   `json:"isActive"`
}

type HeroRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

func applyBanner(b models.Banner, req BannerRequest) models.Banner {
	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.ImageURL != nil {
		b.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Link != nil {
		b.Link = strings.TrimSpace(*req.Link)
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	return b
}

// GetBanners lists active banners for the storefront, or every banner when
// all is set (admin).
func GetBanners(banners store.Banners, all bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /banners"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := banners.ListBanners(ctx, !all)
		if err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateBanner(banners store.Banners, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/banners"
		defer handlePanic(c, route)

		var req BannerRequest
		if !bindJSON(c, route, &req) {
			return
		}

		banner := applyBanner(models.Banner{IsActive: true}, req)
		if banner.ImageURL == "" {
			respondWithError(c, http.StatusBadRequest, route, "imageUrl required")
			return
		}
		banner.ID = primitive.NewObjectID().Hex()
		banner.CreatedAt = time.Now().UTC()

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := banners.CreateBanner(ctx, banner); err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		events.Notify(ctx, publisher, store.CollectionBanners, events.ActionCreated, banner.ID)

		c.JSON(http.StatusCreated, banner)
	}
}

func UpdateBanner(banners store.Banners, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/banners/:id"
		defer handlePanic(c, route)

		var req BannerRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := banners.GetBanner(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		updated := applyBanner(existing, req)
		if updated.ImageURL == "" {
			respondWithError(c, http.StatusBadRequest, route, "imageUrl cannot be empty")
			return
		}

		if err := banners.ReplaceBanner(ctx, updated); err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, updated.ImageURL)
		}
		events.Notify(ctx, publisher, store.CollectionBanners, events.ActionUpdated, updated.ID)

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteBanner(banners store.Banners, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/banners/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := banners.GetBanner(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		if err := banners.DeleteBanner(ctx, existing.ID); err != nil {
			respondStoreError(c, route, err, "banner not found")
			return
		}
		if images != nil {
			images.Replace(existing.ImageURL, "")
		}
		events.Notify(ctx, publisher, store.CollectionBanners, events.ActionDeleted, existing.ID)

		c.Status(http.StatusNoContent)
	}
}

// GetHero returns an empty hero rather than 404 when none was ever set.
func GetHero(hero store.Hero) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /hero"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		h, err := hero.GetHero(ctx)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondStoreError(c, route, err, "hero not found")
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

func SetHero(hero store.Hero, images *uploads.ImageStore, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/hero"
		defer handlePanic(c, route)

		var req HeroRequest
		if !bindJSON(c, route, &req) {
			return
		}
		url := strings.TrimSpace(req.ImageURL)
		if url == "" {
			respondWithError(c, http.StatusBadRequest, route, "imageUrl required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		previous, err := hero.GetHero(ctx)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondStoreError(c, route, err, "hero not found")
			return
		}

		h := models.Hero{ImageURL: url, UpdatedAt: time.Now().UTC()}
		if err := hero.SetHero(ctx, h); err != nil {
			respondStoreError(c, route, err, "hero not found")
			return
		}
		if images != nil {
			images.Replace(previous.ImageURL, h.ImageURL)
		}
		events.Notify(ctx, publisher, store.CollectionHero, events.ActionUpdated, "primary")

		c.JSON(http.StatusOK, h)
	}
}
