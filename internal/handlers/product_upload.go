package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"minimart/internal/pricing"
	"minimart/internal/uploads"
)

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"isActive"`
}

func (r productRequest) update() pricing.ProductUpdate {
	return pricing.ProductUpdate{
		Name:        trimmed(r.Name),
		Description: trimmed(r.Description),
		Price:       r.Price,
		Discount:    r.Discount,
		Category:    trimmed(r.Category),
		ImageURL:    trimmed(r.ImageURL),
		Stock:       r.Stock,
		IsActive:    r.IsActive,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// parseProductRequest reads a product write from either a JSON body or a
// multipart form. A multipart "image" file is stored and its URL used; the
// second result is that URL, empty when nothing was uploaded.
func parseProductRequest(c *gin.Context, images *uploads.ImageStore) (pricing.ProductUpdate, string, error) {
	if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		var req productRequest
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			return pricing.ProductUpdate{}, "", errors.New("invalid request body")
		}
		return req.update(), "", nil
	}
	return parseMultipartProductRequest(c, images)
}

func parseMultipartProductRequest(c *gin.Context, images *uploads.ImageStore) (pricing.ProductUpdate, string, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return pricing.ProductUpdate{}, "", err
	}

	var req productRequest
	for field, dst := range map[string]**string{
		"name":        &req.Name,
		"description": &req.Description,
		"category":    &req.Category,
		"imageUrl":    &req.ImageURL,
	} {
		if value, ok := lastPostForm(c, field); ok {
			v := value
			*dst = &v
		}
	}

	for field, dst := range map[string]**float64{
		"price":    &req.Price,
		"discount": &req.Discount,
	} {
		if value, ok := lastPostForm(c, field); ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return pricing.ProductUpdate{}, "", fmt.Errorf("invalid %s", field)
			}
			*dst = &parsed
		}
	}

	if value, ok := lastPostForm(c, "stock"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return pricing.ProductUpdate{}, "", errors.New("invalid stock")
		}
		req.Stock = &parsed
	}

	if value, ok := lastPostForm(c, "isActive"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return pricing.ProductUpdate{}, "", errors.New("invalid isActive")
		}
		req.IsActive = &parsed
	}

	url, err := saveFormImage(c, images)
	if err != nil {
		return pricing.ProductUpdate{}, "", err
	}
	if url != "" {
		req.ImageURL = &url
	}

	return req.update(), url, nil
}

// saveFormImage stores the "image" file of a multipart request. It returns an
// empty URL when the form carries no file.
func saveFormImage(c *gin.Context, images *uploads.ImageStore) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if images == nil {
		return "", errors.New("image uploads are disabled")
	}

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	return images.Upload(c.Request.Context(), file.Filename, file.Size, in)
}

// lastPostForm returns the last value of a repeated form field, so a
// checkbox paired with a hidden input reads as the checkbox.
func lastPostForm(c *gin.Context, key string) (string, bool) {
	values, ok := c.GetPostFormArray(key)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

// respondMultipartError reports form problems as 400 and disk failures while
// storing an image as 500.
func respondMultipartError(c *gin.Context, route string, err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		log.Printf("[%s] storing upload failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "upload failed")
		return
	}
	respondWithError(c, http.StatusBadRequest, route, err.Error())
}
