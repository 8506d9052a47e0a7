package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"minimart/internal/auth"
	"minimart/internal/cart"
	"minimart/internal/orders"
	"minimart/internal/pricing"
	"minimart/internal/store"
	"minimart/internal/uploads"
)

const requestTimeout = 5 * time.Second

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// ensureBackend pings backends that support it; the in-memory store does not.
func ensureBackend(ctx context.Context, backend interface{}) error {
	p, ok := backend.(Pinger)
	if !ok {
		return nil
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(checkCtx)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondStoreError maps domain and storage errors to a status code.
// notFound is the message used for a missing record.
func respondStoreError(c *gin.Context, route string, err error, notFound string) {
	var (
		validation orders.ValidationError
		field      auth.FieldError
	)
	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
		log.Printf("[%s] returning error 400: %v", route, err)
	case errors.As(err, &field):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": field.Message, "field": field.Field})
		log.Printf("[%s] returning error 400: %v", route, err)
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, pricing.ErrInvalidProduct),
		errors.Is(err, cart.ErrProductUnavailable),
		uploads.IsClientError(err):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
	case errors.Is(err, store.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, notFound)
	case errors.Is(err, store.ErrConflict):
		respondWithError(c, http.StatusConflict, route, "already exists")
	default:
		log.Printf("[%s] internal error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

// bindJSON decodes the body and turns binding failures into a 400 listing
// the offending fields.
func bindJSON(c *gin.Context, route string, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s is %s", lowerFirst(fe.Field()), fe.Tag()))
		}
		respondWithError(c, http.StatusBadRequest, route, strings.Join(fields, ", "))
		return false
	}
	respondWithError(c, http.StatusBadRequest, route, "invalid request body")
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func isConflict(err error) bool {
	return errors.Is(err, store.ErrConflict)
}
