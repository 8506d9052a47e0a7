package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"minimart/internal/models"
)

var ErrInvalidStatus = errors.New("invalid order status")

// ParseStatus accepts a status name in any letter case.
func ParseStatus(raw string) (models.OrderStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range models.OrderStatuses {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// SetStatus moves o to next and refreshes UpdatedAt. A terminal order is left
// untouched and false is returned. Any non-terminal target is allowed,
// including moving backwards.
func SetStatus(o *models.Order, next models.OrderStatus, now time.Time) bool {
	if o.Status.Terminal() {
		return false
	}
	o.Status = next
	o.UpdatedAt = now
	return true
}
