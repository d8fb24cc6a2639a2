package http

import (
	"errors"
	"net/http"

	"goodloop/internal/entity"

	"github.com/gin-gonic/gin"
)

// respondError maps domain outcomes onto HTTP statuses without erasing
// which category occurred.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrGuardViolation),
		errors.Is(err, entity.ErrNotAvailable),
		errors.Is(err, entity.ErrInsufficientCredits):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
