package handlers

import (
	"errors"
	"net/http"

	"menu-backend/cart"
	"menu-backend/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondCartError maps cart and catalog errors to responses.
func respondCartError(c *gin.Context, log *zap.Logger, err error) {
	var invalid *cart.InvalidProductError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.Is(err, cart.ErrUnknownVariant), errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		log.Error("cart operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}
