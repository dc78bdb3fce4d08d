package handlers

import (
	"errors"
	"net/http"

	"menu-backend/catalog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MenuHandler struct {
	Catalog *catalog.Store
	Log     *zap.Logger
}

// GetMenu returns the public menu of a restaurant, grouped by category.
// Optional query parameters: category_id, search.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	ctx := c.Request.Context()
	restaurant, err := h.Catalog.RestaurantBySlug(ctx, c.Param("slug"))
	if errors.Is(err, catalog.ErrRestaurantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to load restaurant", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	filter := catalog.MenuFilter{Search: c.Query("search")}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	menu, err := h.Catalog.Menu(ctx, restaurant.ID, filter)
	if err != nil {
		h.Log.Error("failed to load menu", zap.String("restaurant", restaurant.Slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": gin.H{
			"id":       restaurant.ID,
			"name":     restaurant.Name,
			"slug":     restaurant.Slug,
			"currency": restaurant.Currency,
		},
		"categories": menu,
	})
}

// GetProduct returns one product with the sizes, weights and extras a guest
// can choose from.
func (h *MenuHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	restaurant, err := h.Catalog.RestaurantBySlug(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	product, err := h.Catalog.Product(ctx, restaurant.ID, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to load product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}
