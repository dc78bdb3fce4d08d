package handlers

import (
	"errors"
	"net/http"
	"strings"

	"menu-backend/catalog"
	"menu-backend/models"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Store
	Log     *zap.Logger
}

type categoryRequest struct {
	Name      string `json:"name" binding:"max=100"`
	NameAr    string `json:"name_ar" binding:"max=100"`
	SortOrder *int   `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var categories []models.Category
	if err := h.DB.Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	category := models.Category{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		NameAr:       strings.TrimSpace(req.NameAr),
		IsActive:     true,
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if err := h.DB.Create(&category).Error; err != nil {
		h.Log.Error("failed to create category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	// default:true swallows an explicit false on insert
	if req.IsActive != nil && !*req.IsActive {
		h.DB.Model(&category).Update("is_active", false)
		category.IsActive = false
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var category models.Category
	if err := h.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), restaurantID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.NameAr != "" {
		updates["name_ar"] = strings.TrimSpace(req.NameAr)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&category).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
	}
	h.DB.First(&category, "id = ?", category.ID)

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var productCount int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category dependencies"})
		return
	}

	if productCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Cannot delete category with associated products",
			"message":       "Please reassign or delete the associated products first",
			"product_count": productCount,
		})
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// Reorder rewrites the sort order of categories, products or branches from the
// given id order.
func (h *CategoryHandler) Reorder(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var req struct {
		IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	kind := catalog.ReorderKind(c.Param("kind"))
	err := h.Catalog.Reorder(c.Request.Context(), restaurantID, kind, req.IDs)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
	case errors.Is(err, catalog.ErrUnknownReorderKind):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown reorder kind"})
	case errors.Is(err, catalog.ErrNotInRestaurant):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Every id must belong to this restaurant"})
	default:
		h.Log.Error("reorder failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	}
}
