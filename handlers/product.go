package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"menu-backend/dtos"
	"menu-backend/models"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func bindProductInput(c *gin.Context) (*dtos.ProductInput, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	var input dtos.ProductInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	if err := utils.ValidateImageURL(input.ImageURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &input, true
}

func (h *ProductHandler) categoryBelongs(restaurantID uuid.UUID, categoryID string) bool {
	var count int64
	h.DB.Model(&models.Category{}).Where("id = ? AND restaurant_id = ?", categoryID, restaurantID).Count(&count)
	return count > 0
}

// GetProducts lists every product of the restaurant, available or not.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	query := h.DB.Preload("Variants").Where("restaurant_id = ?", restaurantID)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	if err := query.Order("sort_order ASC, name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	input, ok := bindProductInput(c)
	if !ok {
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.categoryBelongs(restaurantID, input.CategoryID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	product := input.ToModel(restaurantID)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if !product.IsAvailable {
			return tx.Model(&product).Update("is_available", false).Error
		}
		return nil
	})
	if err != nil {
		h.Log.Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.Log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("variants", len(product.Variants)),
	)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies the fields present in the body. Sending any variant
// list replaces all variants of the product.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var product models.Product
	if err := h.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), restaurantID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	input, ok := bindProductInput(c)
	if !ok {
		return
	}
	if err := input.ValidatePartial(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.CategoryID != "" && !h.categoryBelongs(restaurantID, input.CategoryID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.NameAr != "" {
		updates["name_ar"] = strings.TrimSpace(input.NameAr)
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.ImageURL != "" {
		updates["image_url"] = input.ImageURL
	}
	if input.CategoryID != "" {
		updates["category_id"] = input.CategoryID
	}
	if input.PriceSet() {
		updates["price"] = input.Price
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.VariantsSet() {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			variants := input.Variants()
			for i := range variants {
				variants[i].ProductID = product.ID
			}
			if len(variants) > 0 {
				if err := tx.Create(&variants).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		h.Log.Error("failed to update product", zap.String("product_id", product.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.DB.Preload("Variants").First(&product, "id = ?", product.ID)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft-deletes the product. Placed orders keep their snapshot.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	res := h.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), restaurantID).Delete(&models.Product{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
