package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"menu-backend/models"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type RestaurantHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := h.DB.Preload("Branches").Order("name ASC").Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurants"})
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=100"`
		Slug     string `json:"slug" binding:"required,max=60"`
		Currency string `json:"currency" binding:"omitempty,len=3"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug may only contain lowercase letters, digits and dashes"})
		return
	}

	var count int64
	h.DB.Model(&models.Restaurant{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken"})
		return
	}

	restaurant := models.Restaurant{
		Name:     strings.TrimSpace(req.Name),
		Slug:     slug,
		Currency: strings.ToUpper(req.Currency),
		Phone:    req.Phone,
		IsActive: true,
	}
	if restaurant.Currency == "" {
		restaurant.Currency = "USD"
	}
	if err := h.DB.Create(&restaurant).Error; err != nil {
		h.Log.Error("failed to create restaurant", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) ListBranches(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var branches []models.Branch
	if err := h.DB.Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC, name ASC").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *RestaurantHandler) CreateBranch(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var req struct {
		Name    string `json:"name" binding:"required,max=100"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var maxOrder struct{ Max *int }
	h.DB.Model(&models.Branch{}).Select("MAX(sort_order) AS max").Where("restaurant_id = ?", restaurantID).Scan(&maxOrder)
	next := 0
	if maxOrder.Max != nil {
		next = *maxOrder.Max + 1
	}

	branch := models.Branch{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Address:      req.Address,
		Phone:        req.Phone,
		SortOrder:    next,
		IsActive:     true,
	}
	if err := h.DB.Create(&branch).Error; err != nil {
		h.Log.Error("failed to create branch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create branch"})
		return
	}

	c.JSON(http.StatusCreated, branch)
}
