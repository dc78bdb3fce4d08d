package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"menu-backend/checkout"
	"menu-backend/dtos"
	"menu-backend/models"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB              *gorm.DB
	CheckoutService *checkout.Service
	Log             *zap.Logger
}

// Checkout submits the session's cart as an order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	receipt, err := h.CheckoutService.Submit(c.Request.Context(), sess.Cart, sess.RestaurantID, sess.BranchID, req.Customer())
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrMissingCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already being submitted"})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Order service timed out, your cart was kept"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order, your cart was kept"})
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// TrackOrder is the public lookup by order number. Contact details are not
// exposed.
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	var order models.Order
	if err := h.DB.Preload("Items").Where("order_number = ?", c.Param("number")).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": order.OrderNumber,
		"reference":    order.Reference,
		"status":       order.Status,
		"items":        order.Items,
		"subtotal":     order.Subtotal,
		"tax":          order.Tax,
		"total":        order.Total,
		"created_at":   order.CreatedAt,
	})
}

// GetOrders lists a restaurant's orders, newest first. Optional query
// parameters: status, page, limit.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	status := c.Query("status")
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("restaurant_id = ?", restaurantID)
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}

	var total int64
	if err := h.DB.Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		h.Log.Error("failed to count orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	var orders []models.Order
	if err := h.DB.Scopes(scope).Preload("Items").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&orders).Error; err != nil {
		h.Log.Error("failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	restaurantID := c.MustGet("scope_restaurant_id").(uuid.UUID)

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND restaurant_id = ?", c.Param("id"), restaurantID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, req.Status),
		})
		return
	}

	// Compare-and-set on the status read above.
	res := h.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", req.Status)
	if res.Error != nil {
		h.Log.Error("failed to update order status", zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order status changed concurrently, please retry"})
		return
	}

	h.Log.Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(order.Status)),
		zap.String("to", string(req.Status)),
	)
	order.Status = req.Status

	utils.SendOrderStatusUpdate(h.Log, order.CustomerEmail, order.CustomerName, order.OrderNumber, string(req.Status))

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}

// NotifyOrderPlaced returns the hook the checkout service runs after a
// confirmed order: it mails the customer a confirmation.
func NotifyOrderPlaced(db *gorm.DB, log *zap.Logger) func(order *models.Order) {
	return func(order *models.Order) {
		if order.CustomerEmail == "" {
			return
		}
		var restaurant models.Restaurant
		if err := db.Select("name", "currency").Where("id = ?", order.RestaurantID).First(&restaurant).Error; err != nil {
			log.Warn("restaurant lookup for confirmation email failed", zap.Error(err))
		}
		utils.SendOrderConfirmation(log, order.CustomerEmail, order.CustomerName, restaurant.Name,
			order.OrderNumber, order.Total, restaurant.Currency)
	}
}
