package handlers

import (
	"net/http"

	"menu-backend/cart"
	"menu-backend/catalog"
	"menu-backend/dtos"
	"menu-backend/middleware"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	Catalog *catalog.Store
	Log     *zap.Logger
}

func session(c *gin.Context) (*utils.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return nil, false
	}
	return sess, true
}

func lineKey(c *gin.Context) (string, bool) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return "", false
	}
	return key, true
}

// resolve loads the product from the session's restaurant and resolves the
// chosen variants against it.
func (h *CartHandler) resolve(c *gin.Context, sess *utils.Session, productID string, choice cart.Choice) (*cart.Product, cart.Selection, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, cart.Selection{}, catalog.ErrProductNotFound
	}
	product, err := h.Catalog.Product(c.Request.Context(), sess.RestaurantID, id)
	if err != nil {
		return nil, cart.Selection{}, err
	}
	sel, err := cart.ResolveSelection(product, choice)
	if err != nil {
		return nil, cart.Selection{}, err
	}
	return product, sel, nil
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dtos.NewCartView(sess.Cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req dtos.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, sel, err := h.resolve(c, sess, req.ProductID, req.Choice())
	if err != nil {
		respondCartError(c, h.Log, err)
		return
	}

	line, err := sess.Cart.AddItem(product, sel, req.Quantity)
	if err != nil {
		respondCartError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"line_key": line.Key,
		"quantity": line.Quantity,
		"cart":     dtos.NewCartView(sess.Cart),
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it and an
// unknown key changes nothing.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}

	var req dtos.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	sess.Cart.UpdateQuantity(key, *req.Quantity)
	c.JSON(http.StatusOK, dtos.NewCartView(sess.Cart))
}

// ReplaceSelection changes the size, weight or extras of an existing line.
func (h *CartHandler) ReplaceSelection(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}

	var req dtos.ReplaceSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	existing, found := sess.Cart.Line(key)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
		return
	}

	product, sel, err := h.resolve(c, sess, existing.Product.ID, req.Choice())
	if err != nil {
		respondCartError(c, h.Log, err)
		return
	}

	line, err := sess.Cart.ReplaceSelection(key, product, sel, req.Quantity)
	if err != nil {
		respondCartError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"line_key": line.Key,
		"quantity": line.Quantity,
		"cart":     dtos.NewCartView(sess.Cart),
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}

	sess.Cart.RemoveItem(key)
	c.JSON(http.StatusOK, dtos.NewCartView(sess.Cart))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	sess.Cart.Clear()
	c.JSON(http.StatusOK, dtos.NewCartView(sess.Cart))
}
