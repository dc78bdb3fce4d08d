package handlers

import (
	"errors"
	"net/http"
	"time"

	"menu-backend/catalog"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Catalog  *catalog.Store
	Sessions *utils.SessionStore
	TokenTTL time.Duration
	Log      *zap.Logger
}

// OpenSession starts a guest ordering session at a restaurant, optionally at
// one of its branches.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req struct {
		BranchID string `json:"branch_id" binding:"omitempty,uuid"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
			return
		}
	}

	restaurant, err := h.Catalog.RestaurantBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, catalog.ErrRestaurantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to load restaurant", zap.String("slug", c.Param("slug")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
		return
	}

	var branchID *uuid.UUID
	if req.BranchID != "" {
		id := uuid.MustParse(req.BranchID)
		if _, err := h.Catalog.Branch(c.Request.Context(), restaurant.ID, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
			return
		}
		branchID = &id
	}

	sess := h.Sessions.Create(restaurant.ID, branchID)
	token, err := utils.GenerateSessionToken(sess.ID, restaurant.ID, branchID, h.TokenTTL)
	if err != nil {
		h.Log.Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
		return
	}

	h.Log.Debug("session opened",
		zap.String("session_id", sess.ID.String()),
		zap.String("restaurant", restaurant.Slug),
	)

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"session_id": sess.ID,
		"restaurant": gin.H{
			"id":       restaurant.ID,
			"name":     restaurant.Name,
			"slug":     restaurant.Slug,
			"currency": restaurant.Currency,
		},
		"branch_id": branchID,
	})
}
