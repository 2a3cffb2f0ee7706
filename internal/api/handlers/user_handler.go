package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-projects/internal/api/middleware"
	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), identity.UserID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
