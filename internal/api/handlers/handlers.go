package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Health  *HealthHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, health *HealthHandler) *Handlers {
	return &Handlers{
		Auth:    &AuthHandler{authService: services.Auth},
		User:    &UserHandler{userService: services.User},
		Project: &ProjectHandler{projectService: services.Project},
		Health:  health,
	}
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this project"})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
	default:
		log.Printf("❌ [Handler] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func toUserSummary(u *repository.User) models.UserSummary {
	return models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUserSummaries(users []*repository.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, toUserSummary(u))
	}
	return out
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	resp := models.ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		CompletedTasks: p.CompletedTasks,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		ManagerID:      p.ManagerID,
		Team:           safeStringSlice(p.Team),
		Archived:       p.Archived,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Price.Valid {
		price := p.Price.Decimal
		resp.Price = &price
	}
	return resp
}

func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
