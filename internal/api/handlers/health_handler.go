package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool and the Redis client wrapper.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	DB        string    `json:"db"`
	Cache     string    `json:"cache"`
}

type HealthHandler struct {
	serviceName string
	db          Pinger
	cache       Pinger
}

// NewHealthHandler creates the health handler. db and cache may be nil.
func NewHealthHandler(serviceName string, db, cache Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, db: db, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		DB:        ping(c.Request.Context(), h.db),
		Cache:     ping(c.Request.Context(), h.cache),
	}

	status := http.StatusOK
	if resp.DB == "down" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
