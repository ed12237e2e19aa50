package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck is one named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler reports liveness and dependency readiness
type HealthHandler struct {
	BaseHandler
	checks  []HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health always answers 200 while the process is serving
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok"})
}

// Ready runs every dependency probe and answers 503 if any fails
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks[check.Name] = err.Error()
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	h.Success(c, resp)
}
