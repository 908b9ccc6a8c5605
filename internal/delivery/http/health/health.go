package http_health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

type Check func(ctx context.Context) error

type Controller struct {
	checks map[string]Check
	logger *slog.Logger
}

func New(checks map[string]Check) *Controller {
	return &Controller{
		checks: checks,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.health)
}

type HealthResponseDTO struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponseDTO
// @Failure 503 {object} HealthResponseDTO
// @Router /health [get]
func (c *Controller) health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), checkTimeout)
	defer cancel()

	resp := HealthResponseDTO{Status: "ok"}
	if len(c.checks) > 0 {
		resp.Components = make(map[string]string, len(c.checks))
	}
	for name, check := range c.checks {
		if err := check(checkCtx); err != nil {
			c.logger.Error("health check failed", slog.String("component", name), slog.String("error", err.Error()))
			resp.Components[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}
