package health

import (
	"errors"

	healthsvc "akaguriroo-backend/internal/application/health"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var errNoRedis = errors.New("redis is not configured")

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	Checker        *healthsvc.Checker
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Rdb == nil {
		return apperr.Internal(errNoRedis)
	}
	if err := healthsvc.Reset(c.UserContext(), h.Rdb); err != nil {
		return apperr.Internal(err)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON reports process, traffic and dependency status. 503 when a required dependency is down.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	report := h.Checker.Collect(c.UserContext())
	status := fiber.StatusOK
	if report.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(report)
}

// Errors returns the most recent 5xx entries recorded by the error handler.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Rdb == nil {
		return apperr.Internal(errNoRedis)
	}
	entries, err := healthsvc.ErrorLog(c.UserContext(), h.Rdb)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(entries)
}
