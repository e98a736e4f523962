package middleware

import (
	"time"

	"akaguriroo-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics observes request latency labelled by the matched route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = classify(err)
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
