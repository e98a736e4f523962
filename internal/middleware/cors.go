package middleware

import (
	"strings"

	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig lists who may call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string // exact origins, e.g. FRONTEND_URL
	AllowedSuffix  string   // e.g. .akaguriroo.com
	AllowLocalhost bool
	DevPassword    string
}

func (cfg CORSConfig) allows(c *fiber.Ctx, origin string) bool {
	lower := strings.ToLower(strings.TrimRight(origin, "/"))
	for _, o := range cfg.AllowedOrigins {
		if strings.EqualFold(o, lower) {
			return true
		}
	}
	if cfg.AllowedSuffix != "" && strings.HasSuffix(lower, strings.ToLower(cfg.AllowedSuffix)) {
		return true
	}
	if cfg.AllowLocalhost && (strings.HasPrefix(lower, "http://localhost:") || strings.HasPrefix(lower, "http://127.0.0.1:")) {
		return true
	}
	return cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword
}

// CORS rejects browser requests from unknown origins with 403 and answers preflights.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		// No origin (same-origin, curl, server-to-server): allow
		if origin == "" {
			return c.Next()
		}
		if !cfg.allows(c, origin) {
			return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden, nil)
		}
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, dev-password")
		c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		if c.Method() == fiber.MethodOptions {
			c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PATCH, DELETE, OPTIONS")
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
