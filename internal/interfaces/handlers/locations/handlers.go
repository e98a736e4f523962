package locations

import (
	"akaguriroo-backend/internal/application/reports"
	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Reports *reports.Service
}

// GET /api/locations (public)
func (h *Handlers) List(c *fiber.Ctx) error {
	locs, err := h.Reports.Locations(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, "Locations fetched successfully", locs, nil)
}
