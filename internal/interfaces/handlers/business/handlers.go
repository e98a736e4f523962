package business

import (
	"bytes"
	"encoding/json"

	bizsvc "akaguriroo-backend/internal/application/business"
	"akaguriroo-backend/internal/application/reports"
	"akaguriroo-backend/internal/middleware"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = apperr.Validation("Invalid request body")

type Handlers struct {
	Service *bizsvc.Service
	Reports *reports.Service
}

func decodeBody(c *fiber.Ctx, dst interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// POST /api/businesses: 201 with the new business
func (h *Handlers) CreateBusiness(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	var in bizsvc.CreateBusinessInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}
	b, err := h.Service.CreateBusiness(c.UserContext(), actor, in)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Business created successfully", b, nil)
}

// PATCH /api/businesses
func (h *Handlers) UpdateBusiness(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	var in bizsvc.UpdateBusinessInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}
	b, err := h.Service.UpdateBusiness(c.UserContext(), actor, in)
	if err != nil {
		return err
	}
	return response.Success(c, "Business updated successfully", b, nil)
}

// GET /api/businesses/orders: {orders, users}
func (h *Handlers) Orders(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	businessID, err := h.Service.BusinessIDForUser(c.UserContext(), actor)
	if err != nil {
		return err
	}
	out, err := h.Reports.BusinessOrders(c.UserContext(), businessID)
	if err != nil {
		return err
	}
	return response.Success(c, "Orders fetched successfully", out, nil)
}

// GET /api/businesses/transactions
func (h *Handlers) Transactions(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	businessID, err := h.Service.BusinessIDForUser(c.UserContext(), actor)
	if err != nil {
		return err
	}
	txs, err := h.Reports.BusinessTransactions(c.UserContext(), businessID)
	if err != nil {
		return err
	}
	return response.Success(c, "Transactions fetched successfully", txs, fiber.Map{"count": len(txs)})
}
