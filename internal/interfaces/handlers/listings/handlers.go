package listings

import (
	listsvc "akaguriroo-backend/internal/application/listings"
	"akaguriroo-backend/internal/application/media"
	"akaguriroo-backend/internal/config"
	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/middleware"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/response"
	"akaguriroo-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidProductID = apperr.Validation("Invalid product id")

type Handlers struct {
	Service *listsvc.Service
	Uploads config.UploadLimits
}

// GET /api/businesses/products
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	listings, err := h.Service.ListSellerListings(c.UserContext(), actor)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return response.Success(c, "You have no product on market", []domain.Listing{}, nil)
	}
	return response.Success(c, "Products fetched successfully", listings, fiber.Map{"count": len(listings)})
}

// POST /api/businesses/products (multipart): 201 with the listing and its media
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Wrap(apperr.CodeValidation, err, "Expected a multipart/form-data body")
	}
	raw := validation.FromMultipart(form)
	fields, err := listsvc.ParseFields(raw)
	if err != nil {
		return err
	}
	businessID, err := raw.UUID("businessId")
	if err != nil {
		return err
	}
	files, err := readFiles(form, h.Uploads)
	if err != nil {
		return err
	}

	listing, err := h.Service.CreateListing(c.UserContext(), listsvc.CreateListingInput{
		SellerID:   actor,
		BusinessID: businessID,
		Fields:     fields,
		Files:      files,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Product added successfully", listing, nil)
}

// PATCH /api/businesses/products/:productId (multipart or JSON)
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return errInvalidProductID
	}

	var raw validation.Fields
	var files []media.File
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperr.Wrap(apperr.CodeValidation, err, "Invalid multipart body")
		}
		raw = validation.FromMultipart(form)
		if files, err = readFiles(form, h.Uploads); err != nil {
			return err
		}
	} else if raw, err = validation.FromJSON(c.Body()); err != nil {
		return err
	}
	fields, err := listsvc.ParseFields(raw)
	if err != nil {
		return err
	}

	listing, err := h.Service.UpdateListing(c.UserContext(), listsvc.UpdateListingInput{
		SellerID:  actor,
		ListingID: productID,
		Fields:    fields,
		Files:     files,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Product updated successfully", listing, nil)
}

// DELETE /api/businesses/products/:productId
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	actor, err := middleware.ActorID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return errInvalidProductID
	}
	if err := h.Service.DeleteListing(c.UserContext(), actor, productID); err != nil {
		return err
	}
	return response.Success(c, "Product deleted successfully", fiber.Map{"listings_id": productID}, nil)
}
