package listings

import (
	"akaguriroo-backend/internal/pkg/patch"
	"akaguriroo-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Fields are the listing attributes a request may carry. Nil means "not supplied".
type Fields struct {
	CategoryID    *uuid.UUID       `json:"categoryId"`
	SubcategoryID *uuid.UUID       `json:"subcategoryId"`
	LocationID    *uuid.UUID       `json:"locationId"`
	Title         *string          `json:"title" validate:"omitempty,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"`
	Currency      *string          `json:"currency" validate:"omitempty,len=3"`
	Condition     *string          `json:"condition" validate:"omitempty,max=50"`
	IsNegotiable  *bool            `json:"isNegotiable"`
	CanDeliver    *bool            `json:"canDeliver"`
	Stock         *int             `json:"stock"`
	Attributes    datatypes.JSON   `json:"attributes"`
}

// ParseFields coerces a form or JSON body (camelCase keys) into Fields.
func ParseFields(raw validation.Fields) (Fields, error) {
	var f Fields
	var err error
	if f.CategoryID, err = raw.UUID("categoryId"); err != nil {
		return f, err
	}
	if f.SubcategoryID, err = raw.UUID("subcategoryId"); err != nil {
		return f, err
	}
	if f.LocationID, err = raw.UUID("locationId"); err != nil {
		return f, err
	}
	if f.Price, err = raw.Decimal("price"); err != nil {
		return f, err
	}
	if f.Stock, err = raw.Int("stock"); err != nil {
		return f, err
	}
	if f.IsNegotiable, err = raw.Bool("isNegotiable"); err != nil {
		return f, err
	}
	if f.CanDeliver, err = raw.Bool("canDeliver"); err != nil {
		return f, err
	}
	if f.Attributes, err = raw.JSONObject("attributes"); err != nil {
		return f, err
	}
	f.Title = raw.String("title")
	f.Description = raw.String("description")
	f.Currency = raw.String("currency")
	f.Condition = raw.String("condition")
	return f, validation.Struct(f)
}

// columns is the partial update for the supplied fields.
func (f Fields) columns() *patch.Set {
	s := patch.New().
		String("title", f.Title).
		String("description", f.Description).
		String("currency", f.Currency).
		String("condition", f.Condition).
		Bool("is_negotiable", f.IsNegotiable).
		Bool("can_deliver", f.CanDeliver).
		Value("attributes", f.Attributes, f.Attributes != nil)
	patch.Ptr(s, "category_id", f.CategoryID)
	patch.Ptr(s, "subcategory_id", f.SubcategoryID)
	patch.Ptr(s, "location_id", f.LocationID)
	patch.Ptr(s, "price", f.Price)
	patch.Ptr(s, "stock", f.Stock)
	return s
}
