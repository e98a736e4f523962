package validation

import (
	"mime/multipart"
	"testing"

	"akaguriroo-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type businessBody struct {
	BusinessName string `json:"business_name" validate:"required,max=10"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(businessBody{ContactEmail: "nope"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	e := apperr.From(err)
	assert.Equal(t, "is required", e.Details["business_name"])
	assert.Equal(t, "must be a valid email", e.Details["contact_email"])

	assert.NoError(t, Struct(businessBody{BusinessName: "Akagu"}))
}

func TestFromMultipart_StringCoercion(t *testing.T) {
	f := FromMultipart(&multipart.Form{Value: map[string][]string{
		"title":        {"Chair"},
		"price":        {"19.99"},
		"stock":        {"5"},
		"isNegotiable": {"true"},
		"categoryId":   {""},
	}})

	assert.Equal(t, "Chair", *f.String("title"))

	price, err := f.Decimal("price")
	require.NoError(t, err)
	assert.Equal(t, "19.99", price.String())

	stock, err := f.Int("stock")
	require.NoError(t, err)
	assert.Equal(t, 5, *stock)

	neg, err := f.Bool("isNegotiable")
	require.NoError(t, err)
	assert.True(t, *neg)

	cat, err := f.UUID("categoryId")
	require.NoError(t, err)
	assert.Nil(t, cat)
	assert.False(t, f.Present("categoryId"))
}

func TestFromJSON_NumbersAndObjects(t *testing.T) {
	id := uuid.New()
	f, err := FromJSON([]byte(`{"price": 12.5, "stock": 3, "canDeliver": false, "attributes": {"color": "red"}, "locationId": "` + id.String() + `"}`))
	require.NoError(t, err)

	price, err := f.Decimal("price")
	require.NoError(t, err)
	assert.Equal(t, "12.5", price.String())

	stock, err := f.Int("stock")
	require.NoError(t, err)
	assert.Equal(t, 3, *stock)

	deliver, err := f.Bool("canDeliver")
	require.NoError(t, err)
	assert.False(t, *deliver)

	attrs, err := f.JSONObject("attributes")
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"red"}`, string(attrs))

	loc, err := f.UUID("locationId")
	require.NoError(t, err)
	assert.Equal(t, id, *loc)
}

func TestFields_InvalidValues(t *testing.T) {
	f := Fields{"price": "cheap", "stock": "-1", "isNegotiable": "maybe", "attributes": "[1,2]", "locationId": "x"}

	_, err := f.Decimal("price")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = f.Int("stock")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = f.Bool("isNegotiable")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = f.JSONObject("attributes")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	_, err = f.UUID("locationId")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestFromJSON_Empty(t *testing.T) {
	f, err := FromJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = FromJSON([]byte("{"))
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
