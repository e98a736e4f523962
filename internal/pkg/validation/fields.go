package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"akaguriroo-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Fields is a loosely typed request body: multipart values arrive as strings,
// JSON values as strings, json.Number, bool, objects or nil.
type Fields map[string]interface{}

// FromMultipart takes the first value of each form field.
func FromMultipart(form *multipart.Form) Fields {
	f := Fields{}
	if form == nil {
		return f
	}
	for k, vs := range form.Value {
		if len(vs) > 0 {
			f[k] = vs[0]
		}
	}
	return f
}

// FromJSON decodes a JSON object body. An empty body is an empty set of fields.
func FromJSON(body []byte) (Fields, error) {
	f := Fields{}
	if len(bytes.TrimSpace(body)) == 0 {
		return f, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, "Invalid JSON body")
	}
	return f, nil
}

// Present reports whether key was supplied with a non-empty value.
func (f Fields) Present(key string) bool {
	v, ok := f[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns the trimmed value, or nil when absent or blank.
func (f Fields) String(key string) *string {
	if !f.Present(key) {
		return nil
	}
	var s string
	switch v := f[key].(type) {
	case string:
		s = strings.TrimSpace(v)
	default:
		s = fmt.Sprint(v)
	}
	return &s
}

// Bool accepts true/false and their string forms ("true", "1", ...).
func (f Fields) Bool(key string) (*bool, error) {
	if !f.Present(key) {
		return nil, nil
	}
	switch v := f[key].(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, apperr.Validation(key + " must be true or false")
		}
		return &b, nil
	}
	return nil, apperr.Validation(key + " must be true or false")
}

// Decimal parses a non-negative number given as JSON number or string.
func (f Fields) Decimal(key string) (*decimal.Decimal, error) {
	if !f.Present(key) {
		return nil, nil
	}
	var raw string
	switch v := f[key].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	case float64:
		d := decimal.NewFromFloat(v)
		return nonNegativeDecimal(key, d)
	default:
		return nil, apperr.Validation(key + " must be a number")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperr.Validation(key + " must be a number")
	}
	return nonNegativeDecimal(key, d)
}

func nonNegativeDecimal(key string, d decimal.Decimal) (*decimal.Decimal, error) {
	if d.IsNegative() {
		return nil, apperr.Validation(key + " must not be negative")
	}
	return &d, nil
}

// Int parses a non-negative whole number given as JSON number or string.
func (f Fields) Int(key string) (*int, error) {
	if !f.Present(key) {
		return nil, nil
	}
	var raw string
	switch v := f[key].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	case float64:
		raw = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, apperr.Validation(key + " must be a whole number")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation(key + " must be a whole number")
	}
	if n < 0 {
		return nil, apperr.Validation(key + " must not be negative")
	}
	return &n, nil
}

// UUID parses an id reference. Blank values count as absent.
func (f Fields) UUID(key string) (*uuid.UUID, error) {
	s := f.String(key)
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, apperr.Validation(key + " must be a valid id")
	}
	return &id, nil
}

// JSONObject accepts an object or a string holding a JSON object.
func (f Fields) JSONObject(key string) (datatypes.JSON, error) {
	if !f.Present(key) {
		return nil, nil
	}
	var obj map[string]interface{}
	switch v := f[key].(type) {
	case map[string]interface{}:
		obj = v
	case string:
		if err := json.Unmarshal([]byte(v), &obj); err != nil || obj == nil {
			return nil, apperr.Validation(key + " must be a JSON object")
		}
	default:
		return nil, apperr.Validation(key + " must be a JSON object")
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, apperr.Validation(key + " must be a JSON object")
	}
	return datatypes.JSON(b), nil
}
