// Package patch builds partial UPDATE column sets.
//
// Fields are omitted when not supplied and never coalesced to the stored value:
// a column appears in the set only if the caller provided a usable value for it.
package patch

import (
	"sort"
	"strings"

	"akaguriroo-backend/internal/pkg/apperr"
)

// ErrNoFieldsProvided is returned when a partial update carries nothing to write.
var ErrNoFieldsProvided = apperr.Validation("No fields provided to update")

// Set accumulates column -> value pairs for a GORM Updates call.
type Set struct {
	cols map[string]interface{}
}

func New() *Set {
	return &Set{cols: make(map[string]interface{})}
}

// String adds col when v is non-nil and not blank. The trimmed value is stored.
func (s *Set) String(col string, v *string) *Set {
	if v == nil {
		return s
	}
	if t := strings.TrimSpace(*v); t != "" {
		s.cols[col] = t
	}
	return s
}

// Bool adds col when v is non-nil; false is a real value.
func (s *Set) Bool(col string, v *bool) *Set {
	if v != nil {
		s.cols[col] = *v
	}
	return s
}

// Value adds col when present is true.
func (s *Set) Value(col string, v interface{}, present bool) *Set {
	if present {
		s.cols[col] = v
	}
	return s
}

// Ptr adds col with *v when v is non-nil.
func Ptr[T any](s *Set, col string, v *T) *Set {
	if v != nil {
		s.cols[col] = *v
	}
	return s
}

func (s *Set) Len() int { return len(s.cols) }

// Has reports whether col will be written.
func (s *Set) Has(col string) bool {
	_, ok := s.cols[col]
	return ok
}

// Columns returns the column map, or ErrNoFieldsProvided when empty.
func (s *Set) Columns() (map[string]interface{}, error) {
	if len(s.cols) == 0 {
		return nil, ErrNoFieldsProvided
	}
	out := make(map[string]interface{}, len(s.cols))
	for k, v := range s.cols {
		out[k] = v
	}
	return out, nil
}

// Names lists the columns in the set, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.cols))
	for k := range s.cols {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
