package filter

import (
	"slices"
	"strings"
)

const (
	dirAsc  = "asc"
	dirDesc = "desc"

	// expectedPartsCount is the number of parts in a sort string (field:direction).
	expectedPartsCount = 2
)

// Sort is a single-key ordering. The zero value leaves row order to the store.
type Sort struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// IsZero reports whether s requests no ordering.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// Asc returns an ascending sort on field.
func Asc(field string) Sort { return Sort{Field: field} }

// Desc returns a descending sort on field.
func Desc(field string) Sort { return Sort{Field: field, Descending: true} }

// String renders s as "field:asc" or "field:desc", or "" for no ordering.
func (s Sort) String() string {
	if s.IsZero() {
		return ""
	}
	if s.Descending {
		return s.Field + ":" + dirDesc
	}
	return s.Field + ":" + dirAsc
}

// ParseSort parses a "field:asc" / "field:desc" string. A bare field name sorts
// ascending. Fields outside allowedFields (when given) and malformed directions
// yield the zero Sort and false.
func ParseSort(s string, allowedFields ...string) (Sort, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sort{}, false
	}

	parts := strings.Split(s, ":")
	if len(parts) > expectedPartsCount {
		return Sort{}, false
	}

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return Sort{}, false
	}
	if len(allowedFields) > 0 && !slices.Contains(allowedFields, field) {
		return Sort{}, false
	}

	if len(parts) == 1 {
		return Asc(field), true
	}

	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case dirAsc:
		return Asc(field), true
	case dirDesc:
		return Desc(field), true
	default:
		return Sort{}, false
	}
}
