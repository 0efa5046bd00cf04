package val

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/filter"
)

const (
	tagNotNilUUID = "not_nil_uuid"
	tagSortSpec   = "sort_spec"
)

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation(tagNotNilUUID, validateNotNilUUID)
	_ = v.RegisterValidation(tagSortSpec, validateSortSpec)
}

// validateNotNilUUID accepts any uuid.UUID except uuid.Nil.
func validateNotNilUUID(fl validator.FieldLevel) bool {
	id, ok := fl.Field().Interface().(uuid.UUID)
	return ok && id != uuid.Nil
}

// validateSortSpec accepts "" or a "field", "field:asc" or "field:desc" string.
func validateSortSpec(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, ok := filter.ParseSort(s)
	return ok
}
