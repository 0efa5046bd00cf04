package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const CodeValidationFailed = "VALIDATION_FAILED"

// messages renders a human readable reason per validation tag. %s is the tag parameter.
var messages = map[string]string{
	"required":    "This field is required",
	"uuid":        "Must be a valid UUID",
	"gt":          "Must be greater than %s",
	"gte":         "Must be greater than or equal to %s",
	"gtefield":    "Must be greater than or equal to %s",
	"lt":          "Must be less than %s",
	"lte":         "Must be less than or equal to %s",
	tagNotNilUUID: "Must be a non-nil UUID",
	tagSortSpec:   "Must be a sort of the form field, field:asc or field:desc",
}

// ValidateSchema validates schema against its `validate` tags. Failures are
// reported as a single T_Validation error with one entry per offending field.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.New(
			"Unknown validation error: "+err.Error(),
			errx.WithCode(CodeValidationFailed), errx.WithType(errx.T_Validation),
		)
	}

	fields := make(errx.M, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = reason(fe)
	}
	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed), errx.WithType(errx.T_Validation), errx.WithFields(fields),
	)
}

func reason(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		bound := map[string]string{"min": "least", "max": "most"}[tag]
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at %s %s characters", bound, fe.Param())
		}
		return fmt.Sprintf("Must be at %s %s", bound, fe.Param())
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		msg, ok := messages[tag]
		if !ok {
			return "Failed validation: " + tag
		}
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, fe.Param())
		}
		return msg
	}
}
