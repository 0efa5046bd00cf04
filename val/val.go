// Package val validates structs with go-playground/validator and reports failures
// as errx validation errors carrying one description per field.
package val

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(getTagName)
		registerCustomValidations(validate)
	})
	return validate
}

// getTagName names a field by its json, yaml or query tag, falling back to the Go name.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "yaml", "query"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0] //nolint:mnd // name and options
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}
