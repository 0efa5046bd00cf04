package cfgloader

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/cqsdata/logger"
)

const maskTag = "mask"

func printConfig(config any, env string) {
	log := logger.Named("cfgloader").With("environment", env)

	out, err := yaml.Marshal(Masked(config))
	if err != nil {
		log.With("error", err.Error()).Warn("failed to marshal config")
		return
	}
	log.Infof("Loaded config:\n%s", string(out))
}

// Masked returns a copy of cfg in which fields tagged `mask:"true"` are masked:
// strings become asterisks of the same length, other scalars their zero value.
// Pointers are dereferenced; the input is never modified.
func Masked(cfg any) any {
	v := reflect.ValueOf(cfg)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() {
		return cfg
	}
	return copyMasked(v, false).Interface()
}

// copyMasked deep-copies structs, pointers and interfaces. When hide is set the
// leaves it reaches are masked.
func copyMasked(v reflect.Value, hide bool) reflect.Value {
	switch v.Kind() { //nolint:exhaustive // remaining kinds are leaves
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := copyMasked(v.Elem(), hide)
		if v.Kind() == reflect.Interface {
			return inner
		}
		p := reflect.New(inner.Type())
		p.Elem().Set(inner)
		return p

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := range v.NumField() {
			dst := out.Field(i)
			if !dst.CanSet() {
				continue
			}
			masked := hide || v.Type().Field(i).Tag.Get(maskTag) == "true"
			dst.Set(copyMasked(v.Field(i), masked))
		}
		return out

	case reflect.String:
		if hide {
			return reflect.ValueOf(strings.Repeat("*", v.Len())).Convert(v.Type())
		}
		return v

	case reflect.Slice, reflect.Array, reflect.Map:
		return v

	default:
		if hide {
			return reflect.Zero(v.Type())
		}
		return v
	}
}
