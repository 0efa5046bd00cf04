package filter

import (
	"github.com/code19m/errx"
	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals // shared codec configuration
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode renders e in its transport-safe JSON form.
func Encode(e Expr) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}

// Decode parses the JSON form of an Expr and validates its structure against
// allowedFields. Empty input decodes to the empty predicate.
func Decode(data []byte, allowedFields ...string) (Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return Expr{}, nil
	}

	var e Expr
	if err := json.Unmarshal(data, &e); err != nil {
		return Expr{}, errx.Wrap(err, errx.WithCode(CodeInvalidFilter), errx.WithType(errx.T_Validation))
	}

	if err := e.Validate(allowedFields...); err != nil {
		return Expr{}, errx.Wrap(err)
	}
	return e, nil
}
