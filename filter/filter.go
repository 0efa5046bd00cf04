// Package filter describes record predicates and sort orders as plain data.
//
// An Expr is a small tagged union (field, operator, literal, composed with and/or/not)
// that can cross a process boundary as JSON and is compiled by the store into the
// native SQL predicate right before a query runs. Handlers only ever see Expr values,
// never the wire encoding.
package filter

import (
	"fmt"
	"slices"

	"github.com/code19m/errx"
)

// Op is a predicate operator.
type Op string

const (
	OpEq     Op = "eq"
	OpNe     Op = "ne"
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
	OpIn     Op = "in"
	OpLike   Op = "like"
	OpIsNull Op = "isnull"
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpNot    Op = "not"
)

const (
	CodeInvalidFilter = "INVALID_FILTER"
	CodeUnknownField  = "UNKNOWN_FIELD"
)

// Expr is a predicate over the fields of a record type.
// The zero value matches every record.
type Expr struct {
	Op    Op     `json:"op"`
	Field string `json:"field,omitempty"`
	Value any    `json:"value,omitempty"`
	Args  []Expr `json:"args,omitempty"`
}

// IsZero reports whether e is the empty predicate.
func (e Expr) IsZero() bool {
	return e.Op == ""
}

func Eq(field string, v any) Expr { return Expr{Op: OpEq, Field: field, Value: v} }

func Ne(field string, v any) Expr { return Expr{Op: OpNe, Field: field, Value: v} }

func Gt(field string, v any) Expr { return Expr{Op: OpGt, Field: field, Value: v} }

func Gte(field string, v any) Expr { return Expr{Op: OpGte, Field: field, Value: v} }

func Lt(field string, v any) Expr { return Expr{Op: OpLt, Field: field, Value: v} }

func Lte(field string, v any) Expr { return Expr{Op: OpLte, Field: field, Value: v} }

// In matches records whose field equals any of values. An empty list matches nothing.
func In(field string, values ...any) Expr {
	if values == nil {
		values = []any{}
	}
	return Expr{Op: OpIn, Field: field, Value: values}
}

// Like matches field against a SQL LIKE pattern.
func Like(field, pattern string) Expr { return Expr{Op: OpLike, Field: field, Value: pattern} }

func IsNull(field string) Expr { return Expr{Op: OpIsNull, Field: field} }

// And combines predicates. Empty predicates are dropped; a single remaining
// predicate is returned as is.
func And(exprs ...Expr) Expr {
	return combine(OpAnd, exprs)
}

// Or combines predicates the same way And does.
func Or(exprs ...Expr) Expr {
	return combine(OpOr, exprs)
}

// Not negates e. Negating the empty predicate yields the empty predicate.
func Not(e Expr) Expr {
	if e.IsZero() {
		return e
	}
	return Expr{Op: OpNot, Args: []Expr{e}}
}

func combine(op Op, exprs []Expr) Expr {
	args := slices.DeleteFunc(slices.Clone(exprs), Expr.IsZero)
	switch len(args) {
	case 0:
		return Expr{}
	case 1:
		return args[0]
	default:
		return Expr{Op: op, Args: args}
	}
}

// Fields returns the distinct field names referenced by e, in first-seen order.
func (e Expr) Fields() []string {
	var out []string
	e.walk(func(n Expr) {
		if n.Field != "" && !slices.Contains(out, n.Field) {
			out = append(out, n.Field)
		}
	})
	return out
}

func (e Expr) walk(fn func(Expr)) {
	if e.IsZero() {
		return
	}
	fn(e)
	for _, a := range e.Args {
		a.walk(fn)
	}
}

// Validate checks the structure of e. When allowedFields is not empty every
// referenced field must be one of them.
func (e Expr) Validate(allowedFields ...string) error {
	if e.IsZero() {
		return nil
	}

	var err error
	e.walk(func(n Expr) {
		if err != nil {
			return
		}
		err = n.validateNode(allowedFields)
	})
	return err
}

func (e Expr) validateNode(allowedFields []string) error {
	switch e.Op {
	case OpAnd, OpOr:
		if len(e.Args) < 2 { //nolint:mnd // binary or wider
			return invalid(e, "needs at least two arguments")
		}
		if slices.ContainsFunc(e.Args, Expr.IsZero) {
			return invalid(e, "contains an empty argument")
		}
		return nil
	case OpNot:
		if len(e.Args) != 1 || e.Args[0].IsZero() {
			return invalid(e, "needs exactly one argument")
		}
		return nil
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpLike, OpIsNull:
	default:
		return invalid(e, "unknown operator")
	}

	if e.Field == "" {
		return invalid(e, "field is required")
	}
	if len(e.Args) > 0 {
		return invalid(e, "comparison cannot have arguments")
	}
	if len(allowedFields) > 0 && !slices.Contains(allowedFields, e.Field) {
		return errx.New(
			fmt.Sprintf("field %q is not allowed in filters", e.Field),
			errx.WithCode(CodeUnknownField),
			errx.WithType(errx.T_Validation),
		)
	}

	switch e.Op { //nolint:exhaustive // only operators with value constraints
	case OpIn:
		if _, ok := e.Value.([]any); !ok {
			return invalid(e, "value must be a list")
		}
	case OpLike:
		if _, ok := e.Value.(string); !ok {
			return invalid(e, "value must be a string pattern")
		}
	case OpIsNull:
		if e.Value != nil {
			return invalid(e, "takes no value")
		}
	}
	return nil
}

func invalid(e Expr, reason string) error {
	return errx.New(
		fmt.Sprintf("invalid %q predicate: %s", e.Op, reason),
		errx.WithCode(CodeInvalidFilter),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"field": e.Field}),
	)
}
