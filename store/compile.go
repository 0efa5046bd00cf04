package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/uptrace/bun/schema"

	"github.com/rise-and-shine/cqsdata/filter"
)

// compile turns e into a SQL fragment with "?" placeholders, suitable for bun's Where.
func compile(table *schema.Table, e filter.Expr) (string, []any, error) {
	pred, err := predicate(table, e)
	if err != nil {
		return "", nil, err
	}

	sql, args, err := pred.ToSql()
	if err != nil {
		return "", nil, errx.Wrap(err, errx.WithCode(filter.CodeInvalidFilter))
	}

	return sql, args, nil
}

func predicate(table *schema.Table, e filter.Expr) (sq.Sqlizer, error) {
	switch e.Op {
	case filter.OpAnd, filter.OpOr:
		parts := make([]sq.Sqlizer, 0, len(e.Args))
		for _, arg := range e.Args {
			p, err := predicate(table, arg)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		if len(parts) == 0 {
			return nil, invalid(e, "no operands")
		}
		if e.Op == filter.OpAnd {
			return sq.And(parts), nil
		}
		return sq.Or(parts), nil

	case filter.OpNot:
		if len(e.Args) != 1 {
			return nil, invalid(e, "not takes exactly one operand")
		}
		inner, err := predicate(table, e.Args[0])
		if err != nil {
			return nil, err
		}
		sql, args, err := inner.ToSql()
		if err != nil {
			return nil, errx.Wrap(err, errx.WithCode(filter.CodeInvalidFilter))
		}
		return sq.Expr("NOT ("+sql+")", args...), nil
	}

	col, err := column(table, e.Field)
	if err != nil {
		return nil, err
	}
	v := normalize(e.Value)

	switch e.Op {
	case filter.OpEq:
		return sq.Eq{col: v}, nil
	case filter.OpNe:
		return sq.NotEq{col: v}, nil
	case filter.OpGt:
		return sq.Gt{col: v}, nil
	case filter.OpGte:
		return sq.GtOrEq{col: v}, nil
	case filter.OpLt:
		return sq.Lt{col: v}, nil
	case filter.OpLte:
		return sq.LtOrEq{col: v}, nil
	case filter.OpLike:
		return sq.Like{col: v}, nil
	case filter.OpIsNull:
		return sq.Eq{col: nil}, nil
	case filter.OpIn:
		values, ok := v.([]any)
		if !ok {
			return nil, invalid(e, "in requires a list of values")
		}
		return sq.Eq{col: values}, nil
	default:
		return nil, invalid(e, "unknown operator")
	}
}

// column resolves a field name to the quoted, alias qualified column of table.
func column(table *schema.Table, field string) (string, error) {
	f, ok := table.FieldMap[field]
	if !ok {
		return "", errx.New(
			fmt.Sprintf("unknown field %q", field),
			errx.WithCode(filter.CodeUnknownField),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"field": field, "type": table.TypeName}),
		)
	}
	return string(table.SQLAlias) + "." + string(f.SQLName), nil
}

// normalize converts values the drivers would otherwise encode as raw bytes.
func normalize(v any) any {
	switch t := v.(type) {
	case uuid.UUID:
		return t.String()
	case []uuid.UUID:
		out := make([]any, len(t))
		for i, id := range t {
			out[i] = id.String()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}

func invalid(e filter.Expr, reason string) error {
	return errx.New(
		"invalid filter: "+reason,
		errx.WithCode(filter.CodeInvalidFilter),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"op": strings.ToLower(string(e.Op)), "field": e.Field}),
	)
}
