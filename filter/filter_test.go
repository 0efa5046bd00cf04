package filter_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/cqsdata/filter"
)

func TestAndOr(t *testing.T) {
	eq := filter.Eq("location_id", "L1")
	gt := filter.Gt("temperature_c", 10)

	tests := []struct {
		name     string
		got      filter.Expr
		expected filter.Expr
	}{
		{name: "and of nothing", got: filter.And(), expected: filter.Expr{}},
		{name: "and drops empty", got: filter.And(filter.Expr{}, eq), expected: eq},
		{name: "and of two", got: filter.And(eq, gt), expected: filter.Expr{Op: filter.OpAnd, Args: []filter.Expr{eq, gt}}},
		{name: "or of one", got: filter.Or(gt), expected: gt},
		{name: "not of empty", got: filter.Not(filter.Expr{}), expected: filter.Expr{}},
		{name: "not", got: filter.Not(eq), expected: filter.Expr{Op: filter.OpNot, Args: []filter.Expr{eq}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestFields(t *testing.T) {
	e := filter.Or(
		filter.And(filter.Eq("a", 1), filter.Eq("b", 2)),
		filter.Not(filter.Eq("a", 3)),
		filter.IsNull("c"),
	)

	assert.Equal(t, []string{"a", "b", "c"}, e.Fields())
	assert.Empty(t, filter.Expr{}.Fields())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		expr     filter.Expr
		allowed  []string
		wantCode string
	}{
		{name: "empty is valid", expr: filter.Expr{}},
		{name: "simple eq", expr: filter.Eq("summary", "Hot")},
		{name: "allowed field", expr: filter.Eq("summary", "Hot"), allowed: []string{"summary"}},
		{
			name:     "field not allowed",
			expr:     filter.Eq("password", "x"),
			allowed:  []string{"summary"},
			wantCode: filter.CodeUnknownField,
		},
		{
			name:     "unknown operator",
			expr:     filter.Expr{Op: "between", Field: "a"},
			wantCode: filter.CodeInvalidFilter,
		},
		{
			name:     "missing field",
			expr:     filter.Expr{Op: filter.OpEq, Value: 1},
			wantCode: filter.CodeInvalidFilter,
		},
		{
			name:     "and with single arg",
			expr:     filter.Expr{Op: filter.OpAnd, Args: []filter.Expr{filter.Eq("a", 1)}},
			wantCode: filter.CodeInvalidFilter,
		},
		{
			name:     "in needs list",
			expr:     filter.Expr{Op: filter.OpIn, Field: "a", Value: 1},
			wantCode: filter.CodeInvalidFilter,
		},
		{
			name:     "like needs string",
			expr:     filter.Expr{Op: filter.OpLike, Field: "a", Value: 1},
			wantCode: filter.CodeInvalidFilter,
		},
		{
			name:     "nested invalid",
			expr:     filter.Or(filter.Eq("a", 1), filter.Expr{Op: filter.OpNot}),
			wantCode: filter.CodeInvalidFilter,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.expr.Validate(tc.allowed...)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tc.wantCode))
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	original := filter.And(
		filter.Eq("location_id", "8c1f0a8e-56a6-4c3e-a0a4-3a7f0c4f2f11"),
		filter.Or(filter.Like("summary", "Ho%"), filter.In("summary", "Cold", "Mild")),
		filter.Not(filter.IsNull("summary")),
	)

	data, err := filter.Encode(original)
	require.NoError(t, err)

	decoded, err := filter.Decode(data, "location_id", "summary")
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		e, err := filter.Decode(nil)
		require.NoError(t, err)
		assert.True(t, e.IsZero())
	})

	t.Run("json null", func(t *testing.T) {
		e, err := filter.Decode([]byte("null"))
		require.NoError(t, err)
		assert.True(t, e.IsZero())
	})

	t.Run("numbers decode as float64", func(t *testing.T) {
		e, err := filter.Decode([]byte(`{"op":"gte","field":"temperature_c","value":25}`))
		require.NoError(t, err)
		assert.Equal(t, filter.Gte("temperature_c", float64(25)), e)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := filter.Decode([]byte(`{"op":`))
		require.Error(t, err)
		assert.True(t, errx.IsCodeIn(err, filter.CodeInvalidFilter))
	})

	t.Run("disallowed field", func(t *testing.T) {
		_, err := filter.Decode([]byte(`{"op":"eq","field":"secret","value":"x"}`), "summary")
		require.Error(t, err)
		assert.True(t, errx.IsCodeIn(err, filter.CodeUnknownField))
	})
}
