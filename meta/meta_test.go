package meta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/cqsdata/meta"
)

func TestInjectMetaToContext(t *testing.T) {
	tests := []struct {
		name     string
		data     map[meta.ContextKey]string
		key      meta.ContextKey
		expected any
	}{
		{
			name:     "single value",
			data:     map[meta.ContextKey]string{meta.TransactionID: "tx-1"},
			key:      meta.TransactionID,
			expected: "tx-1",
		},
		{
			name:     "empty value is skipped",
			data:     map[meta.ContextKey]string{meta.TraceID: ""},
			key:      meta.TraceID,
			expected: nil,
		},
		{
			name:     "empty map",
			data:     map[meta.ContextKey]string{},
			key:      meta.TraceID,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := meta.InjectMetaToContext(t.Context(), tc.data)
			assert.Equal(t, tc.expected, ctx.Value(tc.key))
		})
	}
}

func TestExtractMetaFromContext(t *testing.T) {
	ctx := t.Context()
	ctx = context.WithValue(ctx, meta.TransactionID, "tx-1")
	ctx = context.WithValue(ctx, meta.RequestKind, "list_query")
	ctx = context.WithValue(ctx, meta.TraceID, 42) // not a string
	ctx = context.WithValue(ctx, meta.ContextKey("custom"), "ignored")

	assert.Equal(t, map[meta.ContextKey]string{
		meta.TransactionID: "tx-1",
		meta.RequestKind:   "list_query",
	}, meta.ExtractMetaFromContext(ctx))
}

func TestFind(t *testing.T) {
	ctx := meta.InjectMetaToContext(t.Context(), map[meta.ContextKey]string{meta.RecordType: "Forecast"})

	assert.Equal(t, "Forecast", meta.Find(ctx, meta.RecordType))
	assert.Empty(t, meta.Find(ctx, meta.ServiceName))
}
