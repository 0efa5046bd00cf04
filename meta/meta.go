// Package meta stores request metadata as string context values. The broker
// wrappers and HTTP middlewares write it; loggers read it back.
package meta

import "context"

// ContextKey is the context key type of every metadata value.
type ContextKey string

// Request scoped keys.
const (
	TraceID       ContextKey = "trace_id"
	TransactionID ContextKey = "transaction_id"
	RequestKind   ContextKey = "request_kind" // e.g. "add_command"
	RecordType    ContextKey = "record_type"
	IPAddress     ContextKey = "ip_address"
	UserAgent     ContextKey = "user_agent"
)

// Process scoped keys.
const (
	ServiceName    ContextKey = "service_name"
	ServiceVersion ContextKey = "service_version"
)

// Keys lists every key ExtractMetaFromContext looks for.
//
//nolint:gochecknoglobals // fixed key set
var Keys = []ContextKey{
	TraceID, TransactionID, RequestKind, RecordType,
	IPAddress, UserAgent, ServiceName, ServiceVersion,
}

// InjectMetaToContext returns ctx carrying every non-empty value of data.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for key, value := range data {
		if value == "" {
			continue
		}
		ctx = context.WithValue(ctx, key, value) //nolint:fatcontext // bounded by len(Keys)
	}
	return ctx
}

// ExtractMetaFromContext collects the non-empty string values stored under Keys.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	found := make(map[ContextKey]string, len(Keys))
	for _, key := range Keys {
		if value := Find(ctx, key); value != "" {
			found[key] = value
		}
	}
	return found
}

// Find returns the string stored under key, or "".
func Find(ctx context.Context, key ContextKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}
