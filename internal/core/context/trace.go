package context

import (
	"context"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/id"
)

// TraceContext correlates the log lines and archived feeds of one request or CLI run.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// NewTraceContext keeps the given IDs and generates the missing ones.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = id.New().String()
	}
	if requestID == "" {
		requestID = id.New().String()
	}
	return &TraceContext{TraceID: traceID, RequestID: requestID}
}

func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

func GetTrace(ctx context.Context) *TraceContext {
	t, _ := ctx.Value(traceContextKey{}).(*TraceContext)
	return t
}

// GetRequestID returns the request ID, or "" outside a traced context.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// LogFields returns the trace and operator values as key/value pairs for a
// structured logger.
func LogFields(ctx context.Context) []any {
	var kv []any
	if t := GetTrace(ctx); t != nil {
		kv = append(kv, "trace_id", t.TraceID, "request_id", t.RequestID)
	}
	if op := GetOperator(ctx); op != nil {
		if op.Username != "" {
			kv = append(kv, "operator", op.Username)
		}
		if op.BranchID != "" {
			kv = append(kv, "operator_branch", op.BranchID)
		}
	}
	return kv
}
