package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
)

func TestNewTraceContext(t *testing.T) {
	tc := appctx.NewTraceContext("trace-1", "")
	assert.Equal(t, "trace-1", tc.TraceID)
	assert.NotEmpty(t, tc.RequestID)

	other := appctx.NewTraceContext("", "")
	assert.NotEqual(t, other.TraceID, other.RequestID)
}

func TestLogFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, appctx.LogFields(ctx))
	assert.Empty(t, appctx.GetRequestID(ctx))

	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t", RequestID: "r"})
	ctx = appctx.WithOperator(ctx, &appctx.Operator{Username: "ravi"})

	assert.Equal(t, []any{"trace_id", "t", "request_id", "r", "operator", "ravi"}, appctx.LogFields(ctx))
	assert.Equal(t, "r", appctx.GetRequestID(ctx))
	assert.Equal(t, "ravi", appctx.GetUsername(ctx))
	assert.Empty(t, appctx.GetBranchID(ctx))
}
