package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

func TestFromContext_AddsTraceAndOperator(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithOperator(ctx, &appctx.Operator{Username: "ravi", BranchID: "HYD01"})

	logger.Info(ctx, "load received", "count", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "ravi", fields["operator"])
	assert.Equal(t, "HYD01", fields["operator_branch"])
	assert.Equal(t, int64(3), fields["count"])
}

func TestFromContext_WithoutValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	logger.Warn(logger.WithLogger(context.Background(), log), "plain")

	require.Equal(t, 1, logs.Len())
	_, hasOperator := logs.All()[0].ContextMap()["operator"]
	assert.False(t, hasOperator)
}

func TestFromContext_Fallback(t *testing.T) {
	assert.NotNil(t, logger.FromContext(context.Background()))
}

func TestNew(t *testing.T) {
	l, err := logger.New(logger.Config{Level: "bogus", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
