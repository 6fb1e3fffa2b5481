package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	runIDKey  contextKey = "run_id"
	jobKey    contextKey = "job"
	agentKey  contextKey = "agent_id"
)

// WithContext returns a new context carrying logger
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithJobRun tags ctx and its logger with the scheduled job name and run ID
func WithJobRun(ctx context.Context, logger *zap.Logger, job, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, jobKey, job)
	ctx = context.WithValue(ctx, runIDKey, runID)
	enriched := logger.With(zap.String("job", job), zap.String("run_id", runID))
	return WithContext(ctx, enriched), enriched
}

// WithAgentID tags ctx and its logger with the collection agent acting on an alert
func WithAgentID(ctx context.Context, logger *zap.Logger, agentID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, agentKey, agentID)
	enriched := logger.With(zap.String("agent_id", agentID))
	return WithContext(ctx, enriched), enriched
}

// GetRunID returns the job run ID in ctx, if any
func GetRunID(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// GetJob returns the job name in ctx, if any
func GetJob(ctx context.Context) string {
	job, _ := ctx.Value(jobKey).(string)
	return job
}

// GetAgentID returns the agent ID in ctx, if any
func GetAgentID(ctx context.Context) string {
	agentID, _ := ctx.Value(agentKey).(string)
	return agentID
}

// WithTraceContext adds trace_id and span_id from the active span.
// The logger is returned unchanged when ctx holds no valid span.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// L returns the context logger enriched with trace and job fields.
//
//	logger.L(ctx).Info("alert refreshed", zap.String("alert_id", id))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the trace, job run and agent fields found in ctx to logger.
// Fields already attached by WithJobRun or WithAgentID are not repeated.
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = WithTraceContext(ctx, logger)
	if _, fromCtx := ctx.Value(loggerKey).(*zap.Logger); fromCtx {
		return logger
	}
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With(zap.String("job", GetJob(ctx)), zap.String("run_id", runID))
	}
	if agentID := GetAgentID(ctx); agentID != "" {
		logger = logger.With(zap.String("agent_id", agentID))
	}
	return logger
}
