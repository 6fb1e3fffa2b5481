package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func TestGormLogger_Options(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)

	warn := gl.LogMode(gormlogger.Warn).(*GormLogger)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func(sql string) func() (string, int64) {
		return func() (string, int64) { return sql, 3 }
	}

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantLevel zapcore.Level
		wantMsg   string
		wantNone  bool
	}{
		{"error", gormlogger.Error, time.Now(), errors.New("deadlock detected"), zapcore.ErrorLevel, "SQL Error", false},
		{"record not found ignored", gormlogger.Error, time.Now(), gormlogger.ErrRecordNotFound, 0, "", true},
		{"slow query", gormlogger.Warn, time.Now().Add(-time.Second), nil, zapcore.WarnLevel, "SLOW SQL >= 200ms", false},
		{"normal query at info", gormlogger.Info, time.Now(), nil, zapcore.DebugLevel, "SQL Query", false},
		{"normal query at warn", gormlogger.Warn, time.Now(), nil, 0, "", true},
		{"silent", gormlogger.Silent, time.Now(), errors.New("boom"), 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level)

			gl.Trace(context.Background(), tt.begin, query("SELECT * FROM collection_alerts"), tt.err)

			if tt.wantNone {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, "SELECT * FROM collection_alerts", entry.ContextMap()["sql"])
		})
	}
}

func TestGormLogger_Trace_WithRunID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx, _ := WithJobRun(context.Background(), zap.NewNop(), "mora_processing", "run-9")

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE credits", 1 }, nil)

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "run-9", recorded.All()[0].ContextMap()["run_id"])
}

func TestGormLogger_Messages(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "migrating %s", "credits")
	gl.Warn(context.Background(), "slow %d", 1)
	gl.Error(context.Background(), "failed %s", "x")

	require.Equal(t, 2, recorded.Len())
	assert.Equal(t, "slow 1", recorded.All()[0].Message)
	assert.Equal(t, "failed x", recorded.All()[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
