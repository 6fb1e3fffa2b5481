package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration // default 200ms
	PoolStatsInterval  time.Duration // default 15s
}

// DBMetrics records query latency and connection pool usage.
type DBMetrics struct {
	poolConnections *Gauge
	queryTotal      *Counter
	queryDuration   *Histogram
	slowQueryTotal  *Counter

	config   DBMetricsConfig
	logger   *zap.Logger
	sqlDB    *sql.DB
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBMetrics creates the database instruments on meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}

	m := &DBMetrics{config: cfg, logger: logger, stopCh: make(chan struct{})}
	var err error
	if m.poolConnections, err = NewGauge(meter, "db_pool_connections", "Connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Database queries by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Database queries slower than the threshold", "{query}"); err != nil {
		return nil, err
	}
	m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuery records one finished statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	status := "ok"
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		status = "error"
	}
	attrs := []attribute.KeyValue{AttrDBOperation.String(operation), AttrDBTable.String(table), AttrOutcome.String(status)}
	m.queryTotal.Inc(ctx, attrs...)
	m.queryDuration.RecordDuration(ctx, duration, attrs[:2]...)
	if duration > m.config.SlowQueryThreshold {
		m.slowQueryTotal.Inc(ctx, attrs[:2]...)
	}
}

// Instrument registers the query callbacks on db and starts pool stats collection.
func (m *DBMetrics) Instrument(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m.sqlDB = sqlDB

	after := func(tx *gorm.DB) {
		stmtCtx := tx.Statement.Context
		if stmtCtx == nil {
			return
		}
		elapsed, ok := queryElapsed(stmtCtx)
		if !ok {
			return
		}
		m.RecordQuery(stmtCtx, operationOf(tx.Statement.SQL.String()), tx.Statement.Table, elapsed, tx.Error)
	}
	if err := registerAround(db, "db_metrics", markQueryStart, after); err != nil {
		return err
	}

	m.wg.Add(1)
	go m.collectPoolStats(ctx)

	m.logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", m.config.SlowQueryThreshold),
		zap.Duration("pool_stats_interval", m.config.PoolStatsInterval),
	)
	return nil
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.config.PoolStatsInterval)
	defer ticker.Stop()

	for {
		m.recordPoolStats(ctx)
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (m *DBMetrics) recordPoolStats(ctx context.Context) {
	if m.sqlDB == nil {
		return
	}
	stats := m.sqlDB.Stats()
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.MaxOpenConnections), AttrDBState.String("max"))
}

// Stop ends pool stats collection. It is safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()
}

func operationOf(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics wires database metrics when both the config and the meter provider are enabled.
// It returns nil metrics otherwise.
func RegisterDBMetrics(ctx context.Context, db *gorm.DB, provider *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || provider == nil || !provider.IsEnabled() {
		return nil, nil
	}
	m, err := NewDBMetrics(provider.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := m.Instrument(ctx, db); err != nil {
		return nil, err
	}
	return m, nil
}
