package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func intSum(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not recorded", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestCollectionMetrics_RecordMoraRun(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewCollectionMetrics(provider.Meter("test"))
	require.NoError(t, err)

	metrics.RecordMoraRun(context.Background(), MoraRunStats{
		CreditsScanned: 12,
		AlertsCreated:  3,
		AlertsUpdated:  7,
		Failures:       1,
		TotalFee:       decimal.RequireFromString("456.78"),
		Duration:       2 * time.Second,
	})

	rm := collect(t, reader)
	assert.Equal(t, int64(12), intSum(t, rm, "bury_mora_credits_scanned_total"))
	assert.Equal(t, int64(3), intSum(t, rm, "bury_mora_alerts_opened_total"))
	assert.Equal(t, int64(7), intSum(t, rm, "bury_mora_alerts_refreshed_total"))
	assert.Equal(t, int64(1), intSum(t, rm, "bury_mora_credit_failures_total"))

	fee, ok := findMetric(rm, "bury_mora_fee_accrued_total")
	require.True(t, ok)
	feeSum := fee.Data.(metricdata.Sum[float64])
	require.Len(t, feeSum.DataPoints, 1)
	assert.InDelta(t, 456.78, feeSum.DataPoints[0].Value, 0.001)

	_, ok = findMetric(rm, "bury_mora_run_duration_seconds")
	assert.True(t, ok)
}

func TestCollectionMetrics_PromiseOutcomes(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewCollectionMetrics(provider.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	metrics.RecordPromiseOutcome(ctx, PromiseOutcomeRegistered)
	metrics.RecordPromiseOutcome(ctx, PromiseOutcomeRegistered)
	metrics.RecordPromiseOutcome(ctx, PromiseOutcomeBroken)
	metrics.RecordReminders(ctx, 4)
	metrics.RecordReminders(ctx, 0)

	rm := collect(t, reader)
	m, ok := findMetric(rm, "bury_collection_promise_outcomes_total")
	require.True(t, ok)
	byOutcome := map[string]int64{}
	for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
		outcome, _ := dp.Attributes.Value(AttrOutcome)
		byOutcome[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{PromiseOutcomeRegistered: 2, PromiseOutcomeBroken: 1}, byOutcome)
	assert.Equal(t, int64(4), intSum(t, rm, "bury_collection_reminders_total"))
}

func TestCollectionMetrics_NilReceiver(t *testing.T) {
	var metrics *CollectionMetrics

	assert.NotPanics(t, func() {
		metrics.RecordPromiseOutcome(context.Background(), PromiseOutcomeFulfilled)
		metrics.RecordReminders(context.Background(), 3)
		metrics.RecordMoraRun(context.Background(), MoraRunStats{})
	})
}

func TestNewCollectionMetrics_NilMeter(t *testing.T) {
	_, err := NewCollectionMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}
