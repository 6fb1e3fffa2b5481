package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Promise outcomes reported by RecordPromiseOutcome
const (
	PromiseOutcomeRegistered = "registered"
	PromiseOutcomeBroken     = "broken"
	PromiseOutcomeFulfilled  = "fulfilled"
	PromiseOutcomePartial    = "partial"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// MoraRunStats summarizes one mora processing run
type MoraRunStats struct {
	CreditsScanned int
	AlertsCreated  int
	AlertsUpdated  int
	Failures       int
	TotalFee       decimal.Decimal
	Duration       time.Duration
}

// CollectionMetrics tracks late fee processing and the promise-to-pay workflow.
// All methods are safe to call on a nil receiver.
type CollectionMetrics struct {
	promiseOutcomes *Counter
	remindersSent   *Counter
	creditsScanned  *Counter
	alertsOpened    *Counter
	alertsRefreshed *Counter
	runFailures     *Counter
	feeAccrued      *FloatCounter
	runDuration     *Histogram
	lastRunFailures *Gauge
}

// NewCollectionMetrics registers the collection instruments on meter.
func NewCollectionMetrics(meter metric.Meter) (*CollectionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &CollectionMetrics{}
	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&m.promiseOutcomes, "bury_collection_promise_outcomes_total", "Promise-to-pay transitions by outcome", "{promises}"},
		{&m.remindersSent, "bury_collection_reminders_total", "Promise due soon reminders published", "{reminders}"},
		{&m.creditsScanned, "bury_mora_credits_scanned_total", "Credits evaluated by mora processing", "{credits}"},
		{&m.alertsOpened, "bury_mora_alerts_opened_total", "Collection alerts opened by mora processing", "{alerts}"},
		{&m.alertsRefreshed, "bury_mora_alerts_refreshed_total", "Collection alerts refreshed by mora processing", "{alerts}"},
		{&m.runFailures, "bury_mora_credit_failures_total", "Credits that failed during mora processing", "{credits}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	m.feeAccrued, err = NewFloatCounter(meter, "bury_mora_fee_accrued_total", "Late fees computed by mora processing", "{currency}")
	if err != nil {
		return nil, err
	}
	m.runDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "bury_mora_run_duration_seconds",
		Description: "Duration of mora processing runs",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m.lastRunFailures, err = NewGauge(meter, "bury_mora_last_run_failures", "Failures in the latest mora processing run", "{credits}")
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPromiseOutcome counts a promise transition
func (m *CollectionMetrics) RecordPromiseOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.promiseOutcomes.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordReminders counts published reminders
func (m *CollectionMetrics) RecordReminders(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.remindersSent.Add(ctx, int64(count))
}

// RecordMoraRun records the outcome of a mora processing run
func (m *CollectionMetrics) RecordMoraRun(ctx context.Context, stats MoraRunStats) {
	if m == nil {
		return
	}
	m.creditsScanned.Add(ctx, int64(stats.CreditsScanned))
	m.alertsOpened.Add(ctx, int64(stats.AlertsCreated))
	m.alertsRefreshed.Add(ctx, int64(stats.AlertsUpdated))
	m.runFailures.Add(ctx, int64(stats.Failures))
	m.feeAccrued.Add(ctx, stats.TotalFee.InexactFloat64())
	m.runDuration.RecordDuration(ctx, stats.Duration, AttrJob.String("mora_processing"))
	m.lastRunFailures.Record(ctx, int64(stats.Failures))
}
