package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs       *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	lastOK     *prometheus.GaugeVec
	lowStock   prometheus.Gauge
	digestRows *prometheus.GaugeVec
}

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker times one job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts timing a run of job. A nil Metrics yields a tracker that
// records nothing.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End records the run outcome and passes err through.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	m := t.metrics
	m.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(t.job).Inc()
		m.runs.WithLabelValues(t.job, statusFailure).Inc()
		return err
	}
	m.runs.WithLabelValues(t.job, statusSuccess).Inc()
	m.lastOK.WithLabelValues(t.job).SetToCurrentTime()
	return nil
}

// SetLowStock publishes the number of raw materials at or below the threshold.
func (m *Metrics) SetLowStock(count int) {
	if m == nil {
		return
	}
	m.lowStock.Set(float64(count))
}

// SetDigest publishes the size of today's production board.
func (m *Metrics) SetDigest(orders, items, completed int) {
	if m == nil {
		return
	}
	m.digestRows.WithLabelValues("orders").Set(float64(orders))
	m.digestRows.WithLabelValues("items").Set(float64(items))
	m.digestRows.WithLabelValues("completed").Set(float64(completed))
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crafthouse_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crafthouse_jobs_failures_total",
		Help: "Total failures observed for background jobs.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crafthouse_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	lastOK := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "crafthouse_job_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run per job.",
	}, []string{"job"})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crafthouse_materials_low_stock",
		Help: "Raw materials at or below the low-stock threshold at the last scan.",
	})
	digest := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "crafthouse_production_today",
		Help: "Today's production board at the last digest, by kind.",
	}, []string{"kind"})
	registerer.MustRegister(runs, failures, duration, lastOK, lowStock, digest)
	return &Metrics{
		runs:       runs,
		failures:   failures,
		duration:   duration,
		lastOK:     lastOK,
		lowStock:   lowStock,
		digestRows: digest,
	}
}
