package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	queueTransitions *prometheus.CounterVec
	queueItems       *prometheus.GaugeVec
	analysisDuration *prometheus.HistogramVec
	storeOps         *prometheus.CounterVec
	recordsStored    prometheus.Gauge
	backups          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queueTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptions_queue_transitions_total",
			Help: "Queue item transitions by target status.",
		}, []string{"status"}),
		queueItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "adoptions_queue_items",
			Help: "Queue items currently in each status.",
		}, []string{"status"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adoptions_analysis_duration_seconds",
			Help:    "Time spent extracting and analyzing one queue item.",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"outcome"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptions_record_store_operations_total",
			Help: "Record store operations by kind and result.",
		}, []string{"op", "result"}),
		recordsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adoptions_records_stored",
			Help: "Number of persisted adoption records after the last write.",
		}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoptions_backups_total",
			Help: "Scheduled backups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.queueTransitions, m.queueItems, m.analysisDuration, m.storeOps, m.recordsStored, m.backups)
	return m
}

// QueueTransition counts an item entering status.
func (m *Metrics) QueueTransition(status string) {
	if m == nil {
		return
	}
	m.queueTransitions.WithLabelValues(status).Inc()
}

// QueueCounts sets the per-status gauges.
func (m *Metrics) QueueCounts(counts map[string]int) {
	if m == nil {
		return
	}
	m.queueItems.Reset()
	for status, n := range counts {
		m.queueItems.WithLabelValues(status).Set(float64(n))
	}
}

// AnalysisDone observes one finished item.
func (m *Metrics) AnalysisDone(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.WithLabelValues(outcome(ok)).Observe(d.Seconds())
}

// StoreOp counts a record store operation.
func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, outcome(err == nil)).Inc()
}

// RecordsStored sets the stored record gauge.
func (m *Metrics) RecordsStored(n int) {
	if m == nil {
		return
	}
	m.recordsStored.Set(float64(n))
}

// Backup counts a backup run.
func (m *Metrics) Backup(err error) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(outcome(err == nil)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
