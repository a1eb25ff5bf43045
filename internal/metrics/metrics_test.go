package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/metrics"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.QueueTransition("pending")
		m.QueueCounts(map[string]int{"pending": 1})
		m.AnalysisDone(true, time.Second)
		m.StoreOp("upsert", nil)
		m.RecordsStored(3)
		m.Backup(errors.New("x"))
	})
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.QueueTransition("reviewing")
	m.QueueCounts(map[string]int{"pending": 2, "error": 1})
	m.StoreOp("upsert", errors.New("disk full"))
	m.RecordsStored(5)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["adoptions_queue_transitions_total"])
	assert.True(t, names["adoptions_queue_items"])
	assert.True(t, names["adoptions_record_store_operations_total"])
	assert.True(t, names["adoptions_records_stored"])
}
