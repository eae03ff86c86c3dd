package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "parking")

	m.RecordTransition("check_in", "ok")
	m.RecordTransition("check_in", "ok")
	m.RecordTransition("cancel", "rejected")
	m.RecordScan("checked_in")
	m.RecordSweep(3, 1)
	m.ObserveHTTPRequest("GET", "/api/v1/slots", 200, 10*time.Millisecond)
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("check_in", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("cancel", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("checked_in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeperRuns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweeperStates.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/slots", "200")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.dbOpenConns))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("expire", "ok")
		m.RecordScan("not_found")
		m.RecordSweep(1, 0)
		m.RecordNotification("sent")
		m.ObserveDBQuery("SELECT", time.Millisecond, nil)
		m.SetDBPoolStats(sql.DBStats{})
	})
}
