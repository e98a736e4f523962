package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncListing("create")
	m.IncListing("create")
	m.AddMedia("image", 3)
	m.AddMedia("video", 0)
	m.ObserveRequest("GET", "", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.listings.WithLabelValues("create")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.media.WithLabelValues("image")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requests))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncListing("delete")
		m.AddMedia("image", 1)
		m.ObserveRequest("GET", "/x", 200, time.Second)
	})
	assert.NotPanics(t, func() { New(nil).IncListing("update") })
}
