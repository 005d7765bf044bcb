// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	assert.NotPanics(t, func() {
		m.GetOrCreateCountMeter("c").Add(1)
		m.GetOrCreateGaugeMeter("g").Set(1)
		m.GetOrCreateHistogramMeter("h", nil).Observe(1)
		m.GetOrCreateCountVecMeter("cv", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	})

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func gather(t *testing.T, m *prometheusMetrics, name string) *dto.MetricFamily {
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == namespace+"_"+name {
			return f
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestPromMetrics(t *testing.T) {
	m := newPrometheusMetrics()

	count := m.GetOrCreateCountMeter("loans_created")
	count.Add(2)
	m.GetOrCreateCountMeter("loans_created").Add(3)
	assert.Equal(t, float64(5), gather(t, m, "loans_created").GetMetric()[0].GetCounter().GetValue())

	vec := m.GetOrCreateCountVecMeter("calls", []string{"method"})
	vec.AddWithLabel(1, map[string]string{"method": "lend"})
	vec.AddWithLabel(1, map[string]string{"method": "lend"})
	vec.AddWithLabel(1, map[string]string{"method": "repay"})
	assert.Len(t, gather(t, m, "calls").GetMetric(), 2)

	gauge := m.GetOrCreateGaugeMeter("pool_size")
	gauge.Set(10)
	gauge.Add(-3)
	assert.Equal(t, float64(7), gather(t, m, "pool_size").GetMetric()[0].GetGauge().GetValue())

	hist := m.GetOrCreateHistogramMeter("gas", BucketGas)
	hist.Observe(21000)
	hist.Observe(60000)
	h := gather(t, m, "gas").GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), h.GetSampleCount())
	assert.Equal(t, float64(81000), h.GetSampleSum())

	m.GetOrCreateHistogramVecMeter("req", []string{"code"}, BucketHTTPReqs).
		ObserveWithLabels(4, map[string]string{"code": "200"})
	assert.Len(t, gather(t, m, "req").GetMetric(), 1)
}

func TestPromHandler(t *testing.T) {
	m := newPrometheusMetrics()
	m.GetOrCreateCountMeter("served").Add(1)

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nfc_served 1")
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, get())
	assert.Equal(t, 1, get())
}
