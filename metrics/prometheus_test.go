// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	// untouched process defaults to noop meters, no panics, nil handler
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
	Gauge("noop_gauge").Set(7)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("count1").Add(3)
	CounterVec("count_vec1", []string{"status"}).
		AddWithLabel(1, map[string]string{"status": "ok"})
	Gauge("gauge1").Set(42)
	HistogramVec("hist1", []string{"code"}, BucketHTTPReqs).
		ObserveWithLabels(100, map[string]string{"code": "200"})

	handler := HTTPHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, "harvest_metrics_count1 3"))
	assert.True(t, strings.Contains(body, "harvest_metrics_gauge1 42"))
}

func TestSameMeterReturned(t *testing.T) {
	InitializePrometheusMetrics()

	c1 := Counter("same_count")
	c2 := Counter("same_count")
	assert.Equal(t, c1, c2)
}
