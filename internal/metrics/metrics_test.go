package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_FieldMiss(t *testing.T) {
	r := New()
	r.FieldMiss("speed")
	r.FieldMiss("speed")
	r.FieldMiss("power")

	require.Equal(t, 2.0, testutil.ToFloat64(r.fieldMisses.WithLabelValues("speed")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.fieldMisses.WithLabelValues("power")))
}

func TestRecorder_Histograms(t *testing.T) {
	r := New()
	r.ObserveExtraction("parallel", 120*time.Millisecond)
	r.ObserveExtraction("sequential", 300*time.Millisecond)
	r.ObservePoolWait(time.Millisecond)

	require.Equal(t, 2, testutil.CollectAndCount(r.extraction))
	require.Equal(t, 1, testutil.CollectAndCount(r.poolWait))
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	require.NotPanics(t, func() {
		r.FieldMiss("speed")
		r.ObserveExtraction("parallel", time.Second)
		r.ObservePoolWait(time.Second)
	})
}

func TestRecorder_Options(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := New(WithNamespace("test"), WithRegistry(registry), WithHistogramBuckets([]float64{0.1, 1}))
	r.FieldMiss("gradient")

	require.Same(t, registry, r.Registry())
	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "test_field_misses_total")
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.FieldMiss("cadence")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `zwift_ocr_field_misses_total{field="cadence"} 1`))
}
