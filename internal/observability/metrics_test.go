package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Lookups.WithLabelValues("search", "success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Lookups.WithLabelValues("search", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Lookups.WithLabelValues("search", "success")))
}
