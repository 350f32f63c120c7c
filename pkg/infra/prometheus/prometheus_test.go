package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_IsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Initialize()
		Initialize()
	})
}

func TestAskFailures(t *testing.T) {
	before := testutil.ToFloat64(AskFailures.WithLabelValues("store_missing"))
	AskFailures.WithLabelValues("store_missing").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AskFailures.WithLabelValues("store_missing")))
}

func TestRegistry_GathersAppMetrics(t *testing.T) {
	RequestTotal.WithLabelValues("/api/ask", "POST", "2xx").Inc()

	families, err := Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["blogqa_requests_total"])
}
