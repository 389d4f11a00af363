package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	m := NewCollector()

	m.RequisitionTransitions.WithLabelValues("SUBMITTED").Inc()
	m.RequisitionTransitions.WithLabelValues("SUBMITTED").Inc()
	m.StockEventLineItems.WithLabelValues("skipped").Add(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequisitionTransitions.WithLabelValues("SUBMITTED")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StockEventLineItems.WithLabelValues("skipped")))
}

func TestRegisterGauge(t *testing.T) {
	m := NewCollector()
	m.RegisterGauge("socket", "subscribers", "Connected subscribers.", func() float64 { return 4 })

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "lmis_mock_socket_subscribers" {
			found = true
			assert.Equal(t, 4.0, f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found)
}
