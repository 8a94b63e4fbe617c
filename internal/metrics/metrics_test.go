package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.EventsEmitted.WithLabelValues("rest:request").Inc()
	m.BytesCaptured.Add(42)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var found bool
	for _, f := range families {
		if f.GetName() == "netcapture_bytes_captured_total" {
			found = true
			require.Equal(t, float64(42), f.Metric[0].Counter.GetValue())
		}
	}
	require.True(t, found)
}

func TestNoopDoesNotPanic(t *testing.T) {
	m := Noop()
	m.EventsEmitted.WithLabelValues("x").Inc()
}
