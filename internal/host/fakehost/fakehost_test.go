package fakehost

import (
	"testing"

	"github.com/brennhill/netcapture/internal/host"
	"github.com/stretchr/testify/require"
)

func TestFireDispatchesToRegisteredHandlers(t *testing.T) {
	h := New()
	var got host.PreRequestEvent
	h.OnPreRequest(func(ev host.PreRequestEvent) { got = ev })
	h.FirePreRequest(host.PreRequestEvent{ID: "1", Method: "GET", URL: "https://x.test"})
	require.Equal(t, "1", got.ID)
}

func TestDisposerStopsFurtherDelivery(t *testing.T) {
	h := New()
	calls := 0
	dispose := h.OnCompleted(func(host.CompletedEvent) { calls++ })
	h.FireCompleted(host.CompletedEvent{ID: "1"})
	dispose()
	h.FireCompleted(host.CompletedEvent{ID: "1"})
	require.Equal(t, 1, calls)
}

func TestDiagnosticChannelSingleAttach(t *testing.T) {
	h := New().WithDiagnosticChannel()
	ch1, ok1 := h.DiagnosticChannel()
	require.True(t, ok1)
	require.NotNil(t, ch1)

	_, ok2 := h.DiagnosticChannel()
	require.False(t, ok2)
}

func TestDiagnosticChannelAbsentByDefault(t *testing.T) {
	h := New()
	_, ok := h.DiagnosticChannel()
	require.False(t, ok)
}

func TestBodyTapPushAndEnd(t *testing.T) {
	tap := NewBodyTap()
	var chunks [][]byte
	ended := false
	tap.OnData(func(c []byte) { chunks = append(chunks, c) })
	tap.OnEnd(func() { ended = true })

	tap.PushData([]byte("hel"))
	tap.PushData([]byte("lo"))
	tap.End()

	require.Equal(t, [][]byte{[]byte("hel"), []byte("lo")}, chunks)
	require.True(t, ended)
}
