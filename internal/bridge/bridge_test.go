package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/host/fakehost"
	"github.com/brennhill/netcapture/internal/types"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	mu     sync.Mutex
	events []types.Event
}

func (s *sinkRecorder) sink(ev types.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *sinkRecorder) byChannel(ch types.Channel) []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Event
	for _, ev := range s.events {
		if ev.Channel == ch {
			out = append(out, ev)
		}
	}
	return out
}

func TestAttachWithNoDiagnosticChannelIsNoop(t *testing.T) {
	rec := &sinkRecorder{}
	b := New(WithSink(rec.sink))
	h := fakehost.New()

	dispose, err := b.Attach(h)
	require.NoError(t, err)
	require.NotNil(t, dispose)
	require.NotPanics(t, dispose)
}

func TestRequestWillBeSentEmitsInitiatorWithRedirectChain(t *testing.T) {
	rec := &sinkRecorder{}
	b := New(WithSink(rec.sink))
	h := fakehost.New().WithDiagnosticChannel()

	_, err := b.Attach(h)
	require.NoError(t, err)

	h.Diagnostic().Push(host.DiagnosticMessage{RequestWillBeSent: &host.RequestWillBeSentMessage{
		RequestID: "req1", URL: "https://example.com/a",
		Initiator: &host.Initiator{Type: "script", URL: "https://example.com/app.js"},
	}})
	h.Diagnostic().Push(host.DiagnosticMessage{RequestWillBeSent: &host.RequestWillBeSentMessage{
		RequestID: "req1", URL: "https://example.com/b",
		HasRedirect: true, RedirectFrom: "https://example.com/a", RedirectStatus: 302,
	}})

	events := rec.byChannel(types.ChannelCDPInitiator)
	require.Len(t, events, 2)

	last := events[1].Payload.(types.CDPInitiatorPayload)
	require.Equal(t, "req1", last.RequestID)
	require.Equal(t, "https://example.com/b", last.URL)
	require.Len(t, last.RedirectChain, 1)
	require.Equal(t, "https://example.com/a", last.RedirectChain[0].From)
	require.NotNil(t, last.Initiator)
	require.Equal(t, "script", last.Initiator.Type)
}

func TestWebSocketFrameCarriesURLFromCreated(t *testing.T) {
	rec := &sinkRecorder{}
	b := New(WithSink(rec.sink))
	h := fakehost.New().WithDiagnosticChannel()

	_, err := b.Attach(h)
	require.NoError(t, err)

	h.Diagnostic().Push(host.DiagnosticMessage{WebSocketCreated: &host.WebSocketCreatedMessage{
		RequestID: "ws1", URL: "wss://example.com/socket",
	}})
	op := 1
	h.Diagnostic().Push(host.DiagnosticMessage{WebSocketFrame: &host.WebSocketFrameMessage{
		RequestID: "ws1", Sent: true, Ts: 100, OpCode: &op, Data: "hello",
	}})

	events := rec.byChannel(types.ChannelWSFrame)
	require.Len(t, events, 1)
	frame := events[0].Payload.(types.WSFramePayload)
	require.Equal(t, "wss://example.com/socket", frame.URL)
	require.Equal(t, "out", frame.Direction)
	require.Equal(t, "hello", frame.Data)
}

func TestDetachStopsDelivery(t *testing.T) {
	rec := &sinkRecorder{}
	b := New(WithSink(rec.sink))
	h := fakehost.New().WithDiagnosticChannel()

	dispose, err := b.Attach(h)
	require.NoError(t, err)
	dispose()
	dispose()

	h.Diagnostic().Push(host.DiagnosticMessage{RequestWillBeSent: &host.RequestWillBeSentMessage{
		RequestID: "ws2", URL: "https://example.com/gone",
	}})

	require.Empty(t, rec.byChannel(types.ChannelCDPInitiator))
}

func TestAlreadyClaimedDiagnosticChannelDegradesToNoop(t *testing.T) {
	h := fakehost.New().WithDiagnosticChannel()
	_, ok := h.DiagnosticChannel()
	require.True(t, ok)

	b := New()
	_, err := b.Attach(h)
	require.NoError(t, err)
}

func TestWaitForDiagnosticChannelTimesOutWhenAbsent(t *testing.T) {
	h := fakehost.New()
	_, ok := WaitForDiagnosticChannel(h, 150*time.Millisecond)
	require.False(t, ok)
}

func TestWaitForDiagnosticChannelSucceedsWhenPresent(t *testing.T) {
	h := fakehost.New().WithDiagnosticChannel()
	ch, ok := WaitForDiagnosticChannel(h, time.Second)
	require.True(t, ok)
	require.NotNil(t, ch)
}

func TestSweepDropsStaleInitiatorState(t *testing.T) {
	rec := &sinkRecorder{}
	b := New(WithSink(rec.sink))
	b.SetTTL(time.Minute)
	h := fakehost.New().WithDiagnosticChannel()

	_, err := b.Attach(h)
	require.NoError(t, err)

	h.Diagnostic().Push(host.DiagnosticMessage{RequestWillBeSent: &host.RequestWillBeSentMessage{
		RequestID: "stale", URL: "https://example.com/a",
	}})

	b.mu.Lock()
	b.initiators["stale"].touchedAt = time.Now().Add(-2 * time.Minute)
	b.mu.Unlock()

	b.Sweep(time.Now())

	b.mu.Lock()
	_, exists := b.initiators["stale"]
	b.mu.Unlock()
	require.False(t, exists)
}
