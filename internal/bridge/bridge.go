// Purpose: Implements the Diagnostic Channel Bridge (spec §4.5): an optional
// second attachment to the navigation host's CDP-style debugger channel,
// used only to recover redirect chains/initiators and raw WebSocket frames
// that the five primary lifecycle callbacks cannot see.
// bridge.go — attach/detach and message dispatch.
package bridge

import (
	"sync"
	"time"

	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/metrics"
	"github.com/brennhill/netcapture/internal/ttl"
	"github.com/brennhill/netcapture/internal/types"
	"github.com/brennhill/netcapture/internal/util"
)

// Bridge subscribes to a host's optional DiagnosticChannel and re-emits what
// it observes as cdp:initiator and ws:frame events. A host with no
// diagnostic channel, or one already claimed elsewhere, degrades to a no-op:
// the bridge is never required for the capture engine's own operation.
type Bridge struct {
	mu sync.Mutex

	sink    types.Sink
	metrics *metrics.Metrics
	logger  logging.Logger

	initiators map[string]*initiatorState
	sockets    map[string]string // requestID -> URL, from webSocket-created
	ttl        time.Duration

	disposer host.Disposer
}

// Option configures a Bridge at construction time.
type Option func(*Bridge)

// WithSink sets the event sink cdp:initiator and ws:frame are delivered to.
func WithSink(sink types.Sink) Option {
	return func(b *Bridge) { b.sink = sink }
}

// WithMetrics attaches a metrics bundle; if omitted, a no-op bundle is used.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithLogger attaches a structured logger; if omitted, logging is a no-op.
func WithLogger(l logging.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// New constructs a Bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		metrics:    metrics.Noop(),
		logger:     logging.NewNop(),
		initiators: make(map[string]*initiatorState),
		sockets:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes to h's diagnostic channel, if one is available. If the
// host exposes none (or it is already claimed), Attach returns a no-op
// disposer and no error — an absent diagnostic channel degrades the bridge
// to silence, never a failure (spec §4.5).
func (b *Bridge) Attach(h host.NavigationHost) (host.Disposer, error) {
	if h == nil {
		return func() {}, nil
	}

	ch, ok := h.DiagnosticChannel()
	if !ok {
		b.logger.Debug("diagnostic channel unavailable, bridge inactive")
		return func() {}, nil
	}

	disposer := ch.Subscribe(b.handleMessage)

	b.mu.Lock()
	b.disposer = disposer
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			disposer()
			b.mu.Lock()
			b.initiators = make(map[string]*initiatorState)
			b.sockets = make(map[string]string)
			b.disposer = nil
			b.mu.Unlock()
		})
	}, nil
}

// handleMessage routes a DiagnosticMessage by which tagged-union field is
// populated (spec's DESIGN NOTES: pattern-match, don't string-switch).
func (b *Bridge) handleMessage(msg host.DiagnosticMessage) {
	switch {
	case msg.RequestWillBeSent != nil:
		b.handleRequestWillBeSent(msg.RequestWillBeSent)
	case msg.WebSocketCreated != nil:
		b.handleWebSocketCreated(msg.WebSocketCreated)
	case msg.WebSocketFrame != nil:
		b.handleWebSocketFrame(msg.WebSocketFrame)
	}
}

// SetTTL sets the retention window swept by Sweep. A zero duration (the
// default) disables sweeping.
func (b *Bridge) SetTTL(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ttl = d
}

// Sweep drops initiator-tracking state untouched for longer than the
// configured TTL, bounding memory for a long-running session that never
// completes some requests it saw a redirect for (SPEC_FULL.md §10).
func (b *Bridge) Sweep(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ttl <= 0 {
		return
	}
	for id, st := range b.initiators {
		if ttl.Expired(st.touchedAt, now, b.ttl) {
			delete(b.initiators, id)
		}
	}
}

func (b *Bridge) emit(channel types.Channel, payload any) {
	if b.sink == nil {
		return
	}
	sink, ch := b.sink, channel
	util.SafeCall(func() { sink(types.Event{Channel: ch, Payload: payload}) })
}
