// Purpose: Implements the Network Capture Engine (spec §4.4): registers the
// navigation host's five ordered lifecycle callbacks, maintains per-id
// state, and emits rest:* events to a caller-supplied sink.
// capture.go — Capture struct, construction options, attach/detach.
package capture

import (
	"errors"
	"sync"

	"github.com/brennhill/netcapture/internal/aggregator"
	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/metrics"
	"github.com/brennhill/netcapture/internal/redaction"
	"github.com/brennhill/netcapture/internal/types"
	"github.com/brennhill/netcapture/internal/util"
)

// BodyPersister is what the engine needs from a Capture Session to
// implement "optionally invokes save_body and attaches the resulting
// descriptor" (spec §4.4 step 4). *recorder.Recorder satisfies this
// interface without referencing this package, by method shape alone.
type BodyPersister interface {
	ShouldPersistBody(size int, contentType string) bool
	SaveBody(idHint string, data []byte, contentType string) (types.SavedBodyDescriptor, error)
	NoteResponseBody(method, url string, descriptor types.SavedBodyDescriptor)
}

// Capture is the Network Capture Engine. One instance is attached to one
// navigation host for the lifetime of a capture session.
type Capture struct {
	mu sync.Mutex

	aggregator *aggregator.Aggregator
	redactor   *redaction.Engine
	metrics    *metrics.Metrics
	logger     logging.Logger
	sink       types.Sink
	persister  BodyPersister

	states     map[string]*requestState
	preflights map[preflightKey]types.PreflightRecord

	disposers []host.Disposer
	detached  bool
}

// Option configures a Capture at construction time.
type Option func(*Capture)

// WithSink sets the event sink every emitted channel is delivered to. If
// omitted, events are silently dropped (useful for a dry-run engine).
func WithSink(sink types.Sink) Option {
	return func(c *Capture) { c.sink = sink }
}

// WithPersister attaches a BodyPersister. Per SPEC_FULL.md's resolution of
// the corresponding open question, body persistence fires if and only if
// the gate in ShouldPersistBody holds AND a persister was supplied here;
// omitting this option disables persistence regardless of configuration.
func WithPersister(p BodyPersister) Option {
	return func(c *Capture) { c.persister = p }
}

// WithMetrics attaches a metrics bundle; if omitted, a no-op bundle is used.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Capture) { c.metrics = m }
}

// WithLogger attaches a structured logger; if omitted, logging is a no-op.
func WithLogger(l logging.Logger) Option {
	return func(c *Capture) { c.logger = l }
}

// New constructs a Capture engine. redactSecrets mirrors the session's
// redactSecrets configuration key and is read once, at construction
// (spec §9 "Redaction as transformation").
func New(redactSecrets bool, opts ...Option) *Capture {
	c := &Capture{
		aggregator: aggregator.New(),
		redactor:   redaction.New(redactSecrets),
		metrics:    metrics.Noop(),
		logger:     logging.NewNop(),
		states:     make(map[string]*requestState),
		preflights: make(map[preflightKey]types.PreflightRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Aggregator exposes the underlying Transaction Aggregator, e.g. for a
// Session Controller that wants Ordered()/Reset() at session boundaries.
func (c *Capture) Aggregator() *aggregator.Aggregator { return c.aggregator }

// Attach registers the engine's five callbacks on h in pipeline order and
// returns a disposer. Returning a disposer is mandatory (spec §4.4
// "Detach"); invoking it removes all five callbacks and clears every
// internal map. The disposer is idempotent and safe to call re-entrantly
// from within a callback or the event sink.
func (c *Capture) Attach(h host.NavigationHost) (host.Disposer, error) {
	if h == nil {
		return nil, errors.New("capture: navigation host is required")
	}

	c.mu.Lock()
	c.detached = false
	c.disposers = []host.Disposer{
		h.OnPreRequest(c.handlePreRequest),
		h.OnPreSendHeaders(c.handlePreSendHeaders),
		h.OnHeadersReceived(c.handleHeadersReceived),
		h.OnCompleted(c.handleCompleted),
		h.OnErrorOccurred(c.handleErrorOccurred),
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.detach() })
	}, nil
}

func (c *Capture) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.disposers {
		if d != nil {
			d()
		}
	}
	c.disposers = nil
	c.states = make(map[string]*requestState)
	c.preflights = make(map[preflightKey]types.PreflightRecord)
	c.detached = true
}

// emit delivers an event to the configured sink, if any, catching any
// panic the sink raises (spec §7 "Sink failures").
func (c *Capture) emit(channel types.Channel, payload any) {
	if c.sink == nil {
		return
	}
	sink, ch := c.sink, channel
	util.SafeCall(func() { sink(types.Event{Channel: ch, Payload: payload}) })
}
