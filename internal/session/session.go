// Purpose: Implements the Session Controller (spec §4.6): the thin wiring
// layer that constructs a Capture Session and a Network Capture Engine on
// start, fans engine events out to the recorder and to an inspector sink,
// optionally attaches the Diagnostic Channel Bridge, and broadcasts session
// state to subscribers.
// session.go — Controller struct, State, Start, Stop, GetState.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/brennhill/netcapture/internal/bridge"
	"github.com/brennhill/netcapture/internal/capture"
	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/metrics"
	"github.com/brennhill/netcapture/internal/recorder"
	"github.com/brennhill/netcapture/internal/types"
)

// State is the Session Controller's externally visible status, delivered by
// GetState and every subscriber push.
type State struct {
	Capturing bool      `json:"capturing"`
	SessionID string    `json:"session_id,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Controller wires the Capture Session, Network Capture Engine, and
// Diagnostic Channel Bridge together for one navigation host. One
// Controller serves one session at a time; Start is idempotent while
// already capturing, matching spec §4.6.
type Controller struct {
	mu sync.Mutex

	cfg     types.Configuration
	metrics *metrics.Metrics
	logger  logging.Logger

	inspector types.Sink

	capturing bool
	state     State

	recorder    *recorder.Recorder
	engine      *capture.Capture
	bridge      *bridge.Bridge
	engineStop  host.Disposer
	bridgeStop  host.Disposer

	broadcaster *broadcaster
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithMetrics attaches a metrics bundle; if omitted, a no-op bundle is used.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger attaches a structured logger; if omitted, logging is a no-op.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithInspector sets the sink every engine and bridge event is additionally
// forwarded to, alongside the recorder (spec §4.6 "forwards every event to
// the caller's inspector-broadcast function"). If omitted, events still
// reach the recorder but nowhere else.
func WithInspector(sink types.Sink) Option {
	return func(c *Controller) { c.inspector = sink }
}

// New constructs a Controller for the given Configuration. The
// Configuration is applied once per session, at Start.
func New(cfg types.Configuration, opts ...Option) *Controller {
	c := &Controller{
		cfg:         cfg.Defaults(),
		metrics:     metrics.Noop(),
		logger:      logging.NewNop(),
		broadcaster: newBroadcaster(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetState returns the controller's current state.
func (c *Controller) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins a capture session against h. If already capturing, it is a
// no-op that returns the current state (spec §4.6 "if already capturing,
// return current state"). Otherwise it constructs a Capture Session, attaches
// the Network Capture Engine with a sink fanning out to the recorder and the
// configured inspector, attaches the Diagnostic Channel Bridge when
// EnableCDP is set, marks the session capturing, and broadcasts the new
// state to every subscriber.
func (c *Controller) Start(h host.NavigationHost) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing {
		return c.state, nil
	}
	if h == nil {
		return c.state, errors.New("session: navigation host is required")
	}

	rec, err := recorder.New(c.cfg, recorder.WithMetrics(c.metrics), recorder.WithLogger(c.logger))
	if err != nil {
		return c.state, err
	}

	sink := c.fanOutSink(rec)
	engine := capture.New(c.cfg.RedactSecrets,
		capture.WithSink(sink),
		capture.WithPersister(rec),
		capture.WithMetrics(c.metrics),
		capture.WithLogger(c.logger),
	)
	engineStop, err := engine.Attach(h)
	if err != nil {
		_ = rec.Stop()
		return c.state, err
	}

	var br *bridge.Bridge
	var bridgeStop host.Disposer
	if c.cfg.EnableCDP {
		br = bridge.New(bridge.WithSink(sink), bridge.WithMetrics(c.metrics), bridge.WithLogger(c.logger))
		bridgeStop, err = br.Attach(h)
		if err != nil {
			engineStop()
			_ = rec.Stop()
			return c.state, err
		}
	}

	c.recorder = rec
	c.engine = engine
	c.bridge = br
	c.engineStop = engineStop
	c.bridgeStop = bridgeStop
	c.capturing = true
	c.state = State{Capturing: true, SessionID: rec.SessionID(), StartedAt: time.Now()}

	c.logger.Debug("session started", logging.String("session_id", c.state.SessionID))
	c.broadcaster.publish(c.state)
	return c.state, nil
}

// StopResult is the outcome of a Stop call.
type StopResult struct {
	OK     bool
	Reason string
	State  State
}

// Stop ends the active capture session. If no session is running, it
// returns {ok:false, reason:"not-running"} without side effects (spec
// §4.6). Otherwise it detaches the bridge, detaches the engine, stops the
// Capture Session (flushing the HAR archive and closing NDJSON streams),
// clears all references, and broadcasts the idle state.
func (c *Controller) Stop() StopResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing {
		return StopResult{OK: false, Reason: "not-running", State: c.state}
	}

	if c.bridgeStop != nil {
		c.bridgeStop()
	}
	if c.engineStop != nil {
		c.engineStop()
	}
	var stopErr error
	if c.recorder != nil {
		stopErr = c.recorder.Stop()
	}

	c.recorder = nil
	c.engine = nil
	c.bridge = nil
	c.engineStop = nil
	c.bridgeStop = nil
	c.capturing = false
	c.state = State{Capturing: false}

	if stopErr != nil {
		c.logger.Warn("recorder stop reported an error", logging.Error(stopErr))
	}
	c.logger.Debug("session stopped")
	c.broadcaster.publish(c.state)
	return StopResult{OK: true, State: c.state}
}

// fanOutSink builds the sink passed to the engine and bridge: every event
// is offered to the recorder (which archives the rest:request,
// rest:response, rest:txn and ws:open/msg/close/error cases and ignores
// ws:frame and cdp:initiator) and forwarded to the configured inspector,
// matching spec §4.6's "(a) forwards REST
// request/response events into the session recorder and (b) forwards every
// event to the caller's inspector-broadcast function".
func (c *Controller) fanOutSink(rec *recorder.Recorder) types.Sink {
	return func(ev types.Event) {
		forwardToRecorder(rec, ev)
		if c.inspector != nil {
			c.inspector(ev)
		}
	}
}
