// Purpose: Defines the contract the Network Capture Engine expects from the
// embedded browsing surface it instruments.
// host.go — the navigation host boundary (spec §1, §6). The host is an
// external collaborator: it is never implemented in this module, only
// consumed through this interface. Production wiring (the actual embedded
// browser) lives outside this repo's scope; internal/host/fakehost provides
// a deterministic double for exercising the capture engine's own tests.
package host

// Disposer removes whatever it was returned from registering. Idempotent:
// invoking it more than once must be safe and a no-op after the first call.
type Disposer func()

// PreRequestEvent is delivered when the host is about to issue a request.
// Body is whatever upload bytes are synchronously available; it may be nil.
type PreRequestEvent struct {
	ID     string
	Method string
	URL    string
	Ts     int64
	Body   []byte
}

// PreSendHeadersEvent is delivered once outgoing headers are finalized, just
// before the host writes them to the wire.
type PreSendHeadersEvent struct {
	ID      string
	Headers map[string]string
	Ts      int64
}

// BodyTap is the response-body streaming interposition point (spec §4.4).
// A host that supports it hands one to the engine via HeadersReceivedEvent.Tap;
// the engine registers OnData/OnEnd/OnError and must treat bytes observed as
// bytes forwarded — it never withholds or mutates what passes through.
type BodyTap interface {
	OnData(fn func(chunk []byte))
	OnEnd(fn func())
	OnError(fn func(err error))
}

// HeadersReceivedEvent is delivered when response headers arrive. Tap is nil
// if the host does not expose a streaming interceptor for this response.
type HeadersReceivedEvent struct {
	ID         string
	Status     int
	StatusText string
	Headers    map[string]string
	Ts         int64
	Tap        BodyTap
}

// CompletedEvent is delivered when a request/response exchange terminates
// successfully. ContentEncoding and SetCookies come straight from the
// response headers the host observed, unfiltered.
type CompletedEvent struct {
	ID              string
	EndTs           int64
	ContentEncoding string
	SetCookies      []string
}

// ErrorEvent is delivered when a request/response exchange terminates with a
// transport-level failure. Whatever fields the host could populate before
// failing are carried; any may be zero.
type ErrorEvent struct {
	ID      string
	EndTs   int64
	Message string
}

// NavigationHost is the opaque embedded browsing surface (spec §1). It emits
// network-lifecycle callbacks in a fixed order per request id: pre-request,
// pre-send-headers, headers-received, then exactly one of completed or
// error-occurred. Registration methods return a Disposer; invoking it
// unregisters that single callback.
type NavigationHost interface {
	OnPreRequest(fn func(PreRequestEvent)) Disposer
	OnPreSendHeaders(fn func(PreSendHeadersEvent)) Disposer
	OnHeadersReceived(fn func(HeadersReceivedEvent)) Disposer
	OnCompleted(fn func(CompletedEvent)) Disposer
	OnErrorOccurred(fn func(ErrorEvent)) Disposer

	// DiagnosticChannel returns the host's debugger-style channel and true if
	// one is available. A host with no diagnostic channel, or one already
	// claimed by another consumer, returns (nil, false); the bridge degrades
	// to a no-op rather than treating this as an error (spec §4.5).
	DiagnosticChannel() (DiagnosticChannel, bool)
}

// RedirectHop is one step of a redirect chain observed by the diagnostic
// channel.
type RedirectHop struct {
	From   string
	To     string
	Status int
}

// Initiator describes what triggered a request, when the diagnostic channel
// can determine it.
type Initiator struct {
	Type string
	URL  string
}

// RequestWillBeSentMessage mirrors the diagnostic channel's
// request-will-be-sent notification (spec §4.5).
type RequestWillBeSentMessage struct {
	RequestID      string
	URL            string
	HasRedirect    bool
	RedirectFrom   string
	RedirectStatus int
	Initiator      *Initiator
}

// WebSocketCreatedMessage mirrors webSocket-created.
type WebSocketCreatedMessage struct {
	RequestID string
	URL       string
}

// WebSocketFrameMessage mirrors webSocket-frame-sent/-received.
type WebSocketFrameMessage struct {
	RequestID string
	Sent      bool // true = frame-sent, false = frame-received
	Ts        int64
	OpCode    *int
	Data      string
}

// DiagnosticMessage is a tagged union of the four message kinds the
// diagnostic channel delivers. Exactly one of the pointer fields is non-nil.
type DiagnosticMessage struct {
	RequestWillBeSent *RequestWillBeSentMessage
	WebSocketCreated  *WebSocketCreatedMessage
	WebSocketFrame    *WebSocketFrameMessage
}

// DiagnosticChannel is the host's optional debugger-style channel (spec
// §4.5). Subscribe registers a handler for every message kind; the bridge
// filters by which pointer field is populated.
type DiagnosticChannel interface {
	Subscribe(fn func(DiagnosticMessage)) Disposer
}
