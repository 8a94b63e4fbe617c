// events.go — the event sum type emitted by the capture engine and bridge.
// Reimplemented from the source's stringly-typed channel dispatch as a tagged
// union: the channel name is a rendering concern at the IPC boundary, not a
// core type (DESIGN NOTES, "pattern-matched payloads over stringly-typed
// channels").
package types

// Channel names the five REST channels, the four guest WebSocket channels
// (ws:open/msg/close/error), and the two diagnostic-bridge channels.
type Channel string

const (
	ChannelRESTRequest           Channel = "rest:request"
	ChannelRESTBeforeSendHeaders Channel = "rest:before-send-headers"
	ChannelRESTResponse          Channel = "rest:response"
	ChannelRESTError             Channel = "rest:error"
	ChannelRESTTxn               Channel = "rest:txn"
	ChannelWSOpen                Channel = "ws:open"
	ChannelWSMessage             Channel = "ws:msg"
	ChannelWSClose               Channel = "ws:close"
	ChannelWSError               Channel = "ws:error"
	ChannelWSFrame               Channel = "ws:frame"
	ChannelCDPInitiator          Channel = "cdp:initiator"
)

// Event is a single emission on the engine's event sink. Payload holds the
// typed struct for Channel; callers type-switch on it rather than parsing a
// string-keyed map.
type Event struct {
	Channel Channel
	Payload any
}

// RESTRequestPayload backs rest:request and rest:before-send-headers.
type RESTRequestPayload struct {
	Ts         int64             `json:"ts"`
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	ReqHeaders map[string]string `json:"req_headers,omitempty"`
	ReqBody    string            `json:"req_body,omitempty"`
}

// RESTResponsePayload backs rest:response.
type RESTResponsePayload struct {
	Ts         int64             `json:"ts"`
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Status     int               `json:"status"`
	StatusText string            `json:"status_text"`
	ResHeaders map[string]string `json:"res_headers,omitempty"`
	BodySize   int               `json:"body_size"`
	TimingMs   int64             `json:"timing_ms"`
}

// RESTErrorPayload backs rest:error.
type RESTErrorPayload struct {
	Ts         int64             `json:"ts"`
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	ReqHeaders map[string]string `json:"req_headers,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// WSEventPayload backs ws:open|msg|close|error.
type WSEventPayload struct {
	Type   string `json:"type"`
	Ts     int64  `json:"ts"`
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
	Data   string `json:"data,omitempty"`
	Size   int    `json:"size,omitempty"`
	Code   int    `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// WSFramePayload backs ws:frame, emitted by the diagnostic bridge from raw
// CDP-style frame notifications the primary lifecycle callbacks cannot see.
type WSFramePayload struct {
	Ts        int64  `json:"ts"`
	Direction string `json:"direction"` // "in" | "out"
	URL       string `json:"url,omitempty"`
	OpCode    *int   `json:"op_code,omitempty"`
	Data      string `json:"data,omitempty"`
}

// RedirectHop is one entry in a CDP-style redirect chain.
type RedirectHop struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status int    `json:"status"`
}

// Initiator describes what triggered a request, when the diagnostic bridge
// can recover it.
type Initiator struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// CDPInitiatorPayload backs cdp:initiator.
type CDPInitiatorPayload struct {
	RequestID     string        `json:"request_id"`
	URL           string        `json:"url"`
	RedirectChain []RedirectHop `json:"redirect_chain,omitempty"`
	Initiator     *Initiator    `json:"initiator,omitempty"`
}

// Sink is the single function every engine and bridge event flows through.
// Implementations must never let a panic escape to the emitting callback;
// see internal/util.SafeCall.
type Sink func(Event)
