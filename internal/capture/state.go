package capture

import (
	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/types"
)

type phase int

const (
	phaseOpen phase = iota
	phaseSent
	phaseHeaders
	phaseStreaming
)

// requestState is the per-id request context plus response accumulator
// (spec §3 "Lifecycles", §4.4 state machine). Born at pre-request (or
// synthesized on an out-of-order headers/completion callback), dropped at
// completed or error-occurred.
type requestState struct {
	phase phase
	req   types.CapturedRequest

	accum       []byte
	firstByteTs int64
	tap         host.BodyTap

	respHeadersRaw map[string]string
	status         int
	statusText     string
}

// preflightKey identifies a recorded pre-flight by the (host, path,
// Access-Control-Request-Method) triple spec §4.4 keys it on.
type preflightKey struct {
	host   string
	path   string
	method string
}
