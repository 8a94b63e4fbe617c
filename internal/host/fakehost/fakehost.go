// Purpose: Deterministic NavigationHost double for driving the capture
// engine's test suite without a real embedded browser.
// fakehost.go — fires host.NavigationHost callbacks on demand from test
// code, in whatever order the test wants (including out-of-order, to
// exercise the engine's synthetic-context fallback).
package fakehost

import "github.com/brennhill/netcapture/internal/host"

// Host is a test double implementing host.NavigationHost. Every registration
// method appends to a slice of handlers; Fire* methods invoke all currently
// registered handlers for that callback. Not safe for concurrent use from
// multiple goroutines — tests drive it from one.
type Host struct {
	preRequest      []func(host.PreRequestEvent)
	preSendHeaders  []func(host.PreSendHeadersEvent)
	headersReceived []func(host.HeadersReceivedEvent)
	completed       []func(host.CompletedEvent)
	errorOccurred   []func(host.ErrorEvent)

	diagnostic      *DiagnosticChannel
	diagnosticTaken bool
}

// New returns a Host with no diagnostic channel attached. Call
// WithDiagnosticChannel to give it one before passing to the bridge.
func New() *Host {
	return &Host{}
}

// WithDiagnosticChannel attaches a diagnostic channel double, returning the
// same Host for chaining.
func (h *Host) WithDiagnosticChannel() *Host {
	h.diagnostic = newDiagnosticChannel()
	return h
}

func (h *Host) OnPreRequest(fn func(host.PreRequestEvent)) host.Disposer {
	h.preRequest = append(h.preRequest, fn)
	idx := len(h.preRequest) - 1
	return func() {
		if idx < len(h.preRequest) {
			h.preRequest[idx] = nil
		}
	}
}

func (h *Host) OnPreSendHeaders(fn func(host.PreSendHeadersEvent)) host.Disposer {
	h.preSendHeaders = append(h.preSendHeaders, fn)
	idx := len(h.preSendHeaders) - 1
	return func() {
		if idx < len(h.preSendHeaders) {
			h.preSendHeaders[idx] = nil
		}
	}
}

func (h *Host) OnHeadersReceived(fn func(host.HeadersReceivedEvent)) host.Disposer {
	h.headersReceived = append(h.headersReceived, fn)
	idx := len(h.headersReceived) - 1
	return func() {
		if idx < len(h.headersReceived) {
			h.headersReceived[idx] = nil
		}
	}
}

func (h *Host) OnCompleted(fn func(host.CompletedEvent)) host.Disposer {
	h.completed = append(h.completed, fn)
	idx := len(h.completed) - 1
	return func() {
		if idx < len(h.completed) {
			h.completed[idx] = nil
		}
	}
}

func (h *Host) OnErrorOccurred(fn func(host.ErrorEvent)) host.Disposer {
	h.errorOccurred = append(h.errorOccurred, fn)
	idx := len(h.errorOccurred) - 1
	return func() {
		if idx < len(h.errorOccurred) {
			h.errorOccurred[idx] = nil
		}
	}
}

// DiagnosticChannel returns the attached channel double, or (nil, false) if
// WithDiagnosticChannel was never called, or if it has already been claimed
// by a prior caller (mirrors the real host's "already attached" degrade
// path, spec §4.5).
func (h *Host) DiagnosticChannel() (host.DiagnosticChannel, bool) {
	if h.diagnostic == nil || h.diagnosticTaken {
		return nil, false
	}
	h.diagnosticTaken = true
	return h.diagnostic, true
}

// FirePreRequest invokes every registered pre-request handler.
func (h *Host) FirePreRequest(ev host.PreRequestEvent) {
	for _, fn := range h.preRequest {
		if fn != nil {
			fn(ev)
		}
	}
}

// FirePreSendHeaders invokes every registered pre-send-headers handler.
func (h *Host) FirePreSendHeaders(ev host.PreSendHeadersEvent) {
	for _, fn := range h.preSendHeaders {
		if fn != nil {
			fn(ev)
		}
	}
}

// FireHeadersReceived invokes every registered headers-received handler.
func (h *Host) FireHeadersReceived(ev host.HeadersReceivedEvent) {
	for _, fn := range h.headersReceived {
		if fn != nil {
			fn(ev)
		}
	}
}

// FireCompleted invokes every registered completed handler.
func (h *Host) FireCompleted(ev host.CompletedEvent) {
	for _, fn := range h.completed {
		if fn != nil {
			fn(ev)
		}
	}
}

// FireErrorOccurred invokes every registered error-occurred handler.
func (h *Host) FireErrorOccurred(ev host.ErrorEvent) {
	for _, fn := range h.errorOccurred {
		if fn != nil {
			fn(ev)
		}
	}
}

// Diagnostic returns the attached diagnostic channel double directly, for
// tests that want to push messages without going through the engine's
// DiagnosticChannel() accessor (e.g. to simulate a second attacher winning
// the race).
func (h *Host) Diagnostic() *DiagnosticChannel { return h.diagnostic }
