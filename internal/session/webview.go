// webview.go — the from-webview inbound path (spec §4.6): event envelopes
// the navigation host's guest-side instrumentation emits directly, for
// cases none of the five lifecycle callbacks can observe (e.g. WebSocket
// payloads inside a sandboxed guest). Known-channel envelopes reach the
// recorder and the inspector; unknown channels reach the inspector only.
package session

import "github.com/brennhill/netcapture/internal/types"

// FromWebview accepts one event envelope from guest-side instrumentation.
// While no session is active nothing is persisted, since no recorder
// exists; the envelope still reaches the inspector, if one is configured.
func (c *Controller) FromWebview(ev types.Event) {
	c.mu.Lock()
	rec := c.recorder
	inspector := c.inspector
	c.mu.Unlock()

	if rec != nil && isKnownChannel(ev.Channel) {
		forwardToRecorder(rec, ev)
	}
	if inspector != nil {
		inspector(ev)
	}
}

func isKnownChannel(ch types.Channel) bool {
	switch ch {
	case types.ChannelRESTRequest, types.ChannelRESTBeforeSendHeaders, types.ChannelRESTResponse,
		types.ChannelRESTError, types.ChannelRESTTxn,
		types.ChannelWSOpen, types.ChannelWSMessage, types.ChannelWSClose, types.ChannelWSError,
		types.ChannelWSFrame, types.ChannelCDPInitiator:
		return true
	default:
		return false
	}
}
