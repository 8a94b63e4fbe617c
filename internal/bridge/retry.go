// retry.go — polling helper for a diagnostic channel that isn't available
// yet at attach time. Generalizes the teacher's WaitForServer health-check
// loop from "poll an HTTP daemon until it answers" to "poll a navigation
// host until it exposes a diagnostic channel", for a Session Controller that
// attaches the bridge before the host has finished initializing.
package bridge

import (
	"time"

	"github.com/brennhill/netcapture/internal/host"
)

const pollInterval = 100 * time.Millisecond

// WaitForDiagnosticChannel polls h.DiagnosticChannel() until it succeeds or
// timeout elapses. Returns (nil, false) on timeout.
func WaitForDiagnosticChannel(h host.NavigationHost, timeout time.Duration) (host.DiagnosticChannel, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if ch, ok := h.DiagnosticChannel(); ok {
			return ch, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(pollInterval)
	}
}
