package fakehost

import "github.com/brennhill/netcapture/internal/host"

// DiagnosticChannel is a test double for host.DiagnosticChannel: it records
// subscribers and lets a test push messages to all of them synchronously.
type DiagnosticChannel struct {
	subscribers []func(host.DiagnosticMessage)
}

func newDiagnosticChannel() *DiagnosticChannel {
	return &DiagnosticChannel{}
}

// Subscribe registers fn and returns a Disposer that clears it.
func (d *DiagnosticChannel) Subscribe(fn func(host.DiagnosticMessage)) host.Disposer {
	d.subscribers = append(d.subscribers, fn)
	idx := len(d.subscribers) - 1
	return func() {
		if idx < len(d.subscribers) {
			d.subscribers[idx] = nil
		}
	}
}

// Push delivers msg to every currently registered subscriber.
func (d *DiagnosticChannel) Push(msg host.DiagnosticMessage) {
	for _, fn := range d.subscribers {
		if fn != nil {
			fn(msg)
		}
	}
}
