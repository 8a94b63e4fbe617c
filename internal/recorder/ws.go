// ws.go — WebSocket NDJSON stream and optional aggregated-transaction stream.
package recorder

import (
	"github.com/brennhill/netcapture/internal/fsutil"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/types"
)

// OnWSEvent appends a JSON line {type, ...event} to the WebSocket NDJSON
// stream. Errors are swallowed and logged, never propagated (spec §4.3).
func (r *Recorder) OnWSEvent(event types.WSEventPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fsutil.WriteJSONLine(r.wsStream, event); err != nil {
		r.metrics.PersistFailures.Inc()
		r.logger.Warn("ws event write failed", logging.Error(err))
	}
}

// StartNDJSON opens an append stream for aggregated transactions. If one is
// already open it is replaced (the previous file is closed first).
func (r *Recorder) StartNDJSON(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.txnStream != nil {
		_ = r.txnStream.Close()
	}
	f, err := fsutil.OpenAppendStream(path)
	if err != nil {
		return err
	}
	r.txnStream = f
	r.txnStreamPath = path
	return nil
}

// PushTxnNDJSON appends one transaction as a JSON line. If no stream is
// open, this is a silent no-op.
func (r *Recorder) PushTxnNDJSON(txn *types.CapturedTransaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.txnStream == nil {
		return
	}
	if err := fsutil.WriteJSONLine(r.txnStream, txn); err != nil {
		r.metrics.PersistFailures.Inc()
		r.logger.Warn("transaction ndjson write failed", logging.Error(err))
	}
}

// StopNDJSON closes the aggregated-transactions stream, if one is open.
func (r *Recorder) StopNDJSON() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.txnStream == nil {
		return nil
	}
	err := r.txnStream.Close()
	r.txnStream = nil
	return err
}
