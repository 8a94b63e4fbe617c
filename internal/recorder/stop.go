// stop.go — session finalization: serialize the HAR archive, close streams.
package recorder

import (
	"encoding/json"
	"os"
	"time"

	"github.com/brennhill/netcapture/internal/logging"
)

// Stop serializes the HAR object to disk as pretty-printed JSON and closes
// both the WebSocket and (if open) transactions streams. Each close/write
// is independently guarded: a failure in one does not prevent the others
// from being attempted, and Stop returns the first error encountered (if
// any) after attempting every step.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	recordErr := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	start := time.Now()
	data, err := json.MarshalIndent(r.har, "", "  ")
	if err != nil {
		recordErr(err)
		r.logger.Warn("har marshal failed", logging.Error(err))
	} else if err := os.WriteFile(r.harPath, data, 0o644); err != nil {
		recordErr(err)
		r.metrics.PersistFailures.Inc()
		r.logger.Warn("har write failed", logging.Error(err))
	} else {
		r.metrics.ArchiveWriteTime.Observe(time.Since(start).Seconds())
	}

	if err := r.wsStream.Close(); err != nil {
		recordErr(err)
		r.logger.Warn("ws stream close failed", logging.Error(err))
	}

	if r.txnStream != nil {
		if err := r.txnStream.Close(); err != nil {
			recordErr(err)
			r.logger.Warn("txn stream close failed", logging.Error(err))
		}
		r.txnStream = nil
	}

	return firstErr
}

// HARPath returns the path the HAR archive will be (or was) written to.
func (r *Recorder) HARPath() string { return r.harPath }

// WSPath returns the WebSocket NDJSON stream's path.
func (r *Recorder) WSPath() string { return r.wsPath }

// BodiesDir returns the directory saved response bodies are written under.
func (r *Recorder) BodiesDir() string { return r.bodiesDir }

// SessionID returns the recorder's synthetic session identifier.
func (r *Recorder) SessionID() string { return r.sessionID }
