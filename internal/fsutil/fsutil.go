// Purpose: Owns filesystem helpers shared by the recorder and session controller.
// fsutil.go — directory creation, timestamped filenames, append streams, and
// JSON-line writing. No state; these operations must never raise to callers
// (spec §4.1): failures return a zero value/false or a sentinel line.
package fsutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnsureDirectory idempotently creates path, including parents.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Timestamp renders the current wall clock in a filesystem-safe form, used to
// build archive and directory names (rest-<timestamp>.har, bodies-<timestamp>/).
func Timestamp() string {
	return time.Now().UTC().Format("20060102T150405.000Z")
}

// OpenAppendStream creates path's parent directories and opens path for
// append, creating it if necessary. The caller owns the returned file and
// must close it.
func OpenAppendStream(path string) (*os.File, error) {
	if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("ensure parent dir: %w", err)
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// unserializableLine is the sentinel line written in place of a value that
// failed to marshal, so a single bad event never breaks the NDJSON stream.
var unserializableLine = []byte(`{"_error":"unserializable"}` + "\n")

// WriteJSONLine serializes value to JSON and appends a newline to w. On
// serialization failure it writes the unserializable sentinel instead of
// propagating the error; an IO error on the write itself is still returned
// so callers can log it.
func WriteJSONLine(w *os.File, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		_, writeErr := w.Write(unserializableLine)
		return writeErr
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SanitizeFilename restricts s to [A-Za-z0-9._-], truncating to maxLen
// characters. Used to derive bodies-<timestamp>/<epoch>_<sanitized-id>.bin
// names from arbitrary caller-supplied id hints.
func SanitizeFilename(s string, maxLen int) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			out = append(out, c)
		}
	}
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	if len(out) == 0 {
		return "body"
	}
	return string(out)
}
