// Purpose: Owns a capture session's on-disk artifacts.
// recorder.go — the Capture Session (spec §4.3). Owns a HAR archive for
// REST transactions, an append stream of WebSocket events, an optional
// append stream of aggregated transactions, and a directory of saved
// response bodies. Single-writer per file (SPEC_FULL §... design notes):
// the HAR archive is appended only from OnRESTResponse, the WS stream only
// from OnWSEvent, the transactions stream only from PushTxnNDJSON.
package recorder

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/brennhill/netcapture/internal/export"
	"github.com/brennhill/netcapture/internal/fsutil"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/metrics"
	"github.com/brennhill/netcapture/internal/redaction"
	"github.com/brennhill/netcapture/internal/types"
	"github.com/google/uuid"
)

// pendingRequest is what OnRESTRequest remembers until a matching response
// arrives. Only the most recent request per (method, url) key is kept;
// retries overwrite.
type pendingRequest struct {
	headers     map[string]string
	ts          int64
	body        string
	contentType string
}

// Recorder is a session's archive writer. Safe for concurrent use: every
// exported method that touches the HAR log, the pending maps or the streams
// takes the internal mutex, matching the single-writer guarantee each
// on-disk artifact needs. SaveBody, ShouldPersistBody and the path and ID
// getters use only fields fixed at construction and do not lock.
type Recorder struct {
	mu sync.Mutex

	sessionID string
	baseDir   string
	bodiesDir string
	harPath   string
	wsPath    string

	har      export.HARLog
	wsStream *os.File

	txnStream     *os.File
	txnStreamPath string

	pendingRequests    map[string]pendingRequest
	pendingDescriptors map[string]types.SavedBodyDescriptor

	cfg        types.Configuration
	bodyTypeRE *regexp.Regexp
	redactor   *redaction.Engine
	metrics    *metrics.Metrics
	logger     logging.Logger
}

// Option configures a Recorder at construction time.
type Option func(*Recorder)

// WithMetrics attaches a metrics bundle; if omitted, a no-op bundle is used.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithLogger attaches a structured logger; if omitted, logging is a no-op.
func WithLogger(l logging.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithBodyTypePattern overrides the compiled content-type filter used by
// ShouldPersistBody; if omitted, it is derived from cfg.CaptureBodyTypes.
func WithBodyTypePattern(re *regexp.Regexp) Option {
	return func(r *Recorder) { r.bodyTypeRE = re }
}

// New constructs a Capture Session: a timestamped base directory under
// cfg.OutputFolder, a bodies-<timestamp>/ subdirectory, a HAR path
// rest-<timestamp>.har, and an open append stream for
// ws-<timestamp>.wslog.ndjson. The HAR starts with one page entry.
func New(cfg types.Configuration, opts ...Option) (*Recorder, error) {
	cfg = cfg.Defaults()
	ts := fsutil.Timestamp()
	baseDir := cfg.OutputFolder
	if err := fsutil.EnsureDirectory(baseDir); err != nil {
		return nil, err
	}

	bodiesDir := filepath.Join(baseDir, "bodies-"+ts)
	harPath := filepath.Join(baseDir, "rest-"+ts+".har")
	wsPath := filepath.Join(baseDir, "ws-"+ts+".wslog.ndjson")

	wsStream, err := fsutil.OpenAppendStream(wsPath)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		sessionID:          uuid.NewString(),
		baseDir:            baseDir,
		bodiesDir:          bodiesDir,
		harPath:            harPath,
		wsPath:             wsPath,
		har:                export.NewHARLog("1.0.0", "netcapture session "+ts, nowRFC3339()),
		wsStream:           wsStream,
		pendingRequests:    make(map[string]pendingRequest),
		pendingDescriptors: make(map[string]types.SavedBodyDescriptor),
		cfg:                cfg,
		redactor:           redaction.New(cfg.RedactSecrets),
		metrics:            metrics.Noop(),
		logger:             logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bodyTypeRE == nil {
		if cfg.CaptureBodyTypes == "" {
			r.bodyTypeRE = regexp.MustCompile(`$^`)
		} else if re, err := regexp.Compile(cfg.CaptureBodyTypes); err == nil {
			r.bodyTypeRE = re
		} else {
			r.bodyTypeRE = regexp.MustCompile(`$^`)
		}
	}
	return r, nil
}

func requestKey(method, url string) string {
	return method + " " + url
}

// ShouldPersistBody implements the body persistence gate of spec §4.3: a
// body qualifies only if persistence is enabled, size is positive, size is
// within the configured maximum, and content-type matches the configured
// pattern. The caller (Network Capture Engine) additionally requires a
// non-nil persistence callback to have been supplied — this recorder method
// only evaluates the gate conditions it owns.
func (r *Recorder) ShouldPersistBody(size int, contentType string) bool {
	if !r.cfg.CaptureBodies {
		return false
	}
	if size <= 0 {
		return false
	}
	if r.cfg.CaptureBodyMaxBytes > 0 && int64(size) > r.cfg.CaptureBodyMaxBytes {
		return false
	}
	return r.bodyTypeRE.MatchString(contentType)
}
