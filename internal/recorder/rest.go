// rest.go — REST request/response pairing and HAR entry emission.
package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brennhill/netcapture/internal/export"
	"github.com/brennhill/netcapture/internal/fsutil"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/types"
)

// OnRESTRequest remembers a request by (method, url) for later pairing with
// its response. Only the most recent request per key is kept — retries
// overwrite. Pure memory operation; it never fails.
func (r *Recorder) OnRESTRequest(method, url string, headers map[string]string, ts int64, bodyPreview string, contentType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingRequests[requestKey(method, url)] = pendingRequest{
		headers:     headers,
		ts:          ts,
		body:        bodyPreview,
		contentType: contentType,
	}
}

// SaveBody writes data to bodies-<ts>/<now>_<sanitized-id>.bin and returns a
// descriptor for it. IO errors propagate to the caller, who must not attach
// a descriptor on failure.
func (r *Recorder) SaveBody(idHint string, data []byte, contentType string) (types.SavedBodyDescriptor, error) {
	if err := fsutil.EnsureDirectory(r.bodiesDir); err != nil {
		r.metrics.PersistFailures.Inc()
		return types.SavedBodyDescriptor{}, fmt.Errorf("ensure bodies dir: %w", err)
	}
	name := fmt.Sprintf("%d_%s.bin", time.Now().UnixNano(), fsutil.SanitizeFilename(idHint, 64))
	path := r.bodiesDir + string(os.PathSeparator) + name
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.metrics.PersistFailures.Inc()
		return types.SavedBodyDescriptor{}, fmt.Errorf("write body: %w", err)
	}
	return types.SavedBodyDescriptor{Path: path, Size: len(data), ContentType: contentType}, nil
}

// NoteResponseBody records descriptor to be attached when the next matching
// OnRESTResponse fires for (method, url).
func (r *Recorder) NoteResponseBody(method, url string, descriptor types.SavedBodyDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDescriptors[requestKey(method, url)] = descriptor
}

// RESTResponseInput is what the engine supplies when a response completes.
type RESTResponseInput struct {
	Method      string
	URL         string
	Status      int
	StatusText  string
	Headers     map[string]string
	BodySize    int
	BodyPreview string
	StartTs     int64
	EndTs       int64
	HTTPVersion string
}

// OnRESTResponse locates the matched request and builds a HAR entry:
// headers mapped to name/value pairs, the request body redacted if
// enabled, content._file set if a descriptor is present, and _redacted set
// when redaction is enabled. Appends the entry to the HAR log and removes
// both the request and the descriptor from their maps. If the matching
// request is absent, the entry is still emitted with startedDateTime
// derived from resp.EndTs and the timing.
func (r *Recorder) OnRESTResponse(resp RESTResponseInput) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := requestKey(resp.Method, resp.URL)
	req, hasReq := r.pendingRequests[key]
	descriptor, hasDescriptor := r.pendingDescriptors[key]

	timeMs := int(resp.EndTs - resp.StartTs)
	if timeMs < 0 {
		timeMs = 0
	}

	var startedDateTime string
	var reqHeaders map[string]string
	var reqBody, reqContentType string
	if hasReq {
		startedDateTime = msToRFC3339(req.ts)
		reqHeaders = req.headers
		reqContentType = req.contentType
		reqBody = r.redactor.RedactBody(req.body, req.contentType)
	} else {
		startedDateTime = msToRFC3339(resp.EndTs - int64(timeMs))
	}

	statusText := resp.StatusText
	if statusText == "" {
		statusText = export.HTTPStatusText(resp.Status)
	}

	var descPtr *types.SavedBodyDescriptor
	if hasDescriptor {
		d := descriptor
		if rel, err := filepath.Rel(r.baseDir, d.Path); err == nil {
			d.Path = filepath.ToSlash(rel)
		}
		descPtr = &d
	}

	entry := export.TransactionToHAREntry(export.HAREntryInput{
		Method:          resp.Method,
		URL:             resp.URL,
		StartedDateTime: startedDateTime,
		TimeMs:          timeMs,
		HTTPVersion:     resp.HTTPVersion,
		ReqHeaders:      reqHeaders,
		ReqBody:         reqBody,
		ReqContentType:  reqContentType,
		Status:          resp.Status,
		StatusText:      statusText,
		RespHeaders:     resp.Headers,
		BodySize:        resp.BodySize,
		BodyText:        resp.BodyPreview,
		Descriptor:      descPtr,
		Redacted:        r.redactor.Enabled(),
	})

	r.har.Log.Entries = append(r.har.Log.Entries, entry)
	r.metrics.ArchiveWrites.Inc()

	delete(r.pendingRequests, key)
	delete(r.pendingDescriptors, key)
	r.logger.Debug("har entry appended", logging.String("url", resp.URL), logging.Int("status", resp.Status))
}

// HAREntryCount returns the number of entries currently buffered in the HAR
// log, used by tests to assert spec §8 property 10 (one entry per
// rest:response emission).
func (r *Recorder) HAREntryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.har.Log.Entries)
}
