// Purpose: Implements the HAR 1.2 archive shape and per-transaction entry
// builder used by the Capture Session recorder.
// Docs: docs/features/feature/har-export/index.md
//
// export_har.go — HAR 1.2 export from captured network transactions.
// Produces a HAR log consumable by browser DevTools, Charles Proxy, and
// other HAR consumers, with two custom extensions: response.content._file
// (a saved body's relative path) and response._redacted (set when secret
// redaction is enabled). See spec §3 "HAR Archive", §6 "on-disk artifacts".
//
// JSON CONVENTION: HAR 1.2 fields use camelCase per
// http://www.softwareishard.com/blog/har-12-spec/; our custom extensions
// follow that same casing to stay readable alongside the rest of the entry.
package export

import (
	"net/url"

	"github.com/brennhill/netcapture/internal/types"
)

// ============================================
// HAR 1.2 Types
// ============================================

// HARLog is the top-level HAR structure.
type HARLog struct {
	Log HARLogInner `json:"log"`
}

// HARLogInner contains the HAR version, creator, one page, and entries.
type HARLogInner struct {
	Version string     `json:"version"`
	Creator HARCreator `json:"creator"`
	Pages   []HARPage  `json:"pages"`
	Entries []HAREntry `json:"entries"`
}

// HARCreator identifies the tool that generated the HAR.
type HARCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HARPage is the single page entry every session's archive carries.
type HARPage struct {
	StartedDateTime string        `json:"startedDateTime"`
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	PageTimings     HARPageTiming `json:"pageTimings"`
}

// HARPageTiming is left empty; the source browsing surface does not expose
// onContentLoad/onLoad timing to this pipeline.
type HARPageTiming struct {
	OnContentLoad int `json:"onContentLoad"`
	OnLoad        int `json:"onLoad"`
}

// HAREntry represents a single HTTP request/response pair.
type HAREntry struct {
	Pageref         string      `json:"pageref,omitempty"`
	StartedDateTime string      `json:"startedDateTime"`
	Time            int         `json:"time"`
	Request         HARRequest  `json:"request"`
	Response        HARResponse `json:"response"`
	Timings         HARTimings  `json:"timings"`
	Comment         string      `json:"comment,omitempty"`
}

// HARRequest represents an HTTP request.
type HARRequest struct {
	Method      string         `json:"method"`
	URL         string         `json:"url"`
	HTTPVersion string         `json:"httpVersion"`
	Headers     []HARNameValue `json:"headers"`
	QueryString []HARNameValue `json:"queryString"`
	PostData    *HARPostData   `json:"postData,omitempty"`
	HeadersSize int            `json:"headersSize"`
	BodySize    int            `json:"bodySize"`
}

// HARResponse represents an HTTP response.
type HARResponse struct {
	Status      int            `json:"status"`
	StatusText  string         `json:"statusText"`
	HTTPVersion string         `json:"httpVersion"`
	Headers     []HARNameValue `json:"headers"`
	Content     HARContent     `json:"content"`
	HeadersSize int            `json:"headersSize"`
	BodySize    int            `json:"bodySize"`
	Redacted    bool           `json:"_redacted,omitempty"`
}

// HARContent represents response body content. File is the custom
// extension referencing a saved body relative to the archive base.
type HARContent struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	File     string `json:"_file,omitempty"`
}

// HARTimings contains timing breakdown for the request. A missing phase is
// emitted as zero, never null (spec §6).
type HARTimings struct {
	Send    int `json:"send"`
	Wait    int `json:"wait"`
	Receive int `json:"receive"`
}

// HARNameValue is a generic name/value pair for headers and query params.
type HARNameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARPostData represents request body data.
type HARPostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// defaultHTTPVersion is used when the host does not report a protocol
// version. See SPEC_FULL.md §9 design notes: this is a documented
// limitation, not a detected value.
const defaultHTTPVersion = "HTTP/2.0"

// NewHARLog returns an empty HAR 1.2 log with one page, matching the single
// Capture Session a recorder owns.
func NewHARLog(creatorVersion string, pageTitle string, startedAt string) HARLog {
	return HARLog{
		Log: HARLogInner{
			Version: "1.2",
			Creator: HARCreator{Name: "netcapture", Version: creatorVersion},
			Pages: []HARPage{{
				StartedDateTime: startedAt,
				ID:              "page_1",
				Title:           pageTitle,
			}},
			Entries: make([]HAREntry, 0),
		},
	}
}

// HAREntryInput is the recorder's view of a completed (or request-only)
// REST exchange, enough to build one HAR entry.
type HAREntryInput struct {
	Method          string
	URL             string
	StartedDateTime string
	TimeMs          int
	HTTPVersion     string // falls back to defaultHTTPVersion when empty

	ReqHeaders     map[string]string
	ReqBody        string
	ReqContentType string

	Status      int
	StatusText  string
	RespHeaders map[string]string
	BodySize    int
	BodyText    string

	Descriptor *types.SavedBodyDescriptor
	Redacted   bool
}

// TransactionToHAREntry converts a completed transaction to a HAR entry.
// in.Descriptor and in.Redacted reflect the recorder's body-persistence and
// redaction decisions for this entry.
func TransactionToHAREntry(in HAREntryInput) HAREntry {
	httpVersion := in.HTTPVersion
	if httpVersion == "" {
		httpVersion = defaultHTTPVersion
	}

	req := HARRequest{
		Method:      in.Method,
		URL:         in.URL,
		HTTPVersion: httpVersion,
		Headers:     headerMapToNameValue(in.ReqHeaders),
		QueryString: parseQueryString(in.URL),
		HeadersSize: -1,
		BodySize:    len(in.ReqBody),
	}
	if in.ReqBody != "" {
		req.PostData = &HARPostData{MimeType: in.ReqContentType, Text: in.ReqBody}
	}

	content := HARContent{
		Size:     in.BodySize,
		MimeType: in.RespHeaders["content-type"],
		Text:     in.BodyText,
	}
	if in.Descriptor != nil {
		content.File = in.Descriptor.Path
		content.Size = in.Descriptor.Size
	}

	resp := HARResponse{
		Status:      in.Status,
		StatusText:  in.StatusText,
		HTTPVersion: httpVersion,
		Headers:     headerMapToNameValue(in.RespHeaders),
		Content:     content,
		HeadersSize: -1,
		BodySize:    in.BodySize,
		Redacted:    in.Redacted,
	}

	return HAREntry{
		Pageref:         "page_1",
		StartedDateTime: in.StartedDateTime,
		Time:            in.TimeMs,
		Request:         req,
		Response:        resp,
		Timings: HARTimings{
			Send:    0,
			Wait:    in.TimeMs,
			Receive: 0,
		},
	}
}

func headerMapToNameValue(headers map[string]string) []HARNameValue {
	out := make([]HARNameValue, 0, len(headers))
	for name, value := range headers {
		out = append(out, HARNameValue{Name: name, Value: value})
	}
	return out
}

func parseQueryString(rawURL string) []HARNameValue {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return make([]HARNameValue, 0)
	}
	params := parsed.Query()
	out := make([]HARNameValue, 0, len(params))
	for name, values := range params {
		for _, v := range values {
			out = append(out, HARNameValue{Name: name, Value: v})
		}
	}
	return out
}

// httpStatusText returns the standard reason phrase for a status code, or
// the empty string if it is not one of the common codes this pipeline sees.
func httpStatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	default:
		return ""
	}
}

// HTTPStatusText is the exported form, used by the recorder when the host
// did not supply a status text of its own.
func HTTPStatusText(code int) string {
	return httpStatusText(code)
}
