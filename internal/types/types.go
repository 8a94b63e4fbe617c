// Purpose: Owns the domain types shared across the capture pipeline.
// types.go — core data model for captured network transactions.
// Zero dependencies beyond stdlib - foundational types used by every other package.
package types

// Timing is the three-point timing triple carried by every captured exchange.
// StartTs is always populated on request creation. FirstByteTs is set when the
// first response byte arrives. EndTs is set on terminal completion or error.
type Timing struct {
	StartTs     int64  `json:"start_ts"`
	FirstByteTs *int64 `json:"first_byte_ts,omitempty"`
	EndTs       *int64 `json:"end_ts,omitempty"`
}

// CORSInfo describes a request's cross-origin pre-flight state.
type CORSInfo struct {
	Preflight bool   `json:"preflight"`
	Origin    string `json:"origin,omitempty"`
}

// CORSAllow describes a response's cross-origin grant.
type CORSAllow struct {
	Origin      string   `json:"origin,omitempty"`
	Methods     []string `json:"methods,omitempty"`
	Headers     []string `json:"headers,omitempty"`
	Credentials bool     `json:"credentials,omitempty"`
}

// JWTInfo is the redacted, decoded form of a bearer token found on a request
// or response. Token carries the first two segments verbatim and a redacted
// (or, if redaction is disabled, raw) third segment.
type JWTInfo struct {
	Token   string         `json:"token"`
	Header  map[string]any `json:"header,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Cookie is one parsed Set-Cookie line.
type Cookie struct {
	Name  string         `json:"name"`
	Value string         `json:"value"`
	Flags map[string]any `json:"flags,omitempty"`
}

// CapturedRequest is the normalized view of a request observed by the engine.
type CapturedRequest struct {
	ID           string            `json:"id"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Host         string            `json:"host"`
	Path         string            `json:"path"`
	Query        map[string]string `json:"query,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Timing       Timing            `json:"timing"`
	Body         []byte            `json:"-"`
	BodyPreview  string            `json:"body_preview,omitempty"`
	CORS         *CORSInfo         `json:"cors,omitempty"`
	JWT          *JWTInfo          `json:"jwt,omitempty"`
}

// CapturedResponse is the normalized view of a response observed by the engine.
type CapturedResponse struct {
	ID          string            `json:"id"`
	Status      int               `json:"status"`
	StatusText  string            `json:"status_text"`
	Headers     map[string]string `json:"headers,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	BodySize    int               `json:"body_size"`
	Body        []byte            `json:"-"`
	BodyPreview string            `json:"body_preview,omitempty"`
	Timing      Timing            `json:"timing"`
	FromCache   bool              `json:"from_cache,omitempty"`
	SavedPath   string            `json:"saved_path,omitempty"`
	CORSAllow   *CORSAllow        `json:"cors_allow,omitempty"`
	SetCookies  []Cookie          `json:"set_cookies,omitempty"`
	JWT         *JWTInfo          `json:"jwt,omitempty"`
}

// CapturedTransaction is the aggregate of a request and its (optional) response.
type CapturedTransaction struct {
	ID          string            `json:"id"`
	Method      string            `json:"method"`
	Host        string            `json:"host"`
	Path        string            `json:"path"`
	RouteKey    string            `json:"route_key"`
	RawQuery    string            `json:"raw_query,omitempty"`
	Request     *CapturedRequest  `json:"request"`
	Response    *CapturedResponse `json:"response,omitempty"`
	DurationMs  int64             `json:"duration_ms,omitempty"`
	TTFBMs      int64             `json:"ttfb_ms,omitempty"`
	ReceiveMs   int64             `json:"receive_ms,omitempty"`
}

// SavedBodyDescriptor records where a captured response body was persisted.
type SavedBodyDescriptor struct {
	Path        string `json:"path"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// PreflightRecord tracks an OPTIONS pre-flight awaiting its real request.
type PreflightRecord struct {
	Host      string
	Path      string
	Method    string
	Origin    string
	Timestamp int64
}
