// Purpose: Owns the Network Capture Engine's tunable constants and header
// whitelists (spec §4.4).
package capture

import "time"

// preflightWindow is how long a recorded CORS pre-flight stays eligible to
// be matched against a following real request (spec §8 property 5). Per
// SPEC_FULL.md's resolution of the corresponding open question, the window
// is measured from the pre-flight's own pre-send-headers (request-sent)
// timestamp, not from its response.
const preflightWindow = 3 * time.Second

// maxBodyPreviewBytes bounds the UTF-8 preview kept alongside raw body
// bytes on CapturedRequest/CapturedResponse.
const maxBodyPreviewBytes = 512

// requestHeaderWhitelist is retained by default on outgoing request headers
// (spec §4.4 "Header whitelist").
var requestHeaderWhitelist = map[string]struct{}{
	"content-type":    {},
	"content-length":  {},
	"accept":          {},
	"accept-encoding": {},
	"user-agent":      {},
	"origin":          {},
	"referer":         {},
	"host":            {},
	"cache-control":   {},
	"pragma":          {},
}

// responseHeaderWhitelist is the request whitelist plus "vary"; all
// access-control-allow-* headers are retained separately (see filterHeaders).
var responseHeaderWhitelist = map[string]struct{}{
	"content-type":    {},
	"content-length":  {},
	"accept":          {},
	"accept-encoding": {},
	"user-agent":      {},
	"origin":          {},
	"referer":         {},
	"host":            {},
	"cache-control":   {},
	"pragma":          {},
	"vary":            {},
}
