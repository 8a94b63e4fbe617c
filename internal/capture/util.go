// util.go — small request-normalization helpers shared by the handlers.
package capture

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/brennhill/netcapture/internal/util"
)

var validMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, "HEAD": {}, "OPTIONS": {},
}

// normalizeMethod coerces an arbitrary method string to one of the
// recognized HTTP verbs, defaulting unrecognized values to GET (spec §3
// "CapturedRequest").
func normalizeMethod(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if _, ok := validMethods[m]; ok {
		return m
	}
	return "GET"
}

// previewUTF8 truncates data to max bytes and replaces any resulting
// invalid UTF-8 with the replacement character, for the body_preview
// fields of CapturedRequest/CapturedResponse.
func previewUTF8(data []byte, max int) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > max {
		data = data[:max]
	}
	return string(bytes.ToValidUTF8(data, []byte("�")))
}

// flattenQuery takes the first value of each query parameter, matching
// CapturedRequest.Query's map[string]string shape.
func flattenQuery(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func splitHostPath(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, util.ExtractURLPath(rawURL)
}
