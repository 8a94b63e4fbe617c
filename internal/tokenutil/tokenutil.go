// Purpose: Owns bearer-token detection, decoding, and redaction.
// tokenutil.go — three-segment Base64URL bearer token helpers (spec §4.1).
// None of these operations raise: on any decode failure they return
// (zero-value, false) rather than propagate.
package tokenutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// bearerPattern matches three dot-separated Base64URL groups whose first
// group starts with "ey" (the Base64URL encoding of `{"` that opens every
// JSON JWT header).
var bearerPattern = regexp.MustCompile(`\bey[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`)

// FindBearerToken returns the first dot-separated three-segment Base64URL
// token in s, or ("", false) if none is present.
func FindBearerToken(s string) (string, bool) {
	m := bearerPattern.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// DecodeBase64URLJSON pads s to a multiple of 4, substitutes URL-safe
// characters, Base64-decodes, and parses the result as JSON. Returns
// (nil, false) on any failure along the way.
func DecodeBase64URLJSON(s string) (map[string]any, bool) {
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// DecodeBearerToken splits token on "." and independently decodes the
// header and payload segments. Either return may be nil if its segment is
// absent or fails to decode; the function itself never fails.
func DecodeBearerToken(token string) (header map[string]any, payload map[string]any) {
	parts := strings.Split(token, ".")
	if len(parts) > 0 {
		header, _ = DecodeBase64URLJSON(parts[0])
	}
	if len(parts) > 1 {
		payload, _ = DecodeBase64URLJSON(parts[1])
	}
	return header, payload
}

// RedactBearerToken replaces token's third (signature) segment with
// <redacted:Nb>, preserving the first two segments verbatim. If token has
// fewer than three segments it is returned unchanged.
func RedactBearerToken(token string) string {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 3 {
		return token
	}
	return fmt.Sprintf("%s.%s.<redacted:%db>", parts[0], parts[1], len(parts[2]))
}
