// redaction.go — secret redaction applied at each emission and persistence
// point, from a single configuration read at session start (spec §4.3,
// §9 "Redaction as transformation"). Builds a redacted copy; never mutates
// the caller's value in place.
package redaction

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/brennhill/netcapture/internal/tokenutil"
)

// sensitiveFieldNames are the JSON/form field names whose values are
// scrubbed from request bodies when redaction is enabled.
var sensitiveFieldNames = []string{"password", "pass", "token", "secret", "apiKey"}

// CookieSentinel replaces every Set-Cookie value when redaction is enabled.
const CookieSentinel = "<redacted>"

// jsonFieldPattern matches `"name": "value"` pairs for a given field name,
// redacting only the value while preserving surrounding JSON structure.
func jsonFieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)("` + regexp.QuoteMeta(name) + `"\s*:\s*")([^"\\]*(?:\\.[^"\\]*)*)(")`)
}

var jsonFieldPatterns = buildJSONFieldPatterns()

func buildJSONFieldPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(sensitiveFieldNames))
	for _, name := range sensitiveFieldNames {
		out = append(out, jsonFieldPattern(name))
	}
	return out
}

// Engine applies the body/cookie/token redaction rules of spec §4.3. It is
// enabled or disabled once at session start (the redactSecrets config key)
// and is safe for concurrent use.
type Engine struct {
	enabled bool
}

// New returns an Engine; enabled mirrors the redactSecrets configuration key.
func New(enabled bool) *Engine {
	return &Engine{enabled: enabled}
}

// Enabled reports whether redaction is active.
func (e *Engine) Enabled() bool {
	return e != nil && e.enabled
}

// RedactBody scrubs password/pass/token/secret/apiKey field values from a
// request body, recognizing both JSON object bodies and
// application/x-www-form-urlencoded bodies. If redaction is disabled or the
// content type matches neither shape, body is returned unchanged.
func (e *Engine) RedactBody(body string, contentType string) string {
	if !e.Enabled() || body == "" {
		return body
	}
	lowerCT := strings.ToLower(contentType)
	switch {
	case strings.Contains(lowerCT, "json"):
		return redactJSONBody(body)
	case strings.Contains(lowerCT, "x-www-form-urlencoded"):
		return redactFormBody(body)
	default:
		// Unknown content type: still try JSON since many RPC callers omit
		// or mislabel it, matching the engine's "never leak, degrade to a
		// best-effort scrub" posture.
		if looksLikeJSONObject(body) {
			return redactJSONBody(body)
		}
		return body
	}
}

func looksLikeJSONObject(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func redactJSONBody(body string) string {
	// Fast path: valid JSON, walk the parsed value so nested fields are
	// reachable regardless of structure.
	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		redactJSONValue(v)
		if out, err := json.Marshal(v); err == nil {
			return string(out)
		}
	}
	// Fallback: regex scrub of the raw text, for bodies that are
	// JSON-shaped but not strictly valid JSON (e.g. trailing commas from a
	// hand-rolled client).
	out := body
	for _, pat := range jsonFieldPatterns {
		out = pat.ReplaceAllString(out, "${1}***${3}")
	}
	return out
}

func redactJSONValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isSensitiveField(k) {
				t[k] = "***"
				continue
			}
			redactJSONValue(val)
		}
	case []any:
		for _, item := range t {
			redactJSONValue(item)
		}
	}
}

func isSensitiveField(name string) bool {
	for _, s := range sensitiveFieldNames {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func redactFormBody(body string) string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return body
	}
	for key := range values {
		if isSensitiveField(key) {
			values.Set(key, "***")
		}
	}
	return values.Encode()
}

// RedactAuthorizationHeader redacts the signature segment of a bearer token
// carried in an Authorization header value (a JWT-shaped token found
// anywhere in the value, or the credential of a "Bearer <token>" value),
// leaving non-bearer values unchanged.
func (e *Engine) RedactAuthorizationHeader(value string) string {
	if !e.Enabled() {
		return value
	}
	token, ok := tokenutil.FindBearerToken(value)
	if !ok {
		fields := strings.Fields(value)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
			return value
		}
		token = fields[1]
	}
	return strings.Replace(value, token, tokenutil.RedactBearerToken(token), 1)
}

// RedactCookieValue returns the cookie sentinel when redaction is enabled,
// else the value unchanged. Cookie names and flags are never touched.
func (e *Engine) RedactCookieValue(value string) string {
	if !e.Enabled() {
		return value
	}
	return CookieSentinel
}
