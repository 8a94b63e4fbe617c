// headers.go — header whitelist filtering, CORS-allow extraction, and
// Set-Cookie line parsing (spec §4.4).
package capture

import (
	"strings"

	"github.com/brennhill/netcapture/internal/redaction"
	"github.com/brennhill/netcapture/internal/types"
)

func lowerHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}

// filterHeaders retains base-whitelisted keys, all access-control-allow-*
// keys when allowCORS is set, and authorization/cookie/set-cookie when
// redaction is disabled. Everything else is dropped before emission and
// archival.
func filterHeaders(headers map[string]string, base map[string]struct{}, allowCORS, allowAuthCookie bool) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		_, whitelisted := base[k]
		switch {
		case whitelisted:
			out[k] = v
		case allowCORS && strings.HasPrefix(k, "access-control-allow-"):
			out[k] = v
		case allowAuthCookie && (k == "authorization" || k == "cookie" || k == "set-cookie"):
			out[k] = v
		}
	}
	return out
}

func filterRequestHeaders(headers map[string]string, redactionEnabled bool) map[string]string {
	return filterHeaders(headers, requestHeaderWhitelist, false, !redactionEnabled)
}

func filterResponseHeaders(headers map[string]string, redactionEnabled bool) map[string]string {
	return filterHeaders(headers, responseHeaderWhitelist, true, !redactionEnabled)
}

// extractCORSAllow builds a CORSAllow from raw (unfiltered, lowercased)
// response headers. Returns nil if none of the access-control-allow-*
// headers are present.
func extractCORSAllow(headers map[string]string) *types.CORSAllow {
	origin, hasOrigin := headers["access-control-allow-origin"]
	methodsRaw, hasMethods := headers["access-control-allow-methods"]
	headersRaw, hasHeaders := headers["access-control-allow-headers"]
	credRaw, hasCred := headers["access-control-allow-credentials"]
	if !hasOrigin && !hasMethods && !hasHeaders && !hasCred {
		return nil
	}
	out := &types.CORSAllow{Origin: origin}
	if hasMethods {
		out.Methods = splitCommaList(methodsRaw)
	}
	if hasHeaders {
		out.Headers = splitCommaList(headersRaw)
	}
	if hasCred {
		out.Credentials = strings.EqualFold(strings.TrimSpace(credRaw), "true")
	}
	return out
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseSetCookie parses one raw "name=value; Flag; Flag=Value" Set-Cookie
// line into a types.Cookie. Flag names are lowercased; flag values are
// lowercased strings, or true for a bare flag (spec §4.4 step 4).
func parseSetCookie(line string, redactor *redaction.Engine) types.Cookie {
	segments := strings.Split(line, ";")
	nv := strings.SplitN(strings.TrimSpace(segments[0]), "=", 2)
	name := strings.TrimSpace(nv[0])
	value := ""
	if len(nv) > 1 {
		value = strings.TrimSpace(nv[1])
	}

	var flags map[string]any
	if len(segments) > 1 {
		flags = make(map[string]any, len(segments)-1)
		for _, attr := range segments[1:] {
			attr = strings.TrimSpace(attr)
			if attr == "" {
				continue
			}
			kv := strings.SplitN(attr, "=", 2)
			key := strings.ToLower(strings.TrimSpace(kv[0]))
			if len(kv) == 2 {
				flags[key] = strings.ToLower(strings.TrimSpace(kv[1]))
			} else {
				flags[key] = true
			}
		}
	}

	return types.Cookie{Name: name, Value: redactor.RedactCookieValue(value), Flags: flags}
}
