// Purpose: Owns route-key normalization for grouping related request paths.
// routekey.go — collapse volatile path segments (UUIDs, long integers, ids,
// ISO dates) so requests that differ only in variable segments group under
// one key (spec §4.2, GLOSSARY "Route key").
package aggregator

import "regexp"

var (
	uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	longDigits  = regexp.MustCompile(`\d{8,}`)
	anyDigits   = regexp.MustCompile(`\d+`)
	isoDateTime = regexp.MustCompile(`\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?)?`)
)

// ComputeRouteKey applies the normalization steps in order: UUID v4-shaped
// substrings become :uuid, runs of 8+ digits become :long, any remaining
// digit runs become :id, and ISO-8601-like dates (with optional time)
// become :date. The result is idempotent: applying it to its own output
// yields the same string (spec §8, property 3).
func ComputeRouteKey(path string) string {
	path = uuidPattern.ReplaceAllString(path, ":uuid")
	path = longDigits.ReplaceAllString(path, ":long")
	path = isoDateTime.ReplaceAllString(path, ":date")
	path = anyDigits.ReplaceAllString(path, ":id")
	return path
}
