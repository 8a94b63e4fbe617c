// preflight.go — CORS pre-flight correlation (spec §4.4, §8 property 5).
package capture

import (
	"strings"

	"github.com/brennhill/netcapture/internal/types"
	"github.com/brennhill/netcapture/internal/util"
)

// recordPreflight stores an OPTIONS request's (host, path, ACRM) under a
// 3 s-from-now eligibility window, opportunistically pruning anything
// already expired. origin is normalized to scheme://host[:port] so a
// request's Origin header with trailing path or credentials never fails to
// match later (spec §4.4 "CORS pre-flight correlation"). Caller holds c.mu.
func (c *Capture) recordPreflight(hostName, path, method, origin string, ts int64) {
	c.pruneExpiredPreflights(ts)
	key := preflightKey{host: hostName, path: path, method: strings.ToUpper(method)}
	if normalized := util.ExtractOrigin(origin); normalized != "" {
		origin = normalized
	}
	c.preflights[key] = types.PreflightRecord{
		Host:      hostName,
		Path:      path,
		Method:    key.method,
		Origin:    origin,
		Timestamp: ts,
	}
}

// consumePreflight looks up and deletes (spec §3 invariant: "consumed by
// the first matching real request; never consumed twice") the pre-flight
// recorded for (host, path, method). A match outside the window is treated
// as a miss.
func (c *Capture) consumePreflight(hostName, path, method string, now int64) (types.PreflightRecord, bool) {
	key := preflightKey{host: hostName, path: path, method: strings.ToUpper(method)}
	rec, ok := c.preflights[key]
	if !ok {
		return types.PreflightRecord{}, false
	}
	delete(c.preflights, key)
	if now-rec.Timestamp > preflightWindow.Milliseconds() {
		return types.PreflightRecord{}, false
	}
	return rec, true
}

func (c *Capture) pruneExpiredPreflights(now int64) {
	for k, rec := range c.preflights {
		if now-rec.Timestamp > preflightWindow.Milliseconds() {
			delete(c.preflights, k)
		}
	}
}
