// Purpose: Parses the optional retention window for the in-memory views a
// long-running capture session accumulates (the aggregator's transaction
// index, the diagnostic bridge's redirect-chain map).
// ttl.go — duration parsing with a one-minute floor, grounded on the
// teacher's own ttl.go minimum-enforcement rule.
package ttl

import (
	"fmt"
	"time"
)

// Minimum is the smallest non-zero TTL accepted. A shorter duration is
// rejected rather than silently rounded up.
const Minimum = time.Minute

// ParseTTL parses s as a Go duration. An empty string means unlimited
// retention (zero, never swept). A non-empty duration below Minimum is
// rejected.
func ParseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("ttl: %w", err)
	}
	if d < Minimum {
		return 0, fmt.Errorf("ttl: %s is below the minimum of %s", d, Minimum)
	}
	return d, nil
}

// Expired reports whether addedAt is older than ttl as of now. A zero ttl
// means unlimited retention: nothing is ever expired.
func Expired(addedAt, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(addedAt) >= ttl
}
