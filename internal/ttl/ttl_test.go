package ttl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"one hour", "1h", time.Hour, false},
		{"fifteen minutes", "15m", 15 * time.Minute, false},
		{"below minimum rejected", "30s", 0, true},
		{"combined duration", "2h30m", 2*time.Hour + 30*time.Minute, false},
		{"empty means unlimited", "", 0, false},
		{"invalid syntax rejected", "abc", 0, true},
		{"exactly minimum accepted", "1m", time.Minute, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTTL(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExpiredZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	require.False(t, Expired(now.Add(-24*time.Hour), now, 0))
}

func TestExpiredBoundaryIsExpired(t *testing.T) {
	now := time.Now()
	require.True(t, Expired(now.Add(-time.Minute), now, time.Minute))
}

func TestExpiredFreshEntryNotExpired(t *testing.T) {
	now := time.Now()
	require.False(t, Expired(now.Add(-30*time.Second), now, time.Minute))
}
