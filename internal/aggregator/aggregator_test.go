package aggregator

import (
	"testing"
	"time"

	"github.com/brennhill/netcapture/internal/types"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func TestOnRequestThenOnResponseComputesTiming(t *testing.T) {
	a := New()
	txn := a.OnRequest(types.CapturedRequest{
		ID:     "r1",
		Method: "GET",
		URL:    "https://api.test/users/123",
		Host:   "api.test",
		Path:   "/users/123",
		Timing: types.Timing{StartTs: 1000},
	})
	require.Equal(t, "api.test/users/:id", txn.RouteKey)

	got, ok := a.OnResponse(types.CapturedResponse{
		ID:     "r1",
		Status: 200,
		Timing: types.Timing{StartTs: 1000, FirstByteTs: i64(1040), EndTs: i64(1100)},
	})
	require.True(t, ok)
	require.Equal(t, int64(100), got.DurationMs)
	require.Equal(t, int64(40), got.TTFBMs)
	require.Equal(t, int64(60), got.ReceiveMs)
}

func TestOnResponseWithoutRequestIsDropped(t *testing.T) {
	a := New()
	_, ok := a.OnResponse(types.CapturedResponse{ID: "ghost"})
	require.False(t, ok)
}

func TestPatchRequestTokenIdempotent(t *testing.T) {
	a := New()
	a.OnRequest(types.CapturedRequest{ID: "r1", Host: "h", Path: "/x"})
	tok := &types.JWTInfo{Token: "a.b.<redacted:1b>"}
	a.PatchRequestToken("r1", tok)
	a.PatchRequestToken("r1", tok)
	txn, _ := a.Get("r1")
	require.Equal(t, tok, txn.Request.JWT)
}

func TestPatchRequestTokenMissingIDNoop(t *testing.T) {
	a := New()
	a.PatchRequestToken("missing", &types.JWTInfo{Token: "x"})
}

func TestOrderedPreservesInsertionOrder(t *testing.T) {
	a := New()
	a.OnRequest(types.CapturedRequest{ID: "1", Host: "h", Path: "/a"})
	a.OnRequest(types.CapturedRequest{ID: "2", Host: "h", Path: "/b"})
	a.OnRequest(types.CapturedRequest{ID: "3", Host: "h", Path: "/c"})
	_, _ = a.OnResponse(types.CapturedResponse{ID: "2"})

	ordered := a.Ordered()
	require.Len(t, ordered, 3)
	require.Equal(t, []string{"1", "2", "3"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestResetClearsState(t *testing.T) {
	a := New()
	a.OnRequest(types.CapturedRequest{ID: "1", Host: "h", Path: "/a"})
	a.Reset()
	require.Empty(t, a.Ordered())
	_, ok := a.Get("1")
	require.False(t, ok)
}

func TestOnRequestExtractsGraphQLOperationName(t *testing.T) {
	a := New()
	body := []byte(`{"operationName":"GetUser","variables":{}}`)
	txn := a.OnRequest(types.CapturedRequest{
		ID:      "r1",
		Host:    "api.test",
		Path:    "/graphql",
		Headers: map[string]string{"content-type": "application/json"},
		Body:    body,
	})
	require.Equal(t, "api.test/graphql#GetUser", txn.RouteKey)
}

func TestOnRequestExtractsPersistedQueryHash(t *testing.T) {
	a := New()
	body := []byte(`{"extensions":{"persistedQuery":{"sha256Hash":"abcdef0123456789"}}}`)
	txn := a.OnRequest(types.CapturedRequest{
		ID:      "r1",
		Host:    "api.test",
		Path:    "/graphql",
		Headers: map[string]string{"content-type": "application/json"},
		Body:    body,
	})
	require.Equal(t, "api.test/graphql#persisted:abcdef01", txn.RouteKey)
}

func TestSweepDropsExpiredTransactions(t *testing.T) {
	a := New()
	a.SetTTL(time.Minute)

	now := time.Now()
	old := now.Add(-2 * time.Minute)
	a.OnRequest(types.CapturedRequest{ID: "old", Host: "h", Path: "/a", Timing: types.Timing{StartTs: old.UnixMilli()}})
	a.OnRequest(types.CapturedRequest{ID: "fresh", Host: "h", Path: "/b", Timing: types.Timing{StartTs: now.UnixMilli()}})

	a.Sweep(now)

	ordered := a.Ordered()
	require.Len(t, ordered, 1)
	require.Equal(t, "fresh", ordered[0].ID)
	_, ok := a.Get("old")
	require.False(t, ok)
}

func TestSweepNoopWithoutTTL(t *testing.T) {
	a := New()
	old := time.Now().Add(-24 * time.Hour)
	a.OnRequest(types.CapturedRequest{ID: "old", Host: "h", Path: "/a", Timing: types.Timing{StartTs: old.UnixMilli()}})

	a.Sweep(time.Now())

	require.Len(t, a.Ordered(), 1)
}
