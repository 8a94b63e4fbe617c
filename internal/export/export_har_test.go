package export

import (
	"encoding/json"
	"testing"

	"github.com/brennhill/netcapture/internal/types"
	"github.com/stretchr/testify/require"
)

func TestTransactionToHAREntryBasic(t *testing.T) {
	entry := TransactionToHAREntry(HAREntryInput{
		Method:          "GET",
		URL:             "https://api.test/hello",
		StartedDateTime: "2026-07-31T00:00:00.000Z",
		TimeMs:          12,
		RespHeaders:     map[string]string{"content-type": "text/plain"},
		Status:          200,
		StatusText:      "OK",
		BodySize:        5,
		BodyText:        "hello",
	})
	require.Equal(t, "HTTP/2.0", entry.Request.HTTPVersion)
	require.Equal(t, 5, entry.Response.Content.Size)
	require.Empty(t, entry.Response.Content.File)
	require.False(t, entry.Response.Redacted)
}

func TestTransactionToHAREntryWithSavedBody(t *testing.T) {
	entry := TransactionToHAREntry(HAREntryInput{
		Method:      "GET",
		URL:         "https://api.test/hello",
		Status:      200,
		BodySize:    5,
		Descriptor:  &types.SavedBodyDescriptor{Path: "bodies-x/1_abc.bin", Size: 5},
		Redacted:    true,
		RespHeaders: map[string]string{},
	})
	require.Equal(t, "bodies-x/1_abc.bin", entry.Response.Content.File)
	require.True(t, entry.Response.Redacted)
}

func TestHARLogMarshalsEntriesField(t *testing.T) {
	log := NewHARLog("1.0.0", "session", "2026-07-31T00:00:00.000Z")
	log.Log.Entries = append(log.Log.Entries, TransactionToHAREntry(HAREntryInput{
		Method: "GET", URL: "https://x/y", Status: 200, RespHeaders: map[string]string{},
	}))
	data, err := json.Marshal(log)
	require.NoError(t, err)
	require.Contains(t, string(data), `"entries"`)
	require.Len(t, log.Log.Pages, 1)
}

func TestTransactionToHAREntryZeroTimingsAreExplicitZero(t *testing.T) {
	entry := TransactionToHAREntry(HAREntryInput{Method: "GET", URL: "https://x/y", RespHeaders: map[string]string{}})
	require.Equal(t, 0, entry.Timings.Send)
	require.Equal(t, 0, entry.Timings.Receive)
}
