package recorder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/brennhill/netcapture/internal/types"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, cfg types.Configuration) *Recorder {
	t.Helper()
	cfg.OutputFolder = t.TempDir()
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func TestSimpleGETProducesOneHAREntry(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{})
	r.OnRESTRequest("GET", "https://api.test/hello", map[string]string{"accept": "*/*"}, 1000, "", "")
	r.OnRESTResponse(RESTResponseInput{
		Method: "GET", URL: "https://api.test/hello",
		Status: 200, StatusText: "OK",
		Headers:     map[string]string{"content-type": "text/plain"},
		BodySize:    5,
		BodyPreview: "hello",
		StartTs:     1000, EndTs: 1010,
	})
	require.Equal(t, 1, r.HAREntryCount())
	require.NoError(t, r.Stop())

	data, err := os.ReadFile(r.HARPath())
	require.NoError(t, err)
	require.Contains(t, string(data), `"size": 5`)
}

func TestRESTResponseWithoutMatchingRequestStillEmits(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{})
	r.OnRESTResponse(RESTResponseInput{
		Method: "GET", URL: "https://api.test/orphan",
		Status: 200, StartTs: 1000, EndTs: 1050,
	})
	require.Equal(t, 1, r.HAREntryCount())
}

func TestSaveBodyThenAttachToHAREntry(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{CaptureBodies: true})
	desc, err := r.SaveBody("req-1", []byte(`{"a":1}`), "application/json")
	require.NoError(t, err)
	require.FileExists(t, desc.Path)

	r.NoteResponseBody("GET", "https://api.test/data", desc)
	r.OnRESTResponse(RESTResponseInput{Method: "GET", URL: "https://api.test/data", Status: 200, BodySize: 7})
	require.Equal(t, 1, r.HAREntryCount())
}

func TestBodyRedactionInHARRequestBody(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{RedactSecrets: true})
	r.OnRESTRequest("POST", "https://api.test/login", nil, 1000, `{"user":"bob","password":"hunter2"}`, "application/json")
	r.OnRESTResponse(RESTResponseInput{Method: "POST", URL: "https://api.test/login", Status: 200, StartTs: 1000, EndTs: 1010})
	require.NoError(t, r.Stop())

	data, err := os.ReadFile(r.HARPath())
	require.NoError(t, err)
	require.NotContains(t, string(data), "hunter2")
}

func TestGracefulShutdownEntryAndWSLineCounts(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{})
	for i := 0; i < 3; i++ {
		url := "https://api.test/r" + string(rune('a'+i))
		r.OnRESTRequest("GET", url, nil, 1000, "", "")
		r.OnRESTResponse(RESTResponseInput{Method: "GET", URL: url, Status: 200, StartTs: 1000, EndTs: 1010})
	}
	for i := 0; i < 5; i++ {
		r.OnWSEvent(types.WSEventPayload{Type: "msg", ID: "ws1", Ts: int64(i)})
	}
	require.Equal(t, 3, r.HAREntryCount())
	require.NoError(t, r.Stop())

	data, err := os.ReadFile(r.WSPath())
	require.NoError(t, err)
	lines := splitNonEmptyLines(string(data))
	require.Len(t, lines, 5)
	for _, line := range lines {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &v))
	}
}

func TestShouldPersistBodyGate(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{
		CaptureBodies:       true,
		CaptureBodyMaxBytes: 10,
		CaptureBodyTypes:    "^application/json",
	})
	require.True(t, r.ShouldPersistBody(5, "application/json"))
	require.False(t, r.ShouldPersistBody(0, "application/json"))
	require.False(t, r.ShouldPersistBody(20, "application/json"))
	require.False(t, r.ShouldPersistBody(5, "text/html"))
}

func TestShouldPersistBodyDisabledWhenCaptureBodiesFalse(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{CaptureBodies: false})
	require.False(t, r.ShouldPersistBody(5, "application/json"))
}

func TestNDJSONStream(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{})
	path := filepath.Join(t.TempDir(), "txns.ndjson")
	require.NoError(t, r.StartNDJSON(path))
	r.PushTxnNDJSON(&types.CapturedTransaction{ID: "1"})
	r.PushTxnNDJSON(&types.CapturedTransaction{ID: "2"})
	require.NoError(t, r.StopNDJSON())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, splitNonEmptyLines(string(data)), 2)
}

func TestPushTxnNDJSONNoopWithoutStream(t *testing.T) {
	r := newTestRecorder(t, types.Configuration{})
	r.PushTxnNDJSON(&types.CapturedTransaction{ID: "1"}) // must not panic
}

func splitNonEmptyLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if line := s[start:i]; line != "" {
				out = append(out, line)
			}
			start = i + 1
		}
	}
	return out
}
