package capture

import "testing"

func TestSplitHostPathDefaultsToRootPath(t *testing.T) {
	host, path := splitHostPath("https://example.com")
	if host != "example.com" {
		t.Errorf("host = %q, want example.com", host)
	}
	if path != "/" {
		t.Errorf("path = %q, want /", path)
	}
}

func TestSplitHostPathStripsQuery(t *testing.T) {
	_, path := splitHostPath("https://example.com/api/v1/users?page=2")
	if path != "/api/v1/users" {
		t.Errorf("path = %q, want /api/v1/users", path)
	}
}

func TestSplitHostPathUnparseableURLKeepsHostEmpty(t *testing.T) {
	host, path := splitHostPath(string([]byte{0x7f}))
	if host != "" {
		t.Errorf("host = %q, want empty", host)
	}
	if path != string([]byte{0x7f}) {
		t.Errorf("path = %q, want original input", path)
	}
}
