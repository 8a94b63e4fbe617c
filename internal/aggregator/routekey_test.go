package aggregator

import "testing"

func TestComputeRouteKeyIdempotent(t *testing.T) {
	paths := []string{
		"/api/v1/users/123/items/456",
		"/api/v1/users/f47ac10b-58cc-4372-a567-0e02b2c3d479/profile",
		"/events/2024-01-15T10:30:00Z/summary",
		"/orders/99999999999/receipt",
	}
	for _, p := range paths {
		once := ComputeRouteKey(p)
		twice := ComputeRouteKey(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: once=%q twice=%q", p, once, twice)
		}
	}
}

func TestComputeRouteKeyCollapsesNumericSegments(t *testing.T) {
	a := ComputeRouteKey("/api/v1/users/123/items/456")
	b := ComputeRouteKey("/api/v1/users/999/items/001")
	if a != b {
		t.Fatalf("expected collapse: %q != %q", a, b)
	}
}

func TestComputeRouteKeyDoesNotCollapseNonNumericSegments(t *testing.T) {
	a := ComputeRouteKey("/api/users/profile")
	b := ComputeRouteKey("/api/users/settings")
	if a == b {
		t.Fatalf("expected distinct route keys, got %q for both", a)
	}
}

func TestComputeRouteKeyUUID(t *testing.T) {
	got := ComputeRouteKey("/widgets/f47ac10b-58cc-4372-a567-0e02b2c3d479")
	want := "/widgets/:uuid"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestComputeRouteKeyLongDigits(t *testing.T) {
	got := ComputeRouteKey("/orders/99999999999/receipt")
	want := "/orders/:long/receipt"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
