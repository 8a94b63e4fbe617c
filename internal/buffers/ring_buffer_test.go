package buffers

import (
	"testing"
	"time"
)

// These tests are grounded in how internal/session/broadcast.go actually
// drives a RingBuffer: WriteOne on every published State, ReadAll for a
// reconnecting subscriber's catch-up replay, at the small bounded capacity
// (subscriberBufferCap) a session controller uses for state history.

type fakeState struct {
	SessionID string
	Capturing bool
}

func TestWriteOneThenReadAllReturnsInsertionOrder(t *testing.T) {
	rb := NewRingBuffer[fakeState](4)

	rb.WriteOne(fakeState{SessionID: "s1", Capturing: true})
	rb.WriteOne(fakeState{SessionID: "s1", Capturing: false})
	rb.WriteOne(fakeState{SessionID: "s2", Capturing: true})

	got := rb.ReadAll()
	if len(got) != 3 {
		t.Fatalf("len(ReadAll()) = %d, want 3", len(got))
	}
	want := []fakeState{
		{SessionID: "s1", Capturing: true},
		{SessionID: "s1", Capturing: false},
		{SessionID: "s2", Capturing: true},
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestWriteOneEvictsOldestAtCapacity(t *testing.T) {
	rb := NewRingBuffer[fakeState](3)

	for i := 0; i < 5; i++ {
		rb.WriteOne(fakeState{SessionID: string(rune('a' + i))})
	}

	got := rb.ReadAll()
	if len(got) != 3 {
		t.Fatalf("len(ReadAll()) = %d, want 3 (capacity-bounded)", len(got))
	}
	want := []string{"c", "d", "e"}
	for i, w := range want {
		if got[i].SessionID != w {
			t.Errorf("got[%d].SessionID = %q, want %q", i, got[i].SessionID, w)
		}
	}
}

func TestReadAllOnEmptyBufferReturnsNil(t *testing.T) {
	rb := NewRingBuffer[fakeState](subscriberBufferCapForTest)
	if got := rb.ReadAll(); got != nil {
		t.Errorf("ReadAll() on empty buffer = %+v, want nil", got)
	}
}

func TestReadAllReflectsLatestStateAfterReconnectCatchUp(t *testing.T) {
	// Mirrors broadcaster.replay(): a subscriber that joins late calls
	// ReadAll to catch up on every retained state before switching to live
	// pushes, so the most recent write must be the last element returned.
	rb := NewRingBuffer[fakeState](subscriberBufferCapForTest)

	rb.WriteOne(fakeState{SessionID: "sess-1", Capturing: true})
	rb.WriteOne(fakeState{SessionID: "sess-1", Capturing: false})

	history := rb.ReadAll()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	latest := history[len(history)-1]
	if latest.Capturing {
		t.Errorf("latest replayed state.Capturing = true, want false (stop was the last publish)")
	}
}

func TestFindPositionAtTimeLocatesEntryAtOrAfterGivenTime(t *testing.T) {
	rb := NewRingBuffer[fakeState](4)
	rb.WriteOne(fakeState{SessionID: "s1"})

	cutoff := time.Now()
	time.Sleep(time.Millisecond)
	rb.WriteOne(fakeState{SessionID: "s2"})

	pos := rb.FindPositionAtTime(cutoff)
	if pos != 1 {
		t.Errorf("FindPositionAtTime = %d, want 1 (position of s2)", pos)
	}
}

const subscriberBufferCapForTest = 32
