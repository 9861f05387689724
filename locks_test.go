package shiftfanout_test

import (
	"testing"
	"time"

	"github.com/tomasbasham/shiftfanout"
)

func TestLockRegistry(t *testing.T) {
	t.Parallel()

	t.Run("same key blocks until released", func(t *testing.T) {
		t.Parallel()

		var r shiftfanout.LockRegistry[string]
		release := r.Acquire("shift-1")

		acquired := make(chan struct{})
		go func() {
			defer close(acquired)
			r.Acquire("shift-1")()
		}()

		select {
		case <-acquired:
			t.Fatal("expected second acquire to block while the lock is held")
		case <-time.After(50 * time.Millisecond):
		}

		release()

		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("expected second acquire to proceed after release")
		}
	})

	t.Run("different keys never block", func(t *testing.T) {
		t.Parallel()

		var r shiftfanout.LockRegistry[string]
		release := r.Acquire("shift-1")
		defer release()

		acquired := make(chan struct{})
		go func() {
			defer close(acquired)
			r.Acquire("shift-2")()
		}()

		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("expected lock on a different key to be acquired immediately")
		}

		if got, want := r.Len(), 2; got != want {
			t.Errorf("mismatch:\n  got:  %d\n  want: %d", got, want)
		}
	})

	t.Run("release is idempotent", func(t *testing.T) {
		t.Parallel()

		var r shiftfanout.LockRegistry[string]
		release := r.Acquire("shift-1")
		release()
		release()

		// A double unlock would have panicked; the lock must still work.
		r.Acquire("shift-1")()
	})
}
