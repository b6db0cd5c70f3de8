package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeStore struct {
	calls int32
}

func (f *fakeStore) ReapExpired() int {
	atomic.AddInt32(&f.calls, 1)
	return 0
}

func TestReaperSweepsOnEachTick(t *testing.T) {
	fs := &fakeStore{}
	r := New(fs)
	r.interval = 5 * time.Millisecond

	r.Start(context.Background())
	defer r.Stop()

	deadline := time.After(time.Second)
	for {
		if atomic.LoadInt32(&fs.calls) >= 3 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", atomic.LoadInt32(&fs.calls))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestReaperStopBlocksUntilGoroutineExits(t *testing.T) {
	fs := &fakeStore{}
	r := New(fs)
	r.interval = 5 * time.Millisecond

	r.Start(context.Background())
	r.Stop()

	calls := atomic.LoadInt32(&fs.calls)
	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&fs.calls) != calls {
		t.Fatal("reaper kept sweeping after Stop returned")
	}
}

func TestReaperStartIsIdempotent(t *testing.T) {
	fs := &fakeStore{}
	r := New(fs)
	r.interval = 5 * time.Millisecond

	r.Start(context.Background())
	r.Start(context.Background()) // must not spawn a second goroutine
	r.Stop()
}
