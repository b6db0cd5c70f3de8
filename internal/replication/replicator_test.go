package replication

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ssache/ssache/internal/store"
)

// fakeStore is an in-memory stand-in for *store.Store exposing only what
// a Replicator needs, letting these tests exercise drain/commit ordering
// without spinning up a full Store.
type fakeStore struct {
	mu       sync.Mutex
	shards   int
	segments map[int][]store.LogOp // shard -> pending ops
	offsets  map[int]int
}

func newFakeStore(shards int) *fakeStore {
	return &fakeStore{shards: shards, segments: map[int][]store.LogOp{}, offsets: map[int]int{}}
}

func (f *fakeStore) NumShards() int { return f.shards }

func (f *fakeStore) push(shard int, op store.LogOp) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.segments[shard] = append(f.segments[shard], op)
}

func (f *fakeStore) DrainLog(shardIdx, replicaIdx, batch int) ([]store.LogOp, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seg := f.segments[shardIdx]
	off := f.offsets[shardIdx]
	end := off + batch
	if end > len(seg) {
		end = len(seg)
	}
	out := append([]store.LogOp(nil), seg[off:end]...)
	return out, end
}

func (f *fakeStore) CommitDrain(shardIdx, replicaIdx, highWater int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.segments[shardIdx]) == highWater {
		f.segments[shardIdx] = nil
		f.offsets[shardIdx] = 0
		return
	}
	f.offsets[shardIdx] = highWater
}

// fakeDialer/fakePeer record every replayed op in order, optionally
// failing the first N dial attempts to exercise backoff/reconnect.
type fakeDialer struct {
	mu         sync.Mutex
	failDials  int
	replayed   []store.LogOp
	failReplay bool
}

func (d *fakeDialer) Dial(addr string) (Peer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failDials > 0 {
		d.failDials--
		return nil, errors.New("dial refused")
	}
	return &fakePeer{d: d}, nil
}

type fakePeer struct{ d *fakeDialer }

func (p *fakePeer) Replay(op store.LogOp) error {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	if p.d.failReplay {
		return errors.New("replay failed")
	}
	p.d.replayed = append(p.d.replayed, op)
	return nil
}

func (p *fakePeer) Close() error { return nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met before deadline")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestReplicatorDrainsOpsInOrder(t *testing.T) {
	fs := newFakeStore(2)
	fs.push(0, store.LogOp{Kind: store.OpSet, Key: "k1", Value: []byte("v1")})
	fs.push(0, store.LogOp{Kind: store.OpSet, Key: "k1", Value: []byte("v2")})

	d := &fakeDialer{}
	r := New("replica:1", 0, fs)
	r.dialer = d

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return len(d.replayed) == 2
	})

	require.Equal(t, "v1", string(d.replayed[0].Value))
	require.Equal(t, "v2", string(d.replayed[1].Value))
}

func TestReplicatorRetriesAfterDialFailure(t *testing.T) {
	fs := newFakeStore(1)
	fs.push(0, store.LogOp{Kind: store.OpIncr, Key: "ctr"})

	d := &fakeDialer{failDials: 2}
	r := New("replica:1", 0, fs)
	r.dialer = d
	r.nextBackoff = time.Millisecond // keep the test fast

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return len(d.replayed) == 1
	})

	require.Equal(t, store.OpIncr, d.replayed[0].Kind)
}

func TestCommitDrainPreservesTailDuringLiveWrites(t *testing.T) {
	fs := newFakeStore(1)
	fs.push(0, store.LogOp{Kind: store.OpSet, Key: "k1", Value: []byte("v1")})

	ops, hw := fs.DrainLog(0, 0, Batch)
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}

	fs.push(0, store.LogOp{Kind: store.OpSet, Key: "k2", Value: []byte("v2")})
	fs.CommitDrain(0, 0, hw)

	remaining, _ := fs.DrainLog(0, 0, Batch)
	if len(remaining) != 1 || remaining[0].Key != "k2" {
		t.Fatalf("expected only the tail write to remain, got %+v", remaining)
	}
}
