// Package replication runs one background worker per configured replica,
// draining each shard's per-replica log segment in bounded batches and
// shipping the ops to the peer over the same text protocol a regular
// client speaks (spec.md §4.D).
//
// Grounded on _examples/johnjansen-torua's health_monitor.go for the
// ctx/ticker-free run-loop-with-Stop shape of a long-lived background
// worker, on the teacher's pkg/client.ConnectionPool for "keep the peer
// connection open across batches, reconnect with backoff on failure", and
// on other_examples/AndrewTheMaster-.../replication.go for the
// Replicator-as-named-background-shipper vocabulary. pkg/client is reused
// directly as the peer connection, since a Replicator is simply a client
// that never stops sending.
package replication

import (
	"context"
	"log"
	"time"

	"github.com/ssache/ssache/internal/store"
	"github.com/ssache/ssache/pkg/client"
)

// Batch is the maximum number of ops drained from one shard segment per
// round, per spec.md §4.D.
const Batch = 100

const maxBackoff = 30 * time.Second

// Store is the subset of *store.Store a Replicator depends on.
type Store interface {
	NumShards() int
	DrainLog(shardIdx, replicaIdx, batch int) ([]store.LogOp, int)
	CommitDrain(shardIdx, replicaIdx, highWater int)
}

// Dialer abstracts peer connection creation so tests can substitute a
// fake without opening real sockets.
type Dialer interface {
	Dial(addr string) (Peer, error)
}

// Peer is the minimal surface a Replicator needs from a connection to a
// replica: replay one op and tear the connection down.
type Peer interface {
	Replay(op store.LogOp) error
	Close() error
}

// Replicator drains one replica's log segments across all shards,
// round-robin, and ships them to addr.
type Replicator struct {
	addr        string
	replicaIdx  int
	store       Store
	dialer      Dialer
	nextBackoff time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Replicator for the replica at replicaIdx (its position in
// the store's configured replica list) reachable at addr.
func New(addr string, replicaIdx int, st Store) *Replicator {
	return &Replicator{
		addr:       addr,
		replicaIdx: replicaIdx,
		store:      st,
		dialer:     clientDialer{},
	}
}

// Start launches the background drain loop. No-op if already running.
func (r *Replicator) Start(ctx context.Context) {
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx)
}

// Stop signals the drain loop to exit and blocks until it has.
func (r *Replicator) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}

func (r *Replicator) run(ctx context.Context) {
	defer close(r.done)

	var peer Peer
	defer func() {
		if peer != nil {
			_ = peer.Close()
		}
	}()

	numShards := r.store.NumShards()
	shard := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if peer == nil {
			p, err := r.dialer.Dial(r.addr)
			if err != nil {
				if r.sleepBackoff(ctx) {
					return
				}
				continue
			}
			peer = p
			r.nextBackoff = 0
		}

		ops, highWater := r.store.DrainLog(shard, r.replicaIdx, Batch)
		if len(ops) == 0 {
			shard = (shard + 1) % numShards
			if shard == 0 {
				// Wrapped around after an empty last shard; pause briefly
				// to avoid a busy loop over idle shards.
				if r.sleep(ctx, 50*time.Millisecond) {
					return
				}
			}
			continue
		}

		if err := r.sendBatch(peer, ops); err != nil {
			log.Printf("replication[%s]: send failed: %v", r.addr, err)
			_ = peer.Close()
			peer = nil
			if r.sleepBackoff(ctx) {
				return
			}
			continue
		}

		r.store.CommitDrain(shard, r.replicaIdx, highWater)
		shard = (shard + 1) % numShards
	}
}

func (r *Replicator) sendBatch(peer Peer, ops []store.LogOp) error {
	for _, op := range ops {
		if err := peer.Replay(op); err != nil {
			return err
		}
	}
	return nil
}

// sleepBackoff waits the current backoff duration, doubling it (capped at
// maxBackoff) for next time. Returns true if ctx was canceled while
// waiting.
func (r *Replicator) sleepBackoff(ctx context.Context) bool {
	if r.nextBackoff == 0 {
		r.nextBackoff = 100 * time.Millisecond
	}
	canceled := r.sleep(ctx, r.nextBackoff)
	r.nextBackoff *= 2
	if r.nextBackoff > maxBackoff {
		r.nextBackoff = maxBackoff
	}
	return canceled
}

func (r *Replicator) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-t.C:
		return false
	}
}

// clientDialer adapts pkg/client.Dial to the Dialer interface.
type clientDialer struct{}

func (clientDialer) Dial(addr string) (Peer, error) {
	c, err := client.Dial(addr)
	if err != nil {
		return nil, err
	}
	return &clientPeer{c: c}, nil
}

type clientPeer struct {
	c *client.Client
}

func (p *clientPeer) Replay(op store.LogOp) error {
	switch op.Kind {
	case store.OpSet:
		return p.c.Set(op.Key, string(op.Value))
	case store.OpIncr:
		_, err := p.c.Incr(op.Key)
		return err
	case store.OpDecr:
		_, err := p.c.Decr(op.Key)
		return err
	default:
		return nil
	}
}

func (p *clientPeer) Close() error {
	return p.c.Close()
}
