// Package store implements SSache's sharded in-memory key/value engine: a
// fixed-size vector of lock-protected Shards, each owning a slice of the
// keyspace plus its own per-replica replication log segments.
//
// Grounded on the teacher's pkg/cache (single global-locked map generalized
// here to one lock per shard) and _examples/original_source/src/storage.rs
// (shard count fixed at construction, hash-and-modulo routing, INCR/DECR
// default-to-zero semantics, SAVE iterating shards one at a time).
package store

import (
	"sync"
	"time"
)

// Store owns N shards and the immutable configuration needed to route keys
// and drive replication and snapshotting. N is fixed for the process
// lifetime (spec.md §3).
type Store struct {
	shards   []*shard
	replicas []string
	dumpPath string

	// dumpMu serializes SAVE and LOAD: concurrent SAVEs are serialized,
	// concurrent LOADs are serialized, and SAVE/LOAD never interleave
	// (spec.md §5, "Shared resources").
	dumpMu sync.Mutex
}

// New creates a Store with numShards shards, one replication log segment
// per entry in replicas, and dumpPath as the SAVE/LOAD target file.
func New(numShards int, dumpPath string, replicas []string) *Store {
	if numShards < 1 {
		numShards = 1
	}
	shards := make([]*shard, numShards)
	for i := range shards {
		shards[i] = newShard(len(replicas))
	}
	return &Store{shards: shards, replicas: replicas, dumpPath: dumpPath}
}

// NumShards returns the fixed shard count.
func (st *Store) NumShards() int { return len(st.shards) }

// NumReplicas returns the configured replica count.
func (st *Store) NumReplicas() int { return len(st.replicas) }

// Replicas returns the configured replica addresses, in configuration order.
// Replica index i corresponds to log segment index i on every shard.
func (st *Store) Replicas() []string { return st.replicas }

func (st *Store) shardFor(key string) *shard {
	return st.shards[shardIndex(key, len(st.shards))]
}

// Get returns the value stored under key, or ok=false if the key is absent
// or has expired (spec.md §4.B).
func (st *Store) Get(key string) (value []byte, ok bool) {
	return st.shardFor(key).get(key, time.Now())
}

// Set stores value under key, clearing any existing expiration, and
// appends a SET LogOp to every replica's segment for key's shard.
func (st *Store) Set(key string, value []byte) {
	st.shardFor(key).set(key, value)
}

// Expire sets key's remaining TTL. Returns ErrNotFound if key is absent or
// already expired. Not replicated (spec.md §4.B, §9).
func (st *Store) Expire(key string, ttl time.Duration) error {
	return st.shardFor(key).expire(key, ttl, time.Now())
}

// Incr adds 1 to the integer stored under key, initializing absent/expired
// keys to 0 first. Returns ErrNotInteger if the stored value is not a valid
// signed 64-bit decimal integer.
func (st *Store) Incr(key string) (int64, error) {
	return st.shardFor(key).incrDecr(key, 1, OpIncr, time.Now())
}

// Decr subtracts 1 from the integer stored under key, initializing
// absent/expired keys to 0 first.
func (st *Store) Decr(key string) (int64, error) {
	return st.shardFor(key).incrDecr(key, -1, OpDecr, time.Now())
}

// DrainLog reads up to batch ops queued for replica r on the shard at
// shardIdx, starting from that replica's current offset on the shard. It
// returns a copy of the batch and the high-water mark to pass to
// CommitDrain once the batch has been transmitted (spec.md §4.D step 1).
func (st *Store) DrainLog(shardIdx, r, batch int) ([]LogOp, int) {
	return st.shards[shardIdx].drain(r, batch)
}

// CommitDrain finalizes a successful transmission for replica r on the
// shard at shardIdx (spec.md §4.D step 3).
func (st *Store) CommitDrain(shardIdx, r, highWater int) {
	st.shards[shardIdx].commitDrain(r, highWater)
}

// ReapExpired scans every shard in order and removes entries whose expiry
// has elapsed, returning the total removed (spec.md §4.C).
func (st *Store) ReapExpired() int {
	now := time.Now()
	removed := 0
	for _, s := range st.shards {
		removed += s.reapExpired(now)
	}
	return removed
}
