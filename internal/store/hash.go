package store

import "hash/fnv"

// shardIndex hashes key with FNV-1a and routes it to one of n shards.
//
// This replaces the teacher's SHA-256 consistent-hash ring (pkg/hash in the
// teacher repo), which existed to let a client route keys across a dynamic
// set of server nodes. SSache's shard count is fixed for the process
// lifetime (spec.md §3, "Store"), so there is nothing to rebalance and a
// plain deterministic modulo hash is sufficient (spec.md §4.B: "a fast
// non-adversarial hash is sufficient, e.g. FNV-1a").
func shardIndex(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
