// Package ssache provides an in-memory key/value cache server addressed over
// TCP with a text framing inspired by the Redis Serialization Protocol.
//
// SSache is built around a sharded in-memory store with per-entry TTL
// expiration, a lazy expiration reaper, asynchronous best-effort replication
// of write operations to a statically configured set of peer replicas, and a
// per-connection command dispatcher.
//
// # Architecture Overview
//
//   - internal/store: sharded map of entries, per-shard replication log
//     segments, dump-file save/load.
//   - internal/reaper: background worker evicting expired entries.
//   - internal/replication: one background worker per configured replica,
//     draining log segments in bounded batches over TCP.
//   - internal/protocol: inline command parsing and RESP-ish reply encoding.
//   - internal/server: per-connection read/dispatch/reply loop and the
//     TCP listener.
//   - pkg/config: CLI flag and environment-variable configuration.
//   - pkg/client: a minimal single-address client speaking the same wire
//     protocol, used by the replicator and the example CLI.
//
// # Quick Start
//
// Server:
//
//	cfg := config.LoadServerConfig()
//	st := store.New(cfg.Shards, cfg.DumpPath, cfg.Replicas)
//	srv := server.New(cfg.Address(), st, cfg.Replicas)
//	log.Fatal(srv.Start())
//
// Client:
//
//	c, err := client.Dial("localhost:7777")
//	err = c.Set("user:123", "john_doe")
//	value, ok, err := c.Get("user:123")
package ssache
