// Package config loads SSache's server configuration from command-line
// flags and the LOG_LEVEL environment variable, following the teacher's
// precedence convention: flags first, then environment overrides, then
// defaults (pkg/config/config.go in the cachemir teacher repo).
//
// Example usage:
//
//	cfg := config.LoadServerConfig()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid configuration: %v", err)
//	}
//	st := store.New(cfg.Shards, cfg.DumpPath, cfg.Replicas)
package config

import (
	"flag"
	"fmt"
	"os"
)

// Defaults, per spec.md §6.
const (
	DefaultShards   = 8
	DefaultPort     = 7777
	DefaultDumpPath = "./ssache.dump"
)

// replicaList accumulates repeated "--replica host:port" occurrences,
// grounded on the standard flag.Value pattern for repeatable flags (there
// is no third-party flag library anywhere in the example pack, so this
// stays on the stdlib flag package per DESIGN.md).
type replicaList []string

func (r *replicaList) String() string {
	return fmt.Sprintf("%v", []string(*r))
}

func (r *replicaList) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// ServerConfig holds every setting a running ssache-server process needs.
//
// Configuration sources (in order of precedence):
//  1. Command-line flags: -s, -p, --dump, --replica, --snapshot-interval
//  2. Environment variables: LOG_LEVEL
//  3. Defaults
type ServerConfig struct {
	Shards            int      // number of shards, fixed for process lifetime (-s)
	Port              int      // TCP listen port (-p)
	DumpPath          string   // dump file path (--dump)
	Replicas          []string // replica host:port addresses (--replica, repeatable)
	SnapshotIntervalS int      // periodic SAVE interval in seconds, 0 disables (--snapshot-interval)
	LogLevel          string   // debug, info, warn, error (LOG_LEVEL)
}

// LoadServerConfig parses os.Args and the environment into a ServerConfig.
// It calls flag.Parse internally, matching the teacher's LoadServerConfig.
func LoadServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Shards:   DefaultShards,
		Port:     DefaultPort,
		DumpPath: DefaultDumpPath,
		LogLevel: "info",
	}

	var replicas replicaList
	flag.IntVar(&cfg.Shards, "s", cfg.Shards, "shard count")
	flag.IntVar(&cfg.Port, "p", cfg.Port, "listen port")
	flag.StringVar(&cfg.DumpPath, "dump", cfg.DumpPath, "dump file path")
	flag.Var(&replicas, "replica", "replica host:port (repeatable)")
	flag.IntVar(&cfg.SnapshotIntervalS, "snapshot-interval", cfg.SnapshotIntervalS, "periodic SAVE interval in seconds, 0 disables")
	flag.Parse()

	cfg.Replicas = []string(replicas)

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}

// Address returns the "host:port" string to bind the listener to.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks ServerConfig invariants, returning the first violation
// found.
func (c *ServerConfig) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("shard count must be positive: %d", c.Shards)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DumpPath == "" {
		return fmt.Errorf("dump path must not be empty")
	}
	if c.SnapshotIntervalS < 0 {
		return fmt.Errorf("snapshot interval must be non-negative: %d", c.SnapshotIntervalS)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	for _, r := range c.Replicas {
		if r == "" {
			return fmt.Errorf("empty replica address")
		}
	}

	return nil
}
