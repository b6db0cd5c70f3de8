// Command ssache-server runs the SSache cache server: it loads
// configuration, builds the Store, and runs the TCP Listener (with its
// Reaper and Replicators) until a termination signal arrives.
//
// Grounded on the teacher's cmd/server/main.go for the
// load-config/validate/start/signal-wait/stop shape; the optional
// periodic SAVE loop is grounded on
// _examples/original_source/src/main.rs's enable_scheduled_save_job,
// translated from a clokwerk schedule to a plain time.Ticker goroutine to
// match the teacher's stdlib-only scheduling.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ssache/ssache/internal/logging"
	"github.com/ssache/ssache/internal/server"
	"github.com/ssache/ssache/internal/store"
	"github.com/ssache/ssache/pkg/config"
)

func main() {
	cfg := config.LoadServerConfig()

	if err := cfg.Validate(); err != nil {
		log.Printf("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Printf("starting ssache server with config: %+v", cfg)

	st := store.New(cfg.Shards, cfg.DumpPath, cfg.Replicas)

	srv := server.New(cfg.Address(), st, cfg.Replicas)
	srv.SetLogger(logging.New(logging.ParseLevel(cfg.LogLevel)))

	stopSnapshots := make(chan struct{})
	if cfg.SnapshotIntervalS > 0 {
		go runSnapshotLoop(st, time.Duration(cfg.SnapshotIntervalS)*time.Second, stopSnapshots)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
			close(stopSnapshots)
			os.Exit(2)
		}
	}

	close(stopSnapshots)
	if err := srv.Stop(); err != nil {
		log.Printf("error stopping server: %v", err)
	}

	log.Println("server stopped")
}

// runSnapshotLoop performs a SAVE on a fixed interval until stop is
// closed. Save errors are logged, not fatal: a missed snapshot should not
// bring the process down (spec.md §7's propagation policy treats store
// I/O errors as client/operator visible, not process-fatal).
func runSnapshotLoop(st *store.Store, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := st.Save(); err != nil {
				log.Printf("scheduled snapshot failed: %v", err)
			}
		}
	}
}
