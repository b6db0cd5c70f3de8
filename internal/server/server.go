// Package server implements the SSache TCP front end: a Listener that
// accepts connections and spawns handlers, each dispatching inline text
// commands to a Store, plus the background Reaper and Replicators that
// share the Server's shutdown lifecycle (spec.md §4.F, §4.G).
//
// Grounded directly on the teacher's internal/server/server.go: the
// Start/Stop/listener-field shape, the net.ListenConfig dial, and the
// getCommandHandler dispatch-table pattern survive unchanged; only the
// command set and the wire codec underneath change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/ssache/ssache/internal/logging"
	"github.com/ssache/ssache/internal/reaper"
	"github.com/ssache/ssache/internal/replication"
	"github.com/ssache/ssache/internal/store"
)

// Server accepts SSache client connections and owns the background
// workers (Reaper, Replicators) that run alongside it for the life of
// the process.
type Server struct {
	store       *store.Store
	addr        string
	listener    net.Listener
	reaper      *reaper.Reaper
	replicators []*replication.Replicator
	logger      *logging.Logger
}

// New creates a Server bound to addr (e.g. ":7777") over st. If
// replicaAddrs is non-empty, one Replicator is created per address.
func New(addr string, st *store.Store, replicaAddrs []string) *Server {
	s := &Server{
		store:  st,
		addr:   addr,
		reaper: reaper.New(st),
		logger: logging.New(logging.LevelInfo),
	}
	for i, a := range replicaAddrs {
		s.replicators = append(s.replicators, replication.New(a, i, st))
	}
	return s
}

// SetLogger replaces the Server's logger, e.g. to apply the LOG_LEVEL
// configured at startup (SPEC_FULL.md §10.1).
func (s *Server) SetLogger(l *logging.Logger) {
	s.logger = l
}

// Start begins listening and background work, and blocks accepting
// connections until the listener is closed by Stop.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("ssache/server: listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	log.Printf("ssache server listening on %s", s.addr)

	ctx := context.Background()
	s.reaper.Start(ctx)
	for _, r := range s.replicators {
		r.Start(ctx)
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("ssache/server: accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Stop closes the listener (ending Start's accept loop) and waits for the
// reaper and every replicator to quiesce before returning, per spec.md
// §5's cancellation contract.
func (s *Server) Stop() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.reaper.Stop()
	for _, r := range s.replicators {
		r.Stop()
	}
	return err
}
