package server

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/ssache/ssache/internal/protocol"
	"github.com/ssache/ssache/internal/store"
)

func parseMillis(s string) (time.Duration, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// handleConnection runs the read-dispatch-reply loop for one client,
// grounded on the teacher's handleConnection: per-iteration read/write
// deadlines, one goroutine per connection, loop until the client
// disconnects or a handler signals QUIT.
func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("ssache/server: error closing connection: %v", err)
		}
	}()

	r := bufio.NewReader(conn)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}

		cmd, err := protocol.ReadCommand(r)
		if err != nil {
			if protocol.IsEmptyLine(err) {
				continue
			}
			if !errors.Is(err, io.EOF) {
				log.Printf("ssache/server: read error: %v", err)
			}
			return
		}

		reply, quit := s.dispatch(cmd)

		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}
		if _, err := conn.Write(reply); err != nil {
			log.Printf("ssache/server: write error: %v", err)
			return
		}
		if quit {
			return
		}
	}
}

// dispatch routes cmd to its handler and reports whether the connection
// should close after the reply is flushed (true only for QUIT).
func (s *Server) dispatch(cmd *protocol.Command) (reply []byte, quit bool) {
	s.logger.Debugf("dispatch %s %v", cmd.Verb, cmd.Args)

	handler, ok := s.handlers()[cmd.Verb]
	if !ok {
		return protocol.Error("unknown command"), false
	}
	return handler(cmd.Args)
}

func (s *Server) handlers() map[string]func([]string) ([]byte, bool) {
	return map[string]func([]string) ([]byte, bool){
		"PING":   s.handlePing,
		"GET":    s.handleGet,
		"SET":    s.handleSet,
		"EXPIRE": s.handleExpire,
		"INCR":   s.handleIncr,
		"DECR":   s.handleDecr,
		"SAVE":   s.handleSave,
		"LOAD":   s.handleLoad,
		"QUIT":   s.handleQuit,
	}
}

func (s *Server) handlePing(args []string) ([]byte, bool) {
	if len(args) == 1 {
		return protocol.BulkString([]byte(args[0])), false
	}
	return protocol.Pong(), false
}

func (s *Server) handleGet(args []string) ([]byte, bool) {
	if len(args) != 1 {
		return protocol.Error("wrong number of arguments"), false
	}
	v, ok := s.store.Get(args[0])
	if !ok {
		return protocol.NilBulk(), false
	}
	return protocol.BulkString(v), false
}

func (s *Server) handleSet(args []string) ([]byte, bool) {
	if len(args) != 2 {
		return protocol.Error("wrong number of arguments"), false
	}
	s.store.Set(args[0], []byte(args[1]))
	return protocol.SimpleString("OK"), false
}

func (s *Server) handleExpire(args []string) ([]byte, bool) {
	if len(args) != 2 {
		return protocol.Error("wrong number of arguments"), false
	}
	ttlMs, err := parseMillis(args[1])
	if err != nil {
		return protocol.Error("invalid ttl"), false
	}
	if err := s.store.Expire(args[0], ttlMs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return protocol.Error(err.Error()), false
		}
		return protocol.Error(err.Error()), false
	}
	return protocol.SimpleString("OK"), false
}

func (s *Server) handleIncr(args []string) ([]byte, bool) {
	return s.incrDecr(args, s.store.Incr)
}

func (s *Server) handleDecr(args []string) ([]byte, bool) {
	return s.incrDecr(args, s.store.Decr)
}

func (s *Server) incrDecr(args []string, op func(string) (int64, error)) ([]byte, bool) {
	if len(args) != 1 {
		return protocol.Error("wrong number of arguments"), false
	}
	v, err := op(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotInteger) {
			return protocol.Error("value is not an integer"), false
		}
		return protocol.Error(err.Error()), false
	}
	return protocol.Integer(v), false
}

func (s *Server) handleSave(args []string) ([]byte, bool) {
	if err := s.store.Save(); err != nil {
		log.Printf("ssache/server: SAVE failed: %v", err)
		return protocol.Error("io_error: " + err.Error()), false
	}
	return protocol.SimpleString("OK"), false
}

func (s *Server) handleLoad(args []string) ([]byte, bool) {
	if err := s.store.Load(); err != nil {
		log.Printf("ssache/server: LOAD failed: %v", err)
		if errors.Is(err, store.ErrBadDumpFormat) {
			return protocol.Error(err.Error()), false
		}
		return protocol.Error("io_error: " + err.Error()), false
	}
	return protocol.SimpleString("OK"), false
}

func (s *Server) handleQuit(args []string) ([]byte, bool) {
	return protocol.SimpleString("OK"), true
}
