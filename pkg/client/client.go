// Package client is a minimal SSache client: one TCP connection to one
// server, speaking the inline text protocol of internal/protocol.
//
// Trimmed down from the teacher's pkg/client.Client, which pooled
// connections across many nodes chosen by consistent hashing. SSache has
// no client-side cluster routing (spec.md's Non-goals exclude cluster
// membership/discovery), so the multi-node ConnectionPool collapses to a
// single persistent net.Conn; the dial-with-timeout and
// read/write-deadline shape is otherwise unchanged from the teacher.
// internal/replication reuses this client to talk to replicas.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultReadTimeout  = 30 * time.Second
)

// Options configures a Client. A zero timeout disables that timeout, so the
// zero value means no timeouts at all; DefaultOptions gives the defaults.
type Options struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
}

// DefaultOptions returns the teacher's default timeout values.
func DefaultOptions() Options {
	return Options{
		DialTimeout:  DefaultDialTimeout,
		WriteTimeout: DefaultWriteTimeout,
		ReadTimeout:  DefaultReadTimeout,
	}
}

// Client is a single connection to one SSache server.
type Client struct {
	addr string
	opts Options

	conn net.Conn
	r    *bufio.Reader
}

// Dial connects to addr ("host:port") with default options.
func Dial(addr string) (*Client, error) {
	return DialWithOptions(addr, DefaultOptions())
}

// DialWithOptions connects to addr with custom timeouts.
func DialWithOptions(addr string, opts Options) (*Client, error) {
	dialer := &net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ssache/client: dial %s: %w", addr, err)
	}
	return &Client{addr: addr, opts: opts, conn: conn, r: bufio.NewReader(conn)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// sendLine writes one command line terminated by "\r\n"; the caller reads
// and parses the reply with readLine.
func (c *Client) sendLine(line string) error {
	if c.opts.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	}
	_, err := c.conn.Write([]byte(line + "\r\n"))
	return err
}

func (c *Client) readLine() (string, error) {
	if c.opts.ReadTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func replyErr(line string) error {
	if strings.HasPrefix(line, "-") {
		return fmt.Errorf("ssache/client: %s", strings.TrimPrefix(line, "-"))
	}
	return nil
}

// Get fetches a key. ok is false if the key is absent.
func (c *Client) Get(key string) (value string, ok bool, err error) {
	if err := c.sendLine("GET " + key); err != nil {
		return "", false, err
	}
	header, err := c.readLine()
	if err != nil {
		return "", false, err
	}
	if header == "$-1" {
		return "", false, nil
	}
	if err := replyErr(header); err != nil {
		return "", false, err
	}
	payload, err := c.readLine()
	if err != nil {
		return "", false, err
	}
	return strings.TrimPrefix(payload, "+"), true, nil
}

// Set stores a key/value pair.
func (c *Client) Set(key, value string) error {
	if err := c.sendLine("SET " + key + " " + value); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return err
	}
	return replyErr(line)
}

// Expire sets a TTL (in milliseconds) on an existing key.
func (c *Client) Expire(key string, ttlMillis int64) error {
	if err := c.sendLine(fmt.Sprintf("EXPIRE %s %d", key, ttlMillis)); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return err
	}
	return replyErr(line)
}

func (c *Client) intCommand(line string) (int64, error) {
	if err := c.sendLine(line); err != nil {
		return 0, err
	}
	reply, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if err := replyErr(reply); err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimPrefix(reply, ":"), 10, 64)
}

// Incr atomically increments key by one, returning the new value.
func (c *Client) Incr(key string) (int64, error) {
	return c.intCommand("INCR " + key)
}

// Decr atomically decrements key by one, returning the new value.
func (c *Client) Decr(key string) (int64, error) {
	return c.intCommand("DECR " + key)
}

// Save triggers a server-side SAVE to its configured dump file.
func (c *Client) Save() error {
	if err := c.sendLine("SAVE"); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return err
	}
	return replyErr(line)
}

// Load triggers a server-side LOAD from its configured dump file.
func (c *Client) Load() error {
	if err := c.sendLine("LOAD"); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return err
	}
	return replyErr(line)
}

// Ping checks server liveness.
func (c *Client) Ping() error {
	if err := c.sendLine("PING"); err != nil {
		return err
	}
	line, err := c.readLine()
	if err != nil {
		return err
	}
	return replyErr(line)
}

// Quit tells the server to close the connection, then closes our end.
func (c *Client) Quit() error {
	if err := c.sendLine("QUIT"); err != nil {
		return err
	}
	_, _ = c.readLine()
	return c.Close()
}
