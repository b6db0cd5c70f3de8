// Package protocol implements SSache's inline wire framing: inbound
// commands are a single line of whitespace-separated fields terminated by
// "\r\n" (a bare "\n" is tolerated), and outbound replies use RESP-ish type
// prefixes (spec.md §4.E).
//
// Grounded on the teacher's pkg/protocol (Command/Response structs, a
// Read*/Write* pair of functions) generalized from binary varint framing to
// the text framing spec.md mandates; exact reply bytes are grounded on
// _examples/original_source/src/main.rs's handle_request, which is the
// pre-distillation implementation of this same wire contract.
package protocol

import (
	"bufio"
	"fmt"
	"strings"
)

const crlf = "\r\n"

// Command is one parsed inline request: a verb and its arguments, with
// whitespace-splitting and verb case already normalized.
type Command struct {
	Verb string
	Args []string
}

// ReadCommand reads one inline command line from r, tolerating a bare "\n"
// terminator, and splits it on whitespace. It returns io.EOF (unwrapped,
// via bufio's own error) when the connection is closed with no further
// data, so callers can distinguish a clean disconnect from a malformed
// line.
func ReadCommand(r *bufio.Reader) (*Command, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	// A partial last line with no newline (err != nil but line != "") is
	// still parsed: real-world RESP-ish clients sometimes close right
	// after the final byte without a trailing terminator.
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errEmptyLine
	}
	return &Command{
		Verb: strings.ToUpper(fields[0]),
		Args: fields[1:],
	}, nil
}

var errEmptyLine = fmt.Errorf("ssache/protocol: empty command line")

// IsEmptyLine reports whether err is the sentinel ReadCommand returns for a
// line that contained only whitespace (distinct from a real I/O error).
func IsEmptyLine(err error) bool { return err == errEmptyLine }

// SimpleString encodes a RESP-ish simple string reply, e.g. "+OK\r\n".
func SimpleString(s string) []byte {
	return []byte("+" + s + crlf)
}

// BulkString encodes a bulk-string reply. The wire format is
// "$<len>\r\n+<payload>\r\n" — the leading "+" before payload is not a
// RESP convention; it is preserved because spec.md §4.E requires it for
// compatibility with existing ssache clients.
func BulkString(payload []byte) []byte {
	return []byte(fmt.Sprintf("$%d%s+%s%s", len(payload), crlf, payload, crlf))
}

// NilBulk encodes the absent-key reply. spec.md §9 resolves the open
// question between "$-1\r\n" and a bare "-1" line in favor of the RESP
// null-bulk encoding.
func NilBulk() []byte {
	return []byte("$-1" + crlf)
}

// Integer encodes an integer reply, e.g. ":42\r\n".
func Integer(n int64) []byte {
	return []byte(fmt.Sprintf(":%d%s", n, crlf))
}

// Error encodes an error reply. msg should not include the "ERR " prefix;
// Error adds it.
func Error(msg string) []byte {
	return []byte("-ERR " + msg + crlf)
}

// Pong encodes the no-argument PING reply.
func Pong() []byte {
	return SimpleString("PONG")
}
