// Package wire turns a byte-oriented duplex stream into discrete text lines.
// It knows nothing about the game protocol: the session layer interprets the
// lines it produces.
package wire

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"
)

// DefaultTerminator is appended to outgoing lines. Incoming lines accept
// both \n and \r\n regardless of this setting, so Windows and Unix peers
// can talk to the same server.
const DefaultTerminator = "\r\n"

// Framer reads and writes text lines over a connection. Reads are performed
// one byte at a time; line traffic in this protocol is tiny and the cost is
// not a concern.
//
// A Framer is not safe for concurrent use; callers that share one (e.g. a
// session responding while a broadcast arrives) must serialize writes
// themselves.
type Framer struct {
	conn       net.Conn
	terminator string
	logger     *slog.Logger

	// standing read deadline restored after a timed read; zero means none
	deadline time.Time

	buf [1]byte
}

// Option configures a Framer.
type Option func(*Framer)

// WithTerminator overrides the outgoing line terminator.
func WithTerminator(t string) Option {
	return func(f *Framer) { f.terminator = t }
}

// WithLogger attaches a logger for transport-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Framer) { f.logger = logger }
}

// New creates a Framer over conn.
func New(conn net.Conn, opts ...Option) *Framer {
	f := &Framer{
		conn:       conn,
		terminator: DefaultTerminator,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ReadLine blocks until a full line arrives and returns it without its
// terminator. A lone \n is a valid empty line (ok=true, line=""): something
// was received, which is distinct from a disconnect. End of stream before a
// terminator discards any partial buffer and reports ok=false, whether the
// close was clean or abrupt; the two differ only in the logs.
func (f *Framer) ReadLine() (string, bool) {
	line, ok, _ := f.readLine()
	return line, ok
}

// ReadLineTimeout is ReadLine bounded by a wait duration. A timeout is
// reported separately from a disconnect so the caller can decide whether to
// retry. The framer's standing deadline is restored afterward regardless of
// outcome.
func (f *Framer) ReadLineTimeout(d time.Duration) (line string, ok bool, timedOut bool) {
	_ = f.conn.SetReadDeadline(time.Now().Add(d))
	defer func() { _ = f.conn.SetReadDeadline(f.deadline) }()
	return f.readLine()
}

func (f *Framer) readLine() (string, bool, bool) {
	var data []byte
	for {
		c, err := f.readByte()
		if err != nil {
			return "", false, f.classifyReadError(err)
		}
		if c == '\n' {
			break
		}
		data = append(data, c)
	}

	// strip one trailing \r so \r\n and \n terminated peers both work
	if n := len(data); n > 0 && data[n-1] == '\r' {
		data = data[:n-1]
	}
	return string(data), true, false
}

// classifyReadError logs the failure kind and reports whether it was a
// timeout rather than a disconnect.
func (f *Framer) classifyReadError(err error) bool {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		f.logger.Debug("connection closed by peer")
	case errors.Is(err, syscall.ECONNRESET):
		f.logger.Debug("connection reset by peer")
	case errors.As(err, &netErr) && netErr.Timeout():
		return true
	default:
		f.logger.Debug("read failed", slog.String("error", err.Error()))
	}
	return false
}

// ReadUntilSentinel consumes and discards bytes until the trailing bytes
// read so far equal the sentinel, e.g. to skip a prompt or banner before the
// payload line. Byte-at-a-time; fine for the short preambles it is meant for.
func (f *Framer) ReadUntilSentinel(sentinel string) bool {
	if sentinel == "" {
		return true
	}
	var tail strings.Builder
	for {
		c, err := f.readByte()
		if err != nil {
			f.classifyReadError(err)
			return false
		}
		tail.WriteByte(c)
		s := tail.String()
		if strings.HasSuffix(s, sentinel) {
			return true
		}
		// only the last len(sentinel) bytes can ever match
		if len(s) > len(sentinel) {
			trimmed := s[len(s)-len(sentinel):]
			tail.Reset()
			tail.WriteString(trimmed)
		}
	}
}

// WriteLine writes text followed by the configured terminator. A failure
// caused by the peer resetting or aborting the connection is reported as
// false and otherwise swallowed; the read side will observe the disconnect
// and end the session.
func (f *Framer) WriteLine(text string) bool {
	return f.write(text + f.terminator)
}

// WriteRaw writes text without appending the terminator.
func (f *Framer) WriteRaw(text string) bool {
	return f.write(text)
}

func (f *Framer) write(text string) bool {
	if _, err := f.conn.Write([]byte(text)); err != nil {
		switch {
		case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE), errors.Is(err, net.ErrClosed):
			f.logger.Debug("write to closed connection", slog.String("error", err.Error()))
		default:
			f.logger.Error("write failed", slog.String("error", err.Error()))
		}
		return false
	}
	return true
}

func (f *Framer) readByte() (byte, error) {
	for {
		n, err := f.conn.Read(f.buf[:])
		if n == 1 {
			return f.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
