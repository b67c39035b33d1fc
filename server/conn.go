package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/divvydb/divvy/handler"
	"github.com/divvydb/divvy/rules"
	"github.com/divvydb/divvy/wire"
)

// errLineTooLong signals that a client sent more than cfg.MaxLineBytes
// before a newline.
var errLineTooLong = errors.New("line too long")

// handle drives one connection's FSM: READING -> PROCESSING -> REPLYING ->
// READING, until the client disconnects or a protocol error closes the
// connection. A panic while processing one line is recovered and reported
// as error.internal rather than taking the whole server down with it.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	s.sink.Gauge("connections", float64(atomic.AddInt64(&s.connCount, 1)))
	s.logger.Debug("connection opened", "addr", addr)
	defer func() {
		s.sink.Gauge("connections", float64(atomic.AddInt64(&s.connCount, -1)))
		s.logger.Debug("connection closed", "addr", addr)
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.readLine(reader)
		if err != nil {
			if err == errLineTooLong {
				s.sink.Increment("error.line-too-long")
				writer.WriteString(wire.FormatErr("line-too-long", "request line exceeds maximum length"))
				writer.Flush()
			}
			return
		}
		if line == "" {
			continue
		}

		reply, closeAfter := s.process(ctx, line)
		if _, err := writer.WriteString(reply); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}
		if closeAfter {
			return
		}
	}
}

func (s *Server) maxLineBytes() int {
	if s.cfg.MaxLineBytes > 0 {
		return s.cfg.MaxLineBytes
	}
	return 8 * 1024
}

// readLine reads one newline-terminated request a byte at a time, stripping
// the trailing \n and any \r before it. bufio.Reader.ReadString has no size
// limit of its own -- it keeps refilling its buffer and concatenating
// fragments until it finds the delimiter -- so the cap has to be enforced
// here rather than by the reader's buffer size, or an unterminated line
// would grow without bound instead of tripping error.line-too-long.
func (s *Server) readLine(r *bufio.Reader) (string, error) {
	max := s.maxLineBytes()
	buf := make([]byte, 0, 64)

	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			return trimEOL(string(buf)), nil
		}
		if len(buf) >= max {
			return "", errLineTooLong
		}
		buf = append(buf, b)
	}
}

func trimEOL(s string) string {
	n := len(s)
	if n > 0 && s[n-1] == '\n' {
		n--
	}
	if n > 0 && s[n-1] == '\r' {
		n--
	}
	return s[:n]
}

// process parses and dispatches one request line, recovering from any
// panic in the matcher/backend path as error.internal. The PROCESSING
// state must never bring the connection (or the server) down, though an
// internal error does close the offending connection once its reply is
// sent.
func (s *Server) process(ctx context.Context, line string) (reply string, closeAfter bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling request", "recover", r, "line", line)
			s.sink.Increment("error.internal")
			reply = wire.FormatErr("internal", "internal error")
			closeAfter = true
		}
	}()

	req, err := wire.ParseLine(line)
	if err != nil {
		s.sink.Increment("error.unknown")
		return wire.FormatErr("unknown", err.Error()), false
	}

	switch req.Command {
	case "HIT":
		return s.hit(ctx, req.Operation), false
	default:
		s.sink.Increment("error.unknown-command")
		return wire.FormatErr("unknown-command", "Unrecognized command: "+req.Command), false
	}
}

func (s *Server) hit(ctx context.Context, op rules.Operation) string {
	return handler.Hit(ctx, s.table, s.store, s.sink, op, s.cfg.FailOpen)
}
