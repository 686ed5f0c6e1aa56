package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/protocol"
)

const (
	readBufferSize = 4096
	writeTimeout   = 10 * time.Second
	closeWait      = 5 * time.Second
)

// Config describes how to reach and supervise the remote player.
type Config struct {
	Host     string
	Port     int
	AuthCode int // 0 means the player requires no auth

	Reconnect      bool
	ReconnectDelay time.Duration

	ConnectTimeout time.Duration
	AuthTimeout    time.Duration
}

// Addr returns the host:port dial address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 5500
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 15 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.AuthTimeout <= 0 {
		c.AuthTimeout = 5 * time.Second
	}
	return c
}

// Session is one live connection to the player: the socket, the
// receive loop feeding the mirror, and the command-send side. The
// Client owns session lifecycle exclusively.
type Session struct {
	cfg    Config
	mirror *Mirror
	pub    *publisher
	log    *zap.Logger

	dec *protocol.Decoder

	// writeMu serializes frame writes so concurrent sends cannot
	// interleave bytes of two frames.
	writeMu sync.Mutex

	mu     sync.Mutex
	state  ConnState
	conn   net.Conn
	cause  error
	closed bool

	done     chan struct{}
	doneOnce sync.Once
}

func newSession(cfg Config, mirror *Mirror, pub *publisher, log *zap.Logger) *Session {
	return &Session{
		cfg:    cfg,
		mirror: mirror,
		pub:    pub,
		log:    log,
		dec:    protocol.NewDecoder(),
		state:  Disconnected,
		done:   make(chan struct{}),
	}
}

// Connect opens the transport, performs the handshake and, on success,
// starts the receive loop. It blocks at most ConnectTimeout +
// AuthTimeout.
func (s *Session) Connect(ctx context.Context) error {
	s.setState(Connecting, nil)

	dialer := net.Dialer{Timeout: s.cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		err = fmt.Errorf("connect %s: %w", s.cfg.Addr(), err)
		s.fail(err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		err := fmt.Errorf("connect %s: session closed", s.cfg.Addr())
		s.fail(err)
		return err
	}
	s.conn = conn
	s.mu.Unlock()

	// The handshake is always sent; it carries auth code 0 when the
	// player requires none.
	if err := s.writeMessage(conn, connectMessage(s.cfg.AuthCode)); err != nil {
		conn.Close()
		s.fail(err)
		return err
	}

	if s.cfg.AuthCode != 0 {
		s.setState(Authenticating, nil)
		if err := s.awaitAuth(conn); err != nil {
			conn.Close()
			s.fail(err)
			return err
		}
	}

	s.setState(Connected, nil)
	go s.receiveLoop(conn)
	return nil
}

// awaitAuth reads frames until the auth result arrives, applying any
// state messages the player sends ahead of it. Bounded by AuthTimeout.
func (s *Session) awaitAuth(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.AuthTimeout)); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	defer conn.SetReadDeadline(time.Time{})

	buf := make([]byte, readBufferSize)
	for {
		for {
			msg, err := s.dec.Next()
			if err != nil {
				return fmt.Errorf("authenticate: %w", err)
			}
			if msg == nil {
				break
			}
			if msg.Type == protocol.TypeAuthResult {
				if msg.AuthResult == nil || !msg.AuthResult.Accepted {
					reason := ""
					if msg.AuthResult != nil {
						reason = msg.AuthResult.Reason
					}
					if reason != "" {
						return fmt.Errorf("%w: %s", ErrAuthRejected, reason)
					}
					return ErrAuthRejected
				}
				return nil
			}
			// State updates may precede the auth result; keep order.
			s.mirror.Apply(msg)
		}

		n, err := conn.Read(buf)
		if n > 0 {
			s.dec.Feed(buf[:n])
		}
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				return ErrAuthTimeout
			}
			return fmt.Errorf("authenticate: %w", err)
		}
	}
}

// receiveLoop reads the transport until it closes or a frame cannot be
// decoded. Every exit path flips the session to Disconnected so
// readers observe the disconnection; the loop itself never panics out.
func (s *Session) receiveLoop(conn net.Conn) {
	defer s.doneOnce.Do(func() { close(s.done) })

	// Messages coalesced into the same read as the auth result are
	// still buffered in the decoder; apply them before blocking on the
	// transport, or they would sit there until the next byte arrives.
	if derr := s.drainDecoder(); derr != nil {
		s.log.Warn("receive loop: fatal decode error", zap.Error(derr))
		conn.Close()
		s.fail(derr)
		return
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			s.dec.Feed(buf[:n])
			if derr := s.drainDecoder(); derr != nil {
				s.log.Warn("receive loop: fatal decode error", zap.Error(derr))
				conn.Close()
				s.fail(derr)
				return
			}
		}
		if err != nil {
			cause := err
			if errors.Is(err, io.EOF) {
				cause = ErrConnectionClosed
			}
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				// Deliberate teardown, not a transport fault.
				s.setState(Disconnected, nil)
			} else {
				s.log.Info("receive loop: transport closed", zap.Error(cause))
				s.fail(cause)
			}
			return
		}
	}
}

func (s *Session) drainDecoder() error {
	for {
		msg, err := s.dec.Next()
		if err != nil {
			return err
		}
		if msg == nil {
			return nil
		}
		if !msg.Known() {
			s.log.Debug("unhandled message", zap.String("type", string(msg.Type)))
		}
		s.mirror.Apply(msg)
	}
}

// Send encodes the command and writes one frame. It returns
// ErrNotConnected when the session is not Connected; it never blocks
// waiting for a connection.
func (s *Session) Send(cmd Command) error {
	msg, err := cmd.message()
	if err != nil {
		return err
	}

	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()
	if state != Connected || conn == nil {
		return ErrNotConnected
	}
	return s.writeMessage(conn, msg)
}

func (s *Session) writeMessage(conn net.Conn, msg *protocol.Message) error {
	frame, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// Close tears the session down: it closes the socket, which unblocks
// the pending read, and waits (bounded) for the receive loop to exit.
// Safe to call from any goroutine, idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	started := s.state == Connected
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if started {
		select {
		case <-s.done:
		case <-time.After(closeWait):
			s.log.Warn("receive loop did not exit within close wait")
		}
	}
	s.setState(Disconnected, nil)
	s.doneOnce.Do(func() { close(s.done) })
	return nil
}

// Done is closed once the session has fully stopped: either the
// receive loop exited or Connect failed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the disconnect cause, nil for a clean Close.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// State returns the current connection state.
func (s *Session) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// fail records the disconnect cause and transitions to Disconnected.
func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.cause == nil {
		s.cause = err
	}
	s.mu.Unlock()
	s.setState(Disconnected, err)
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Session) setState(next ConnState, cause error) {
	s.mu.Lock()
	prev := s.state
	if prev == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.log.Debug("session state",
		zap.String("from", prev.String()),
		zap.String("to", next.String()))
	if s.pub != nil {
		s.pub.conn(ConnChange{Previous: prev, Current: next, Err: cause})
	}
}
