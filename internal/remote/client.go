package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client supervises sessions against one player: it connects,
// authenticates, hands out state snapshots, and, when configured,
// reconnects with a fixed delay until Stop is called.
type Client struct {
	cfg Config
	log *zap.Logger
	pub *publisher

	mu     sync.RWMutex
	mirror *Mirror
	sess   *Session

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
	lastErr error
}

// New creates a client for the given config. The zero values of Config
// fall back to localhost:5500, a 15s reconnect delay and sane timeouts.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cfg = cfg.withDefaults()
	return &Client{
		cfg:    cfg,
		log:    log.Named("remote"),
		pub:    newPublisher(),
		mirror: NewMirror(nil),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the supervisor loop. The first connection attempt
// happens in the background; observe progress via ConnState,
// Subscribe or WaitFirstSnapshot.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	if c.stopped {
		return fmt.Errorf("start: client already stopped")
	}
	c.started = true
	go c.run()
	return nil
}

// run is the supervisor loop: one session per iteration, a fresh
// mirror per session, cancellable reconnect delay in between.
func (c *Client) run() {
	defer close(c.done)

	for {
		mirror := NewMirror(c.pub)
		sess := newSession(c.cfg, mirror, c.pub, c.log)

		c.mu.Lock()
		c.mirror = mirror
		c.sess = sess
		c.mu.Unlock()

		err := sess.Connect(c.ctx)
		if err == nil {
			select {
			case <-sess.Done():
				err = sess.Err()
			case <-c.ctx.Done():
				sess.Close()
				return
			}
		}

		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()

		if err != nil {
			c.log.Info("session ended", zap.Error(err))
		}
		if !c.cfg.Reconnect {
			return
		}

		select {
		case <-time.After(c.cfg.ReconnectDelay):
		case <-c.ctx.Done():
			return
		}
	}
}

// Stop terminates the current session, suppresses further reconnect
// attempts and waits (bounded) for the supervisor to exit. Idempotent;
// on return no further mirror writes occur.
func (c *Client) Stop() error {
	c.mu.Lock()
	alreadyStopped := c.stopped
	c.stopped = true
	started := c.started
	sess := c.sess
	c.mu.Unlock()

	if alreadyStopped {
		return nil
	}

	c.cancel()
	if sess != nil {
		sess.Close()
	}
	if started {
		select {
		case <-c.done:
		case <-time.After(closeWait):
			c.log.Warn("supervisor did not exit within close wait")
		}
	}
	c.pub.closeAll()
	return nil
}

// Send issues a command on the current session. Returns
// ErrNotConnected when no session is connected.
func (c *Client) Send(cmd Command) error {
	c.mu.RLock()
	sess := c.sess
	stopped := c.stopped
	c.mu.RUnlock()
	if stopped || sess == nil {
		// Validate anyway so callers get the local error first.
		if _, err := cmd.message(); err != nil {
			return err
		}
		return ErrNotConnected
	}
	return sess.Send(cmd)
}

// Snapshot returns a read-consistent copy of the mirrored player
// state, including the connection state.
func (c *Client) Snapshot() PlayerState {
	c.mu.RLock()
	mirror, sess := c.mirror, c.sess
	c.mu.RUnlock()

	snap := mirror.Snapshot()
	snap.ConnState = Disconnected
	if sess != nil {
		snap.ConnState = sess.State()
	}
	return snap
}

// ConnState returns the current connection state.
func (c *Client) ConnState() ConnState {
	c.mu.RLock()
	sess := c.sess
	c.mu.RUnlock()
	if sess == nil {
		return Disconnected
	}
	return sess.State()
}

// LastErr returns the most recent session error, nil if none.
func (c *Client) LastErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Subscribe returns a subscription receiving change events across
// reconnects. It is closed when the client stops.
func (c *Client) Subscribe() *Subscription {
	return c.pub.subscribe()
}

// WaitFirstSnapshot blocks until the player has sent its initial full
// snapshot, the context expires, or the client stops.
func (c *Client) WaitFirstSnapshot(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.Snapshot().FirstSnapshot {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ctx.Done():
			return fmt.Errorf("wait for snapshot: client stopped")
		case <-c.done:
			if err := c.LastErr(); err != nil {
				return fmt.Errorf("wait for snapshot: %w", err)
			}
			return fmt.Errorf("wait for snapshot: session ended")
		case <-ticker.C:
		}
	}
}

// WaitConnected blocks until a session reaches Connected, the context
// expires, or the client stops.
func (c *Client) WaitConnected(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		if c.ConnState() == Connected {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ctx.Done():
			return fmt.Errorf("wait for connection: client stopped")
		case <-c.done:
			if err := c.LastErr(); err != nil {
				return fmt.Errorf("wait for connection: %w", err)
			}
			return fmt.Errorf("wait for connection: session ended")
		case <-ticker.C:
		}
	}
}
