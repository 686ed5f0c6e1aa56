package remote

import "sync"

const eventBufferSize = 16

// Subscription provides event channels for one subscriber. Events are
// delivered best-effort: a full buffer drops the event rather than
// blocking the receive loop.
type Subscription struct {
	ConnChanged      <-chan ConnChange
	TrackChanged     <-chan TrackChange
	StateChanged     <-chan StateChange
	PositionChanged  <-chan PositionChange
	VolumeChanged    <-chan VolumeChange
	PlaylistsChanged <-chan PlaylistsChange
	Done             <-chan struct{}

	connCh      chan ConnChange
	trackCh     chan TrackChange
	stateCh     chan StateChange
	positionCh  chan PositionChange
	volumeCh    chan VolumeChange
	playlistsCh chan PlaylistsChange
	doneCh      chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		connCh:      make(chan ConnChange, eventBufferSize),
		trackCh:     make(chan TrackChange, eventBufferSize),
		stateCh:     make(chan StateChange, eventBufferSize),
		positionCh:  make(chan PositionChange, eventBufferSize),
		volumeCh:    make(chan VolumeChange, eventBufferSize),
		playlistsCh: make(chan PlaylistsChange, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.ConnChanged = s.connCh
	s.TrackChanged = s.trackCh
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.VolumeChanged = s.volumeCh
	s.PlaylistsChanged = s.playlistsCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// publisher fans events out to all live subscriptions. Subscriptions
// survive session teardown; they are closed only when the client stops.
type publisher struct {
	mu   sync.RWMutex
	subs []*Subscription
}

func newPublisher() *publisher {
	return &publisher{}
}

func (p *publisher) subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub := newSubscription()
	p.subs = append(p.subs, sub)
	return sub
}

func (p *publisher) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sub := range p.subs {
		sub.close()
	}
	p.subs = nil
}

func (p *publisher) conn(e ConnChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.connCh <- e:
		default:
		}
	}
}

func (p *publisher) track(e TrackChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.trackCh <- e:
		default:
		}
	}
}

func (p *publisher) state(e StateChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.stateCh <- e:
		default:
		}
	}
}

func (p *publisher) position(e PositionChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.positionCh <- e:
		default:
		}
	}
}

func (p *publisher) volume(e VolumeChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.volumeCh <- e:
		default:
		}
	}
}

func (p *publisher) playlists(e PlaylistsChange) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.subs {
		select {
		case sub.playlistsCh <- e:
		default:
		}
	}
}
