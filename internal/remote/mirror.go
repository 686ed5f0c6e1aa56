package remote

import (
	"sync"
	"time"

	"github.com/llehouerou/clemote/internal/protocol"
)

// Mirror holds the reconstructed view of remote player state.
//
// Apply is called only by the session's receive loop (single writer);
// Snapshot may be called concurrently from any goroutine and never
// observes a half-applied update. A fresh Mirror is created per
// session so stale readers never see a state reset mid-read.
type Mirror struct {
	mu sync.RWMutex

	serverVersion  string
	state          PlayState
	volume         int
	position       int
	track          *Track
	playlists      []Playlist
	activePlaylist int
	shuffle        string
	repeat         string
	firstSnapshot  bool
	unhandled      int
	lastUpdate     time.Time

	pub *publisher
}

// NewMirror returns an empty mirror publishing change events through
// pub. A nil pub disables event publication.
func NewMirror(pub *publisher) *Mirror {
	return &Mirror{pub: pub}
}

// Apply mutates the mirror according to the message kind. Messages
// must be applied in exact arrival order.
func (m *Mirror) Apply(msg *protocol.Message) {
	m.mu.Lock()
	m.lastUpdate = time.Now()

	var events []func()
	switch msg.Type {
	case protocol.TypeSnapshot:
		events = m.applySnapshot(msg.Snapshot)
	case protocol.TypeTrackMetadata:
		events = m.applyTrack(msg.Track, msg.Position)
	case protocol.TypePosition:
		events = m.applyPosition(msg.Position)
	case protocol.TypeVolume:
		events = m.applyVolume(msg.Volume)
	case protocol.TypePlayerState:
		events = m.applyState(msg.State)
	case protocol.TypeShuffle:
		if msg.Shuffle != nil {
			m.shuffle = msg.Shuffle.Mode
		}
	case protocol.TypeRepeat:
		if msg.Repeat != nil {
			m.repeat = msg.Repeat.Mode
		}
	case protocol.TypePlaylists:
		events = m.applyPlaylists(msg.Playlists)
	case protocol.TypeActivePlaylist:
		if msg.Active != nil {
			m.activePlaylist = msg.Active.PlaylistID
		}
	case protocol.TypeKeepalive:
		// Liveness only; lastUpdate is already refreshed.
	default:
		// Auth results and echoed command types are known kinds with
		// no mirror effect; only genuinely unknown kinds count.
		if !msg.Known() {
			m.unhandled++
		}
	}
	m.mu.Unlock()

	// Publish outside the lock so slow subscribers cannot stall
	// concurrent readers.
	for _, emit := range events {
		emit()
	}
}

func (m *Mirror) applySnapshot(s *protocol.Snapshot) []func() {
	if s == nil {
		return nil
	}
	var events []func()

	prevTrack := m.track
	prevState := m.state

	m.serverVersion = s.ServerVersion
	m.state = parsePlayState(s.State)
	m.volume = clampVolume(s.Volume)
	m.position = s.Position
	m.track = trackFromWire(s.Track)
	m.playlists = playlistsFromWire(s.Playlists)
	m.activePlaylist = activeID(m.playlists)
	m.firstSnapshot = true

	if m.pub != nil {
		track, state := m.track, m.state
		playlists := copyPlaylists(m.playlists)
		if !sameTrack(prevTrack, track) {
			events = append(events, func() { m.pub.track(TrackChange{Previous: prevTrack, Current: track}) })
		}
		if prevState != state {
			events = append(events, func() { m.pub.state(StateChange{Previous: prevState, Current: state}) })
		}
		events = append(events, func() { m.pub.playlists(PlaylistsChange{Playlists: playlists}) })
	}
	return events
}

func (m *Mirror) applyTrack(t *protocol.Track, pos *protocol.Position) []func() {
	if t == nil {
		return nil
	}
	prev := m.track
	m.track = trackFromWire(t)

	// A metadata message implies a track boundary: position resets to
	// the carried value, zero when absent.
	m.position = 0
	if pos != nil {
		m.position = pos.Seconds
	}

	if m.pub == nil {
		return nil
	}
	track := m.track
	seconds := m.position
	return []func(){
		func() { m.pub.track(TrackChange{Previous: prev, Current: track}) },
		func() { m.pub.position(PositionChange{Seconds: seconds}) },
	}
}

func (m *Mirror) applyPosition(p *protocol.Position) []func() {
	if p == nil {
		return nil
	}
	m.position = p.Seconds
	if m.pub == nil {
		return nil
	}
	seconds := p.Seconds
	return []func(){func() { m.pub.position(PositionChange{Seconds: seconds}) }}
}

func (m *Mirror) applyVolume(v *protocol.Volume) []func() {
	if v == nil {
		return nil
	}
	m.volume = clampVolume(v.Level)
	if m.pub == nil {
		return nil
	}
	level := m.volume
	return []func(){func() { m.pub.volume(VolumeChange{Level: level}) }}
}

func (m *Mirror) applyState(s *protocol.StateUpdate) []func() {
	if s == nil {
		return nil
	}
	prev := m.state
	m.state = parsePlayState(s.State)
	if m.pub == nil || prev == m.state {
		return nil
	}
	cur := m.state
	return []func(){func() { m.pub.state(StateChange{Previous: prev, Current: cur}) }}
}

func (m *Mirror) applyPlaylists(pl *protocol.PlaylistList) []func() {
	if pl == nil {
		return nil
	}
	m.playlists = playlistsFromWire(pl.Playlists)
	m.activePlaylist = activeID(m.playlists)
	if m.pub == nil {
		return nil
	}
	playlists := copyPlaylists(m.playlists)
	return []func(){func() { m.pub.playlists(PlaylistsChange{Playlists: playlists}) }}
}

// Snapshot returns a read-consistent copy of the mirrored state.
func (m *Mirror) Snapshot() PlayerState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := PlayerState{
		ServerVersion:  m.serverVersion,
		State:          m.state,
		Volume:         m.volume,
		Position:       m.position,
		Playlists:      copyPlaylists(m.playlists),
		ActivePlaylist: m.activePlaylist,
		Shuffle:        m.shuffle,
		Repeat:         m.repeat,
		FirstSnapshot:  m.firstSnapshot,
		UnhandledCount: m.unhandled,
		LastUpdate:     m.lastUpdate,
	}
	if m.track != nil {
		track := *m.track
		snap.Track = &track
	}
	return snap
}

func activeID(pls []Playlist) int {
	for _, p := range pls {
		if p.Active {
			return p.ID
		}
	}
	return 0
}

func copyPlaylists(pls []Playlist) []Playlist {
	if pls == nil {
		return nil
	}
	out := make([]Playlist, len(pls))
	copy(out, pls)
	return out
}

func sameTrack(a, b *Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Title == b.Title && a.Filename == b.Filename
}
