package remote

import (
	"sync"
	"testing"

	"github.com/llehouerou/clemote/internal/protocol"
)

func TestMirror_SnapshotReplacesEverything(t *testing.T) {
	m := NewMirror(nil)

	// Seed some prior partial state.
	m.Apply(&protocol.Message{Type: protocol.TypeVolume, Volume: &protocol.Volume{Level: 10}})
	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{Title: "Old"}})

	m.Apply(&protocol.Message{Type: protocol.TypeSnapshot, Snapshot: &protocol.Snapshot{
		ServerVersion: "1.4.0",
		State:         "playing",
		Volume:        80,
		Position:      12,
		Track:         &protocol.Track{Title: "New", Artist: "Artist", Length: 200},
		Playlists: []protocol.Playlist{
			{ID: 1, Name: "Library", ItemCount: 340, Active: true},
			{ID: 2, Name: "Mix", ItemCount: 12},
		},
	}})

	snap := m.Snapshot()
	if !snap.FirstSnapshot {
		t.Error("FirstSnapshot = false after snapshot message")
	}
	if snap.Track == nil || snap.Track.Title != "New" {
		t.Errorf("Track = %+v, want title New", snap.Track)
	}
	if snap.State != PlayStatePlaying {
		t.Errorf("State = %v, want Playing", snap.State)
	}
	if snap.Volume != 80 {
		t.Errorf("Volume = %d, want 80", snap.Volume)
	}
	if snap.Position != 12 {
		t.Errorf("Position = %d, want 12", snap.Position)
	}
	if len(snap.Playlists) != 2 || snap.Playlists[0].Name != "Library" {
		t.Errorf("Playlists = %+v, want 2 entries starting with Library", snap.Playlists)
	}
	if snap.ActivePlaylist != 1 {
		t.Errorf("ActivePlaylist = %d, want 1", snap.ActivePlaylist)
	}
	if snap.ServerVersion != "1.4.0" {
		t.Errorf("ServerVersion = %q, want 1.4.0", snap.ServerVersion)
	}
}

func TestMirror_TrackMetadataResetsPosition(t *testing.T) {
	tests := []struct {
		name    string
		carried *protocol.Position
		want    int
	}{
		{"no carried position defaults to zero", nil, 0},
		{"carried position applied", &protocol.Position{Seconds: 37}, 37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMirror(nil)
			m.Apply(&protocol.Message{Type: protocol.TypePosition, Position: &protocol.Position{Seconds: 300}})

			m.Apply(&protocol.Message{
				Type:     protocol.TypeTrackMetadata,
				Track:    &protocol.Track{Title: "Next Track"},
				Position: tt.carried,
			})

			snap := m.Snapshot()
			if snap.Position != tt.want {
				t.Errorf("Position = %d, want %d", snap.Position, tt.want)
			}
			if snap.Track == nil || snap.Track.Title != "Next Track" {
				t.Errorf("Track = %+v, want Next Track", snap.Track)
			}
		})
	}
}

func TestMirror_TrackReplacedWholesale(t *testing.T) {
	m := NewMirror(nil)
	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{
		Title: "First", Artist: "A", Album: "Album", Rating: 4.5,
	}})
	// The second update omits most fields; they must not survive from
	// the first track.
	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{
		Title: "Second",
	}})

	snap := m.Snapshot()
	if snap.Track.Title != "Second" {
		t.Errorf("Title = %q, want Second", snap.Track.Title)
	}
	if snap.Track.Artist != "" || snap.Track.Album != "" || snap.Track.Rating != 0 {
		t.Errorf("stale fields survived replacement: %+v", snap.Track)
	}
}

func TestMirror_PositionTickLeavesTrackAlone(t *testing.T) {
	m := NewMirror(nil)
	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{Title: "Song"}})

	m.Apply(&protocol.Message{Type: protocol.TypePosition, Position: &protocol.Position{Seconds: 99}})

	snap := m.Snapshot()
	if snap.Position != 99 {
		t.Errorf("Position = %d, want 99", snap.Position)
	}
	if snap.Track == nil || snap.Track.Title != "Song" {
		t.Errorf("Track = %+v, want Song untouched", snap.Track)
	}
}

func TestMirror_VolumeClamped(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		m := NewMirror(nil)
		m.Apply(&protocol.Message{Type: protocol.TypeVolume, Volume: &protocol.Volume{Level: tt.raw}})
		if got := m.Snapshot().Volume; got != tt.want {
			t.Errorf("volume %d clamped to %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestMirror_TransportStatus(t *testing.T) {
	tests := []struct {
		wire string
		want PlayState
	}{
		{"playing", PlayStatePlaying},
		{"paused", PlayStatePaused},
		{"stopped", PlayStateStopped},
		{"empty", PlayStateStopped},
		{"warbling", PlayStateUnknown},
	}
	for _, tt := range tests {
		m := NewMirror(nil)
		m.Apply(&protocol.Message{Type: protocol.TypePlayerState, State: &protocol.StateUpdate{State: tt.wire}})
		if got := m.Snapshot().State; got != tt.want {
			t.Errorf("state %q = %v, want %v", tt.wire, got, tt.want)
		}
	}
}

func TestMirror_UnhandledCounted(t *testing.T) {
	m := NewMirror(nil)
	m.Apply(&protocol.Message{Type: protocol.Type("album.art")})
	m.Apply(&protocol.Message{Type: protocol.Type("lyrics.update")})
	m.Apply(&protocol.Message{Type: protocol.TypeKeepalive})

	// Known kinds with no mirror effect are not unhandled.
	m.Apply(&protocol.Message{Type: protocol.TypeAuthResult, AuthResult: &protocol.AuthResult{Accepted: true}})
	m.Apply(&protocol.Message{Type: protocol.TypePlay})

	snap := m.Snapshot()
	if snap.UnhandledCount != 2 {
		t.Errorf("UnhandledCount = %d, want 2", snap.UnhandledCount)
	}
	if snap.LastUpdate.IsZero() {
		t.Error("LastUpdate not stamped")
	}
}

func TestMirror_SnapshotIsACopy(t *testing.T) {
	m := NewMirror(nil)
	m.Apply(&protocol.Message{Type: protocol.TypePlaylists, Playlists: &protocol.PlaylistList{
		Playlists: []protocol.Playlist{{ID: 1, Name: "Library"}},
	}})
	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{Title: "Song"}})

	snap := m.Snapshot()
	snap.Playlists[0].Name = "mutated"
	snap.Track.Title = "mutated"

	again := m.Snapshot()
	if again.Playlists[0].Name != "Library" {
		t.Error("mutating a snapshot's playlists leaked into the mirror")
	}
	if again.Track.Title != "Song" {
		t.Error("mutating a snapshot's track leaked into the mirror")
	}
}

// Readers must never see a Track mixing fields of two different
// updates. Run with -race.
func TestMirror_ConcurrentReadsSeeWholeTracks(t *testing.T) {
	m := NewMirror(nil)

	const iterations = 2000
	var wg sync.WaitGroup

	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := m.Snapshot()
				if snap.Track == nil {
					continue
				}
				if snap.Track.Title != snap.Track.Artist {
					t.Errorf("torn track: title %q, artist %q", snap.Track.Title, snap.Track.Artist)
					return
				}
			}
		}()
	}

	names := []string{"alpha", "beta"}
	for i := 0; i < iterations; i++ {
		n := names[i%len(names)]
		m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{
			Title: n, Artist: n,
		}})
	}
	close(stop)
	wg.Wait()
}

func TestMirror_ShuffleRepeatActivePlaylist(t *testing.T) {
	m := NewMirror(nil)
	m.Apply(&protocol.Message{Type: protocol.TypeShuffle, Shuffle: &protocol.Shuffle{Mode: "albums"}})
	m.Apply(&protocol.Message{Type: protocol.TypeRepeat, Repeat: &protocol.Repeat{Mode: "track"}})
	m.Apply(&protocol.Message{Type: protocol.TypeActivePlaylist, Active: &protocol.ActiveChanged{PlaylistID: 7}})

	snap := m.Snapshot()
	if snap.Shuffle != "albums" {
		t.Errorf("Shuffle = %q, want albums", snap.Shuffle)
	}
	if snap.Repeat != "track" {
		t.Errorf("Repeat = %q, want track", snap.Repeat)
	}
	if snap.ActivePlaylist != 7 {
		t.Errorf("ActivePlaylist = %d, want 7", snap.ActivePlaylist)
	}
}

func TestMirror_PublishesEvents(t *testing.T) {
	pub := newPublisher()
	sub := pub.subscribe()
	m := NewMirror(pub)

	m.Apply(&protocol.Message{Type: protocol.TypeTrackMetadata, Track: &protocol.Track{Title: "Song"}})
	m.Apply(&protocol.Message{Type: protocol.TypeVolume, Volume: &protocol.Volume{Level: 42}})
	m.Apply(&protocol.Message{Type: protocol.TypePlayerState, State: &protocol.StateUpdate{State: "playing"}})

	select {
	case e := <-sub.TrackChanged:
		if e.Current == nil || e.Current.Title != "Song" {
			t.Errorf("TrackChanged = %+v, want Song", e)
		}
		if e.Previous != nil {
			t.Errorf("Previous = %+v, want nil for first track", e.Previous)
		}
	default:
		t.Error("no TrackChanged event")
	}
	select {
	case e := <-sub.VolumeChanged:
		if e.Level != 42 {
			t.Errorf("VolumeChanged = %d, want 42", e.Level)
		}
	default:
		t.Error("no VolumeChanged event")
	}
	select {
	case e := <-sub.StateChanged:
		if e.Current != PlayStatePlaying {
			t.Errorf("StateChanged = %v, want Playing", e.Current)
		}
	default:
		t.Error("no StateChanged event")
	}
}
