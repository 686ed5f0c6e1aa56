package scrobble

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
	"github.com/llehouerou/clemote/internal/state"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func TestShouldScrobble(t *testing.T) {
	tests := []struct {
		name     string
		position time.Duration
		duration time.Duration
		want     bool
	}{
		{"too short", 25 * time.Second, 29 * time.Second, false},
		{"half of short track", 16 * time.Second, 31 * time.Second, true},
		{"before half", 100 * time.Second, 400 * time.Second, false},
		{"at half", 200 * time.Second, 400 * time.Second, true},
		{"long track before cap", 3 * time.Minute, 20 * time.Minute, false},
		{"long track at cap", 4 * time.Minute, 20 * time.Minute, true},
		{"zero duration", time.Minute, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldScrobble(tt.position, tt.duration); got != tt.want {
				t.Errorf("shouldScrobble(%v, %v) = %v, want %v", tt.position, tt.duration, got, tt.want)
			}
		})
	}
}

// fakeSubmitter records submissions and can be told to fail.
type fakeSubmitter struct {
	authenticated bool
	failScrobble  bool

	nowPlaying []Track
	scrobbles  []Track
}

func (f *fakeSubmitter) IsAuthenticated() bool { return f.authenticated }

func (f *fakeSubmitter) UpdateNowPlaying(track Track) error {
	f.nowPlaying = append(f.nowPlaying, track)
	return nil
}

func (f *fakeSubmitter) Scrobble(track Track) error {
	if f.failScrobble {
		return errors.New("api unavailable")
	}
	f.scrobbles = append(f.scrobbles, track)
	return nil
}

func testStore(t *testing.T) *state.Manager {
	t.Helper()
	m, err := state.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func testTrack() *remote.Track {
	return &remote.Track{
		Title:  "Born Slippy",
		Artist: "Underworld",
		Album:  "Trainspotting",
		Length: 443 * time.Second,
	}
}

func TestScrobbler_TrackChangeSendsNowPlaying(t *testing.T) {
	sub := &fakeSubmitter{authenticated: true}
	s := &Scrobbler{client: sub, log: nopLogger()}

	s.trackChanged(testTrack())

	if len(sub.nowPlaying) != 1 {
		t.Fatalf("got %d now playing updates, want 1", len(sub.nowPlaying))
	}
	if sub.nowPlaying[0].Artist != "Underworld" || sub.nowPlaying[0].Title != "Born Slippy" {
		t.Errorf("unexpected now playing: %+v", sub.nowPlaying[0])
	}
}

func TestScrobbler_NotAuthenticated(t *testing.T) {
	sub := &fakeSubmitter{authenticated: false}
	s := &Scrobbler{client: sub, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(400)

	if len(sub.nowPlaying) != 0 || len(sub.scrobbles) != 0 {
		t.Errorf("unauthenticated scrobbler submitted: %d now playing, %d scrobbles",
			len(sub.nowPlaying), len(sub.scrobbles))
	}
}

func TestScrobbler_ScrobblesOncePerTrack(t *testing.T) {
	sub := &fakeSubmitter{authenticated: true}
	s := &Scrobbler{client: sub, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(100) // before threshold
	if len(sub.scrobbles) != 0 {
		t.Fatalf("scrobbled before threshold: %+v", sub.scrobbles)
	}

	s.positionChanged(240) // past half the track
	if len(sub.scrobbles) != 1 {
		t.Fatalf("got %d scrobbles, want 1", len(sub.scrobbles))
	}

	s.positionChanged(300)
	s.positionChanged(400)
	if len(sub.scrobbles) != 1 {
		t.Errorf("got %d scrobbles after further ticks, want 1", len(sub.scrobbles))
	}

	got := sub.scrobbles[0]
	if got.Artist != "Underworld" || got.Title != "Born Slippy" || got.Album != "Trainspotting" {
		t.Errorf("unexpected scrobble: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("scrobble should carry the playback start time")
	}
}

func TestScrobbler_NewTrackResetsState(t *testing.T) {
	sub := &fakeSubmitter{authenticated: true}
	s := &Scrobbler{client: sub, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(240)

	next := testTrack()
	next.Title = "Rez"
	s.trackChanged(next)
	s.positionChanged(240)

	if len(sub.scrobbles) != 2 {
		t.Fatalf("got %d scrobbles, want 2", len(sub.scrobbles))
	}
	if sub.scrobbles[1].Title != "Rez" {
		t.Errorf("second scrobble = %q, want %q", sub.scrobbles[1].Title, "Rez")
	}
}

func TestScrobbler_FailedScrobbleQueued(t *testing.T) {
	store := testStore(t)
	sub := &fakeSubmitter{authenticated: true, failScrobble: true}
	s := &Scrobbler{client: sub, store: store, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(240)

	pending, err := store.GetPendingScrobbles()
	if err != nil {
		t.Fatalf("GetPendingScrobbles failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending scrobbles, want 1", len(pending))
	}
	if pending[0].Artist != "Underworld" || pending[0].Track != "Born Slippy" {
		t.Errorf("unexpected pending scrobble: %+v", pending[0])
	}
}

func TestScrobbler_RetrySubmitsQueued(t *testing.T) {
	store := testStore(t)
	sub := &fakeSubmitter{authenticated: true, failScrobble: true}
	s := &Scrobbler{client: sub, store: store, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(240)

	// The API comes back; the retry pass should flush the queue.
	sub.failScrobble = false
	s.retryPending()

	if len(sub.scrobbles) != 1 {
		t.Fatalf("got %d scrobbles after retry, want 1", len(sub.scrobbles))
	}
	pending, _ := store.GetPendingScrobbles()
	if len(pending) != 0 {
		t.Errorf("got %d pending scrobbles after retry, want 0", len(pending))
	}
}

func TestScrobbler_RetryRecordsFailure(t *testing.T) {
	store := testStore(t)
	sub := &fakeSubmitter{authenticated: true, failScrobble: true}
	s := &Scrobbler{client: sub, store: store, log: nopLogger()}

	s.trackChanged(testTrack())
	s.positionChanged(240)
	s.retryPending()

	pending, _ := store.GetPendingScrobbles()
	if len(pending) != 1 {
		t.Fatalf("got %d pending scrobbles, want 1", len(pending))
	}
	if pending[0].Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", pending[0].Attempts)
	}
	if pending[0].LastError == "" {
		t.Error("LastError should record the failure")
	}
}
