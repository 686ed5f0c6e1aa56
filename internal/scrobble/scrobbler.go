package scrobble

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
	"github.com/llehouerou/clemote/internal/state"
)

const (
	minTrackLength   = 30 * time.Second
	scrobbleCap      = 4 * time.Minute
	retryInterval    = 5 * time.Minute
	maxRetryAttempts = 10
	pendingMaxAge    = 14 * 24 * time.Hour
)

// submitter is the part of Client the scrobbler needs. Tests substitute
// a fake here.
type submitter interface {
	IsAuthenticated() bool
	UpdateNowPlaying(Track) error
	Scrobble(Track) error
}

// pendingStore persists scrobbles that could not be submitted.
type pendingStore interface {
	AddPendingScrobble(state.PendingScrobble) error
	GetPendingScrobbles() ([]state.PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
	DeleteOldPendingScrobbles(maxAge time.Duration) error
}

// Scrobbler watches player events and reports plays to Last.fm.
// Last.fm rules: scrobble after 50% of duration or 4 minutes, whichever
// comes first, and only for tracks at least 30 seconds long.
type Scrobbler struct {
	client submitter
	store  pendingStore
	log    *zap.Logger

	current   *remote.Track
	startedAt time.Time
	scrobbled bool
}

// NewScrobbler creates a scrobbler submitting through client and
// queuing failures in store.
func NewScrobbler(client *Client, store *state.Manager, log *zap.Logger) *Scrobbler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scrobbler{client: client, store: store, log: log.Named("scrobble")}
}

// Run consumes sub until ctx is cancelled or the subscription is
// closed. It blocks, so callers usually run it in a goroutine.
func (s *Scrobbler) Run(ctx context.Context, sub *remote.Subscription) {
	retry := time.NewTicker(retryInterval)
	defer retry.Stop()

	s.retryPending()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.TrackChanged:
			s.trackChanged(ev.Current)
		case ev := <-sub.PositionChanged:
			s.positionChanged(ev.Seconds)
		case <-retry.C:
			s.retryPending()
		}
	}
}

func (s *Scrobbler) trackChanged(track *remote.Track) {
	s.current = track
	s.startedAt = time.Now()
	s.scrobbled = false

	if track == nil || !s.client.IsAuthenticated() {
		return
	}

	err := s.client.UpdateNowPlaying(Track{
		Artist:   track.Artist,
		Title:    track.Title,
		Album:    track.Album,
		Duration: track.Length,
	})
	if err != nil {
		s.log.Warn("now playing update failed", zap.Error(err))
	}
}

func (s *Scrobbler) positionChanged(seconds int) {
	if s.current == nil || s.scrobbled || !s.client.IsAuthenticated() {
		return
	}
	if !shouldScrobble(time.Duration(seconds)*time.Second, s.current.Length) {
		return
	}

	s.scrobbled = true
	track := Track{
		Artist:    s.current.Artist,
		Title:     s.current.Title,
		Album:     s.current.Album,
		Duration:  s.current.Length,
		Timestamp: s.startedAt,
	}

	if err := s.client.Scrobble(track); err != nil {
		s.log.Warn("scrobble failed, queuing for retry",
			zap.String("artist", track.Artist),
			zap.String("title", track.Title),
			zap.Error(err))
		s.queue(track)
		return
	}

	s.log.Info("scrobbled",
		zap.String("artist", track.Artist),
		zap.String("title", track.Title))
}

func (s *Scrobbler) queue(track Track) {
	if s.store == nil {
		return
	}
	err := s.store.AddPendingScrobble(state.PendingScrobble{
		Artist:       track.Artist,
		Track:        track.Title,
		Album:        track.Album,
		DurationSecs: int(track.Duration.Seconds()),
		Timestamp:    track.Timestamp,
	})
	if err != nil {
		s.log.Error("failed to queue scrobble", zap.Error(err))
	}
}

// retryPending resubmits queued scrobbles, dropping entries that are
// too old or have failed too many times.
func (s *Scrobbler) retryPending() {
	if s.store == nil || !s.client.IsAuthenticated() {
		return
	}

	if err := s.store.DeleteOldPendingScrobbles(pendingMaxAge); err != nil {
		s.log.Error("failed to prune pending scrobbles", zap.Error(err))
	}

	pending, err := s.store.GetPendingScrobbles()
	if err != nil {
		s.log.Error("failed to load pending scrobbles", zap.Error(err))
		return
	}

	for _, p := range pending {
		if p.Attempts >= maxRetryAttempts {
			if err := s.store.DeletePendingScrobble(p.ID); err != nil {
				s.log.Error("failed to drop pending scrobble", zap.Error(err))
			}
			continue
		}

		err := s.client.Scrobble(Track{
			Artist:    p.Artist,
			Title:     p.Track,
			Album:     p.Album,
			Duration:  time.Duration(p.DurationSecs) * time.Second,
			Timestamp: p.Timestamp,
		})
		if err != nil {
			if uerr := s.store.UpdatePendingScrobbleAttempt(p.ID, err.Error()); uerr != nil {
				s.log.Error("failed to record scrobble attempt", zap.Error(uerr))
			}
			continue
		}

		if err := s.store.DeletePendingScrobble(p.ID); err != nil {
			s.log.Error("failed to remove submitted scrobble", zap.Error(err))
		}
	}
}

// shouldScrobble reports whether a track at the given playback position
// has crossed the scrobble threshold.
func shouldScrobble(position, duration time.Duration) bool {
	if duration < minTrackLength {
		return false
	}

	threshold := duration / 2
	if scrobbleCap < threshold {
		threshold = scrobbleCap
	}

	return position >= threshold
}
