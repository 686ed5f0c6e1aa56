//go:build linux

package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/clemote/internal/remote"
)

// Controller is the part of the remote client the adapter drives.
type Controller interface {
	Snapshot() remote.PlayerState
	Send(remote.Command) error
}

// Adapter exposes the remote player on the session bus as an MPRIS
// media player, so desktop media keys and applets control it.
type Adapter struct {
	server *server.Server
	done   chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller) (*Adapter, error) {
	a := &Adapter{
		done: make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{ctrl: ctrl}

	a.server = server.NewServer("clemote", rootAdapter, playerAdapter)

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - the player runs on another machine
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Clemote", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	ctrl Controller
}

func (p *playerAdapter) Next() error {
	return p.ctrl.Send(remote.Next{})
}

func (p *playerAdapter) Previous() error {
	return p.ctrl.Send(remote.Previous{})
}

func (p *playerAdapter) Pause() error {
	return p.ctrl.Send(remote.Pause{})
}

func (p *playerAdapter) PlayPause() error {
	return p.ctrl.Send(remote.PlayPause{})
}

func (p *playerAdapter) Stop() error {
	return p.ctrl.Send(remote.Stop{})
}

func (p *playerAdapter) Play() error {
	if p.ctrl.Snapshot().State == remote.PlayStateStopped {
		return p.ctrl.Send(remote.Play{})
	}
	return p.ctrl.Send(remote.PlayPause{})
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.Snapshot().State {
	case remote.PlayStatePlaying:
		return types.PlaybackStatusPlaying, nil
	case remote.PlayStatePaused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.ctrl.Snapshot().Track
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId:    dbus.ObjectPath(formatTrackID(track)),
		Length:     types.Microseconds(track.Length.Microseconds()),
		Title:      track.Title,
		Artist:     []string{track.Artist},
		Album:      track.Album,
		UseCount:   track.PlayCount,
		UserRating: track.Rating,
	}
	if track.Genre != "" {
		meta.Genre = []string{track.Genre}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.ctrl.Snapshot().Volume) / 100, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	level := int(v * 100)
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return p.ctrl.Send(remote.SetVolume{Level: level})
}

func (p *playerAdapter) Position() (int64, error) {
	pos := p.ctrl.Snapshot().Position
	return int64(pos) * 1_000_000, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.connected()
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.connected()
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.connected()
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.connected()
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func (p *playerAdapter) connected() (bool, error) {
	return p.ctrl.Snapshot().ConnState == remote.Connected, nil
}

func formatTrackID(track *remote.Track) string {
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", track.ID)
}
