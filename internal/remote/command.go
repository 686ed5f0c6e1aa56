package remote

import (
	"fmt"

	"github.com/llehouerou/clemote/internal/protocol"
)

// Command is one of the closed set of transport commands the client
// can send. Each variant maps to exactly one outgoing frame; no
// response is awaited, the effect shows up in later state updates.
type Command interface {
	message() (*protocol.Message, error)
}

// Play starts playback.
type Play struct{}

// Pause pauses playback.
type Pause struct{}

// Stop stops playback.
type Stop struct{}

// PlayPause toggles between playing and paused.
type PlayPause struct{}

// Next skips to the next track.
type Next struct{}

// Previous skips to the previous track.
type Previous struct{}

// SetVolume sets the player volume. Level must be in [0,100]; values
// outside the range are rejected locally and never transmitted.
type SetVolume struct {
	Level int
}

// OpenPlaylist opens a playlist on the player.
type OpenPlaylist struct {
	PlaylistID int
}

// ChangeSong jumps to a song within a playlist.
type ChangeSong struct {
	PlaylistID int
	SongIndex  int
}

func (Play) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypePlay}, nil
}

func (Pause) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypePause}, nil
}

func (Stop) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypeStop}, nil
}

func (PlayPause) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypePlayPause}, nil
}

func (Next) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypeNext}, nil
}

func (Previous) message() (*protocol.Message, error) {
	return &protocol.Message{Type: protocol.TypePrevious}, nil
}

func (c SetVolume) message() (*protocol.Message, error) {
	if c.Level < 0 || c.Level > 100 {
		return nil, fmt.Errorf("set volume %d: %w", c.Level, ErrVolumeOutOfRange)
	}
	return &protocol.Message{
		Type:      protocol.TypeSetVolume,
		SetVolume: &protocol.Volume{Level: c.Level},
	}, nil
}

func (c OpenPlaylist) message() (*protocol.Message, error) {
	return &protocol.Message{
		Type:         protocol.TypeOpenPlaylist,
		OpenPlaylist: &protocol.OpenPlaylist{PlaylistID: c.PlaylistID},
	}, nil
}

func (c ChangeSong) message() (*protocol.Message, error) {
	return &protocol.Message{
		Type: protocol.TypeChangeSong,
		ChangeSong: &protocol.ChangeSong{
			PlaylistID: c.PlaylistID,
			SongIndex:  c.SongIndex,
		},
	}, nil
}

func connectMessage(authCode int) *protocol.Message {
	return &protocol.Message{
		Type: protocol.TypeConnect,
		Connect: &protocol.ConnectRequest{
			AuthCode:          authCode,
			SendPlaylistSongs: false,
			Downloader:        false,
		},
	}
}
