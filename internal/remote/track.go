package remote

import (
	"time"

	"github.com/llehouerou/clemote/internal/protocol"
)

// Track is the mirrored metadata of the track currently loaded on the
// remote player. This is a copy of the wire data, owned by the mirror.
type Track struct {
	ID           int
	Index        int
	PlaylistID   int
	Title        string
	Artist       string
	Album        string
	Genre        string
	Year         int
	Length       time.Duration
	PrettyLength string
	Filename     string
	FileSize     int64
	PlayCount    int
	Rating       float64
	Art          string // opaque art reference, resolved lazily by callers
	IsLocal      bool
}

// Playlist describes one playlist on the remote player.
type Playlist struct {
	ID         int
	Name       string
	TrackCount int
	Active     bool
}

// PlayerState is a read-consistent copy of the mirrored player state.
// Track is nil until the first metadata or snapshot message arrives.
type PlayerState struct {
	ServerVersion  string
	ConnState      ConnState
	State          PlayState
	Volume         int
	Position       int // seconds
	Track          *Track
	Playlists      []Playlist
	ActivePlaylist int
	Shuffle        string
	Repeat         string
	FirstSnapshot  bool
	UnhandledCount int
	LastUpdate     time.Time
}

func trackFromWire(t *protocol.Track) *Track {
	if t == nil {
		return nil
	}
	return &Track{
		ID:           t.ID,
		Index:        t.Index,
		PlaylistID:   t.PlaylistID,
		Title:        t.Title,
		Artist:       t.Artist,
		Album:        t.Album,
		Genre:        t.Genre,
		Year:         t.Year,
		Length:       time.Duration(t.Length) * time.Second,
		PrettyLength: t.PrettyLength,
		Filename:     t.Filename,
		FileSize:     t.FileSize,
		PlayCount:    t.PlayCount,
		Rating:       t.Rating,
		Art:          t.Art,
		IsLocal:      t.IsLocal,
	}
}

func playlistsFromWire(pls []protocol.Playlist) []Playlist {
	if len(pls) == 0 {
		return nil
	}
	out := make([]Playlist, len(pls))
	for i, p := range pls {
		out[i] = Playlist{
			ID:         p.ID,
			Name:       p.Name,
			TrackCount: p.ItemCount,
			Active:     p.Active,
		}
	}
	return out
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
