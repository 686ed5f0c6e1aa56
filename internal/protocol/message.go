// Package protocol implements the wire protocol spoken by the remote
// player: length-prefixed frames carrying JSON messages, protocol
// version 21.
package protocol

// Version is the protocol version stamped on every outgoing message.
const Version = 21

// Type discriminates the payload carried by a Message.
type Type string

// Messages received from the player.
const (
	TypeAuthResult     Type = "auth.result"
	TypeSnapshot       Type = "state.snapshot"
	TypeTrackMetadata  Type = "track.metadata"
	TypePosition       Type = "track.position"
	TypeVolume         Type = "player.volume"
	TypePlayerState    Type = "player.state"
	TypeShuffle        Type = "player.shuffle"
	TypeRepeat         Type = "player.repeat"
	TypePlaylists      Type = "playlist.list"
	TypeActivePlaylist Type = "playlist.active"
	TypeKeepalive      Type = "keepalive"
)

// Messages sent to the player.
const (
	TypeConnect      Type = "connect"
	TypePlay         Type = "play"
	TypePause        Type = "pause"
	TypeStop         Type = "stop"
	TypePlayPause    Type = "playpause"
	TypeNext         Type = "next"
	TypePrevious     Type = "previous"
	TypeSetVolume    Type = "player.set_volume"
	TypeOpenPlaylist Type = "playlist.open"
	TypeChangeSong   Type = "playlist.change_song"
)

// Message is one decoded protocol unit. Exactly one payload field is
// populated, selected by Type; all others are nil. Messages are
// immutable once decoded.
type Message struct {
	Type    Type `json:"type"`
	Version int  `json:"version"`

	Connect      *ConnectRequest `json:"connect,omitempty"`
	AuthResult   *AuthResult     `json:"auth_result,omitempty"`
	Snapshot     *Snapshot       `json:"snapshot,omitempty"`
	Track        *Track          `json:"track,omitempty"`
	Position     *Position       `json:"position,omitempty"`
	Volume       *Volume         `json:"volume,omitempty"`
	State        *StateUpdate    `json:"state,omitempty"`
	Shuffle      *Shuffle        `json:"shuffle,omitempty"`
	Repeat       *Repeat         `json:"repeat,omitempty"`
	Playlists    *PlaylistList   `json:"playlists,omitempty"`
	Active       *ActiveChanged  `json:"active,omitempty"`
	SetVolume    *Volume         `json:"set_volume,omitempty"`
	OpenPlaylist *OpenPlaylist   `json:"open_playlist,omitempty"`
	ChangeSong   *ChangeSong     `json:"change_song,omitempty"`
}

// Known reports whether the message type is one this client
// understands. Unknown-but-well-framed messages decode fine and are
// treated as unhandled downstream.
func (m *Message) Known() bool {
	switch m.Type {
	case TypeAuthResult, TypeSnapshot, TypeTrackMetadata, TypePosition,
		TypeVolume, TypePlayerState, TypeShuffle, TypeRepeat,
		TypePlaylists, TypeActivePlaylist, TypeKeepalive,
		TypeConnect, TypePlay, TypePause, TypeStop, TypePlayPause,
		TypeNext, TypePrevious, TypeSetVolume, TypeOpenPlaylist,
		TypeChangeSong:
		return true
	}
	return false
}

// ConnectRequest is the handshake sent right after the transport opens.
type ConnectRequest struct {
	AuthCode          int  `json:"auth_code"`
	SendPlaylistSongs bool `json:"send_playlist_songs"`
	Downloader        bool `json:"downloader"`
}

// AuthResult is the player's reply to a ConnectRequest carrying an
// auth code.
type AuthResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Track carries the full metadata of one track. A metadata message
// always replaces the previous track wholesale.
type Track struct {
	ID           int     `json:"id"`
	Index        int     `json:"index"`
	PlaylistID   int     `json:"playlist_id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Genre        string  `json:"genre,omitempty"`
	Year         int     `json:"year,omitempty"`
	Length       int     `json:"length"`
	PrettyLength string  `json:"pretty_length,omitempty"`
	Filename     string  `json:"filename,omitempty"`
	FileSize     int64   `json:"file_size,omitempty"`
	PlayCount    int     `json:"playcount,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Art          string  `json:"art,omitempty"`
	IsLocal      bool    `json:"is_local,omitempty"`
}

// Snapshot is a full state snapshot sent by the player, typically once
// after connecting.
type Snapshot struct {
	ServerVersion string     `json:"server_version,omitempty"`
	State         string     `json:"state"`
	Volume        int        `json:"volume"`
	Position      int        `json:"position"`
	Track         *Track     `json:"track,omitempty"`
	Playlists     []Playlist `json:"playlists,omitempty"`
}

// Position is an elapsed-position tick in seconds.
type Position struct {
	Seconds int `json:"seconds"`
}

// Volume carries a volume level, nominally 0-100.
type Volume struct {
	Level int `json:"level"`
}

// StateUpdate carries a transport status change ("playing", "paused",
// "stopped").
type StateUpdate struct {
	State string `json:"state"`
}

// Shuffle carries the shuffle mode name.
type Shuffle struct {
	Mode string `json:"mode"`
}

// Repeat carries the repeat mode name.
type Repeat struct {
	Mode string `json:"mode"`
}

// Playlist describes one playlist known to the player.
type Playlist struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
	Active    bool   `json:"active,omitempty"`
	Closed    bool   `json:"closed,omitempty"`
}

// PlaylistList is the full playlist listing.
type PlaylistList struct {
	Playlists []Playlist `json:"playlists"`
}

// ActiveChanged signals that a different playlist became active.
type ActiveChanged struct {
	PlaylistID int `json:"playlist_id"`
}

// OpenPlaylist asks the player to open a playlist.
type OpenPlaylist struct {
	PlaylistID int `json:"playlist_id"`
}

// ChangeSong asks the player to jump to a song within a playlist.
type ChangeSong struct {
	PlaylistID int `json:"playlist_id"`
	SongIndex  int `json:"song_index"`
}
