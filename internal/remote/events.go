package remote

// ConnChange is emitted when the session connection state changes,
// including supervisor-driven reconnects.
type ConnChange struct {
	Previous ConnState
	Current  ConnState
	Err      error // disconnect cause, nil for clean transitions
}

// TrackChange is emitted when the mirrored current track is replaced.
// Previous is nil for the first track after a (re)connect.
type TrackChange struct {
	Previous *Track
	Current  *Track
}

// StateChange is emitted when the transport status changes.
type StateChange struct {
	Previous PlayState
	Current  PlayState
}

// PositionChange is emitted on every position tick.
type PositionChange struct {
	Seconds int
}

// VolumeChange is emitted when the mirrored volume changes.
type VolumeChange struct {
	Level int
}

// PlaylistsChange is emitted when the playlist listing is replaced.
type PlaylistsChange struct {
	Playlists []Playlist
}
