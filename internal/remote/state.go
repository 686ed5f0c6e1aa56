// Package remote implements the client side of the remote-control
// protocol: a supervised TCP session that mirrors the player's state
// locally and sends transport commands back.
package remote

// ConnState is the connection lifecycle state of a session.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Authenticating
	Connected
)

// String returns the connection state name.
func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Authenticating:
		return "Authenticating"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// PlayState is the transport status of the remote player.
type PlayState int

const (
	PlayStateUnknown PlayState = iota
	PlayStateStopped
	PlayStatePlaying
	PlayStatePaused
)

// String returns the play state name.
func (s PlayState) String() string {
	switch s {
	case PlayStateStopped:
		return "Stopped"
	case PlayStatePlaying:
		return "Playing"
	case PlayStatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if the player is playing or paused.
func (s PlayState) IsActive() bool {
	return s == PlayStatePlaying || s == PlayStatePaused
}

// parsePlayState maps a wire state name onto a PlayState. Unrecognized
// names map to PlayStateUnknown rather than failing.
func parsePlayState(s string) PlayState {
	switch s {
	case "playing":
		return PlayStatePlaying
	case "paused":
		return PlayStatePaused
	case "stopped", "empty":
		return PlayStateStopped
	default:
		return PlayStateUnknown
	}
}
