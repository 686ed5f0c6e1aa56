package remote

import "errors"

var (
	// ErrNotConnected is returned by Send when the session is not in
	// the Connected state. Commands never queue waiting for a
	// connection to appear.
	ErrNotConnected = errors.New("not connected")

	// ErrAuthRejected is returned by connect when the player refuses
	// the configured auth code.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrAuthTimeout is returned by connect when the player never
	// answers the auth handshake.
	ErrAuthTimeout = errors.New("authentication timed out")

	// ErrVolumeOutOfRange is returned by SetVolume for levels outside
	// [0,100], before any frame is sent.
	ErrVolumeOutOfRange = errors.New("volume out of range (0-100)")

	// ErrAlreadyStarted is returned by Start on a running client.
	ErrAlreadyStarted = errors.New("client already started")

	// ErrConnectionClosed records a transport that closed mid-stream.
	ErrConnectionClosed = errors.New("connection closed")
)
