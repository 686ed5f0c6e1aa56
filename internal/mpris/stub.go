//go:build !linux

package mpris

import "github.com/llehouerou/clemote/internal/remote"

// Controller is the part of the remote client the adapter drives.
type Controller interface {
	Snapshot() remote.PlayerState
	Send(remote.Command) error
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controller) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
