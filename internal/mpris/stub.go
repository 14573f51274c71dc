//go:build !linux

package mpris

import "github.com/rs/zerolog"

// Adapter is a no-op on platforms without D-Bus.
type Adapter struct{}

func New(_ Player, _ Mixer, _ ArtResolver, _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

func (a *Adapter) Close() error { return nil }
