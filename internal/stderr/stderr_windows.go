//go:build windows

package stderr

import (
	"os"

	"github.com/rs/zerolog"
)

// Start does nothing: the Windows audio stack does not write to fd 2.
func Start(zerolog.Logger) error { return nil }

func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func Stop() {}
