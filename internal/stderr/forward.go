// Package stderr captures stderr output from C libraries (ALSA) that write
// directly to file descriptor 2, bypassing Go's os.Stderr. Captured lines
// are forwarded to the log so they cannot corrupt the terminal UI.
package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// forward logs every non-blank line read from r until r is closed.
func forward(r io.Reader, log zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			log.Warn().Str("source", "stderr").Msg(line)
		}
	}
}
