//go:build !windows

package stderr

import (
	"os"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// capture is an active redirection of fd 2 into a pipe.
type capture struct {
	saved     int // duplicate of the terminal's fd 2
	r, w      *os.File
	forwarded chan struct{}
}

var (
	mu     sync.Mutex
	active *capture
)

// Start points fd 2 at a pipe whose lines are logged. Call it before any C
// library initializes. On error nothing is redirected and output keeps
// going to the terminal.
func Start(log zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if active != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	fd := int(os.Stderr.Fd())
	saved, err := syscall.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return err
	}
	if err := syscall.Dup2(int(w.Fd()), fd); err != nil {
		syscall.Close(saved)
		r.Close()
		w.Close()
		return err
	}

	c := &capture{saved: saved, r: r, w: w, forwarded: make(chan struct{})}
	go func() {
		defer close(c.forwarded)
		forward(r, log)
	}()
	active = c
	return nil
}

// WriteOriginal writes to the terminal even while capture is active.
func WriteOriginal(msg string) {
	mu.Lock()
	c := active
	mu.Unlock()
	if c != nil {
		_, _ = syscall.Write(c.saved, []byte(msg))
		return
	}
	_, _ = os.Stderr.WriteString(msg)
}

// Stop restores fd 2 and waits for the captured lines to be logged.
func Stop() {
	mu.Lock()
	c := active
	active = nil
	mu.Unlock()
	if c == nil {
		return
	}

	fd := int(os.Stderr.Fd())
	_ = syscall.Dup2(c.saved, fd)
	_ = syscall.Close(c.saved)
	// fd 2 no longer refers to the pipe, so closing w ends the forwarder.
	c.w.Close()
	<-c.forwarded
	c.r.Close()
}
