// Package progress shows a status line on stderr while the CLI waits on
// mirrors. Nothing is drawn unless stderr is a terminal, so piped output
// and scripts see only results.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc is the function used to check if a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// spinnerFrames defines the animation characters for the spinner.
var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinnerInterval is the time between spinner frame updates.
const spinnerInterval = 100 * time.Millisecond

const lineWidth = 80

// Spinner displays an animated status line during a resolution.
type Spinner struct {
	mu       sync.Mutex
	output   io.Writer
	message  string
	done     chan struct{}
	finished chan struct{}
	started  bool
	stopped  bool
	enabled  bool
}

// NewSpinner creates a spinner writing to output (os.Stderr when nil).
// It only animates when stderr is a terminal and enabled is true.
func NewSpinner(output io.Writer, enabled bool) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{
		output:   output,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		enabled:  enabled && IsInteractive(),
	}
}

// IsInteractive reports whether stderr is attached to a terminal.
func IsInteractive() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}

// Start begins animating message. Calling Start more than once, or on a
// disabled spinner, has no effect.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.started || s.stopped {
		return
	}
	s.message = message
	s.started = true
	go s.animate()
}

// Stop halts the animation and clears the line. It waits for the
// animation goroutine so no frame is written after Stop returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	s.mu.Unlock()

	if !started {
		return
	}
	close(s.done)
	<-s.finished
	fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", lineWidth))
}

func (s *Spinner) animate() {
	defer close(s.finished)

	frame := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()

			line := fmt.Sprintf("\r%s %s", spinnerFrames[frame%len(spinnerFrames)], msg)
			if len(line) < lineWidth {
				line += strings.Repeat(" ", lineWidth-len(line))
			}
			fmt.Fprint(s.output, line)
			frame++
		}
	}
}
