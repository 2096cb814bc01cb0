// Package progress shows activity on stderr while the CLI waits on the
// platform.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// DefaultInterval is the time between animation frames
const DefaultInterval = 100 * time.Millisecond

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a message on a terminal. On anything else (pipes,
// files, buffers) it writes nothing, so output stays clean for scripts.
//
// Spinner is safe for concurrent use.
type Spinner struct {
	writer   io.Writer
	interval time.Duration
	enabled  bool

	mu      sync.Mutex
	message string
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner returns a stopped spinner writing to w
func NewSpinner(w io.Writer, message string) *Spinner {
	return newSpinner(w, message, isTerminal(w), DefaultInterval)
}

func newSpinner(w io.Writer, message string, enabled bool, interval time.Duration) *Spinner {
	return &Spinner{
		writer:   w,
		message:  message,
		enabled:  enabled,
		interval: interval,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.animate(s.stop, s.done)
}

func (s *Spinner) animate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(frames) {
		s.mu.Lock()
		fmt.Fprintf(s.writer, "\r%s %s... ", frames[frame], s.message)
		s.mu.Unlock()

		select {
		case <-stop:
			// Clear the line
			fmt.Fprint(s.writer, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the spinner line and waits for the animation to end.
// Stopping a stopped spinner does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// UpdateMessage changes the message shown next to the spinner
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Run shows the spinner with message while fn runs
func Run(w io.Writer, message string, fn func() error) error {
	s := NewSpinner(w, message)
	s.Start()
	defer s.Stop()
	return fn()
}
