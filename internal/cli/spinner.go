package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on w while a render runs.
type spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws message on w until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	defer fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
		select {
		case <-s.parent.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the line and waits for the animation to end. It is safe to
// call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped
}

// Interrupted reports whether the context the spinner was started with has
// ended, as opposed to the spinner being stopped normally.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}
