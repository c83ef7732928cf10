package watch

import (
	"context"
	"time"
)

// Debouncer collapses bursts of events into one. An event is emitted after
// quietPeriod without new input, or at the latest maxWait after the first
// event of a burst. The emitted event is the most recent one, with Count
// set to the number of events it stands for.
type Debouncer struct {
	input       <-chan Event
	output      chan Event
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer reading from input.
func NewDebouncer(input <-chan Event, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan Event, 1),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing. The output channel is
// closed when ctx is done or input is closed; a pending event is flushed first.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan Event {
	return d.output
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  Event
		count    int
		quiet    <-chan time.Time
		deadline <-chan time.Time
	)

	flush := func() {
		if count == 0 {
			return
		}
		pending.Count = count
		select {
		case d.output <- pending:
		case <-ctx.Done():
		}
		count = 0
		quiet, deadline = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			pending = ev
			count++
			quiet = time.After(d.quietPeriod)
			if deadline == nil && d.maxWait > 0 {
				deadline = time.After(d.maxWait)
			}

		case <-quiet:
			flush()

		case <-deadline:
			flush()
		}
	}
}
