// Package timings records named durations of a single command execution
// and writes them as a Chrome trace (viewable in chrome://tracing or
// Perfetto).
//
// A Timer built for an invocation without --timings is disabled: Record
// still runs the function but nothing is kept and Finish writes nothing.
package timings

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/filesystem"
	"github.com/arthur-debert/typeset/pkg/logging"
	"github.com/rs/zerolog"
)

// Event is one complete ("X" phase) trace event. Times are microseconds.
type Event struct {
	Name      string            `json:"name"`
	Phase     string            `json:"ph"`
	Timestamp int64             `json:"ts"`
	Duration  int64             `json:"dur"`
	PID       int               `json:"pid"`
	TID       int               `json:"tid"`
	Args      map[string]string `json:"args,omitempty"`
}

// Timer collects events for one command execution
type Timer struct {
	path   string
	fs     filesystem.FS
	now    func() time.Time
	origin time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	events   []Event
	finished bool
}

// Option customizes a Timer
type Option func(*Timer)

// WithFS writes the trace through fsys
func WithFS(fsys filesystem.FS) Option {
	return func(t *Timer) { t.fs = fsys }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// New builds the timer for an invocation
func New(inv *args.Invocation, opts ...Option) *Timer {
	path := ""
	if inv != nil {
		path = inv.TimingsPath()
	}
	return NewWithPath(path, opts...)
}

// NewWithPath builds a timer writing to path. An empty path disables it.
func NewWithPath(path string, opts ...Option) *Timer {
	t := &Timer{
		path:   path,
		fs:     filesystem.NewOS(),
		now:    time.Now,
		logger: logging.GetLogger("timings"),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.origin = t.now()
	return t
}

// Enabled reports whether events are recorded
func (t *Timer) Enabled() bool {
	return t != nil && t.path != ""
}

// Path is the trace destination, empty when disabled
func (t *Timer) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Record runs fn as the segment name and returns its error unchanged
func (t *Timer) Record(name string, fn func() error) error {
	if !t.Enabled() {
		return fn()
	}

	done := logging.LogOperationStart(t.logger, name)
	start := t.now()
	err := fn()
	end := t.now()
	done()

	event := Event{
		Name:      name,
		Phase:     "X",
		Timestamp: start.Sub(t.origin).Microseconds(),
		Duration:  end.Sub(start).Microseconds(),
		PID:       os.Getpid(),
		TID:       1,
	}
	if err != nil {
		event.Args = map[string]string{"error": err.Error()}
	}

	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
	return err
}

// Events returns a copy of the recorded events
func (t *Timer) Events() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Finish writes the trace. It is a no-op for disabled timers and on
// repeated calls.
func (t *Timer) Finish() error {
	if !t.Enabled() {
		return nil
	}

	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return nil
	}
	t.finished = true
	events := t.events
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	t.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, errors.ErrSerialize, "failed to serialize timings")
	}

	if err := t.fs.WriteFile(t.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write timings to %s", t.path).
			WithDetail("path", t.path)
	}

	t.logger.Info().Str("path", t.path).Int("events", len(events)).Msg("Wrote timings")
	return nil
}
