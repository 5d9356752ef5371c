// Package exitstate tracks the success/failure verdict of one run.
//
// A Tracker is created by the entry point and passed explicitly to whatever
// needs to record a failure. It starts at Success and can only move to
// Failure. It is not synchronized: one run, one goroutine, one Tracker.
package exitstate

// Status is the terminal verdict of a run
type Status int

const (
	// Success is the initial status
	Success Status = iota
	// Failure is sticky once set
	Failure
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
	// ExitUsage is used when the command line itself is invalid
	ExitUsage = 2
)

// String implements fmt.Stringer
func (s Status) String() string {
	if s == Failure {
		return "failure"
	}
	return "success"
}

// Code maps the status to a process exit code
func (s Status) Code() int {
	if s == Failure {
		return ExitFailure
	}
	return ExitSuccess
}

// Tracker holds the status of a single run
type Tracker struct {
	status Status
}

// New returns a tracker at Success
func New() *Tracker {
	return &Tracker{status: Success}
}

// Current returns the present status
func (t *Tracker) Current() Status {
	return t.status
}

// MarkFailed moves the tracker to Failure. Repeated calls are no-ops.
func (t *Tracker) MarkFailed() {
	t.status = Failure
}
