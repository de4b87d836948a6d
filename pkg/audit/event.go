// Package audit records every connection apply, previewed or executed, as
// JSON lines.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Change is one setting that differed from the desired state.
type Change struct {
	Setting string `json:"setting"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
}

// Event is one reconciliation of one connection on one host.
type Event struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	User        string        `json:"user"`
	Host        string        `json:"host"`
	Connection  string        `json:"connection"`
	State       string        `json:"state"`
	Changes     []Change      `json:"changes,omitempty"`
	Commands    []string      `json:"commands,omitempty"`
	Changed     bool          `json:"changed"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"` // true if -x was used
	DryRun      bool          `json:"dry_run"`
	Duration    time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Host        string
	Connection  string
	User        string
	State       string
	StartTime   time.Time
	EndTime     time.Time
	ChangedOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates an event for a run against connection on host.
func NewEvent(user, host, connection, state string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		User:       user,
		Host:       host,
		Connection: connection,
		State:      state,
	}
}

// WithChanges sets the changed settings
func (e *Event) WithChanges(changes []Change) *Event {
	e.Changes = changes
	return e
}

// WithCommands sets the nmcli commands that ran, or would have run.
func (e *Event) WithCommands(commands []string, changed bool) *Event {
	e.Commands = commands
	e.Changed = changed
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks if execute mode was used
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}
