// Package testutil provides test helpers shared across packages: a scripted
// stand-in for nmcli and Redis access for integration tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/newtron-network/nmconn/pkg/nmcli"
)

// Call records one invocation seen by a FakeRunner.
type Call struct {
	Args  []string
	Stdin string
}

// Line returns the call's arguments joined by spaces.
func (c Call) Line() string {
	return strings.Join(c.Args, " ")
}

type failure struct {
	prefix string
	rc     int
	stderr string
}

// FakeRunner simulates nmcli against an in-memory set of connection
// profiles. List, show, add, and delete update or read that set; other
// commands succeed unless a failure was scripted with FailOn.
type FakeRunner struct {
	mu sync.Mutex

	// Connections holds profile names in listing order.
	Connections []string
	// Shows maps a profile name to its `con show` output.
	Shows map[string]string
	// Properties maps a setting name to the output of `print <setting>`
	// in a `con edit type <t>` session.
	Properties map[string]string

	Calls    []Call
	failures []failure
}

// NewFakeRunner creates a fake with the given existing profiles.
func NewFakeRunner(connections ...string) *FakeRunner {
	return &FakeRunner{
		Connections: connections,
		Shows:       make(map[string]string),
		Properties:  make(map[string]string),
	}
}

// FailOn makes every command whose argument line starts with prefix exit
// with rc and stderr.
func (f *FakeRunner) FailOn(prefix string, rc int, stderr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{prefix: prefix, rc: rc, stderr: stderr})
}

// Target implements nmcli.Runner.
func (f *FakeRunner) Target() string {
	return "fake"
}

// Run implements nmcli.Runner.
func (f *FakeRunner) Run(ctx context.Context, args []string, stdin string) (*nmcli.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Args: append([]string(nil), args...), Stdin: stdin})
	res := &nmcli.Result{Args: args}
	line := strings.Join(args, " ")

	for _, fl := range f.failures {
		if strings.HasPrefix(line, fl.prefix) {
			res.RC = fl.rc
			res.Stderr = fl.stderr
			return res, nil
		}
	}

	switch {
	case line == "--fields name --terse con show":
		res.Stdout = strings.Join(f.Connections, "\n")
		if len(f.Connections) > 0 {
			res.Stdout += "\n"
		}
	case len(args) == 4 && args[0] == "--show-secrets":
		out, ok := f.Shows[args[3]]
		if !ok {
			res.RC = int(nmcli.ExitNotFound)
			res.Stderr = "Error: " + args[3] + " - no such connection profile.\n"
			break
		}
		res.Stdout = out
	case strings.HasPrefix(line, "con add ") && len(args) >= 6:
		f.Connections = append(f.Connections, args[5])
	case strings.HasPrefix(line, "con del ") && len(args) == 3:
		f.remove(args[2])
	case strings.HasPrefix(line, "con edit type "):
		for setting, out := range f.Properties {
			if strings.Contains(stdin, "print "+setting+"\n") {
				res.Stdout = out
			}
		}
	}
	return res, nil
}

func (f *FakeRunner) remove(name string) {
	kept := f.Connections[:0]
	for _, n := range f.Connections {
		if n != name {
			kept = append(kept, n)
		}
	}
	f.Connections = kept
}

// Lines returns the argument line of every recorded call.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.Line()
	}
	return lines
}

// MutatingLines returns the argument lines of calls that change state:
// everything except listing, showing, and capability queries.
func (f *FakeRunner) MutatingLines() []string {
	var out []string
	for _, line := range f.Lines() {
		switch {
		case line == "--fields name --terse con show":
		case strings.HasPrefix(line, "--show-secrets con show "):
		case strings.HasPrefix(line, "con edit type "):
		default:
			out = append(out, line)
		}
	}
	return out
}
