// Package nmcli wraps the NetworkManager command-line client: running it
// locally or over SSH, issuing connection commands, and parsing its output.
package nmcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is looked up on PATH when no explicit nmcli path is set.
const DefaultBinary = "nmcli"

// localeEnv forces untranslated nmcli output so it can be parsed.
var localeEnv = []string{"LANG=C", "LC_ALL=C", "LC_MESSAGES=C", "LC_CTYPE=C"}

// Result is the outcome of one nmcli invocation. A nonzero RC is a result,
// not an error.
type Result struct {
	Args   []string
	RC     int
	Stdout string
	Stderr string
}

// Code returns the exit status as an ExitCode.
func (r *Result) Code() ExitCode {
	return ExitCode(r.RC)
}

// Runner executes nmcli with the given arguments, feeding stdin when it is
// non-empty. Implementations block until the process exits and its output
// has been read.
type Runner interface {
	Run(ctx context.Context, args []string, stdin string) (*Result, error)
	// Target names where commands run, for logs and audit records.
	Target() string
}

// ExecRunner runs a local nmcli binary.
type ExecRunner struct {
	Binary string
}

// NewExecRunner resolves binary (or nmcli on PATH when empty) and returns a
// runner for it.
func NewExecRunner(binary string) (*ExecRunner, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", binary, err)
	}
	return &ExecRunner{Binary: path}, nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, stdin string) (*Result, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Env = append(os.Environ(), localeEnv...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := &Result{Args: args}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.RC = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("running %s: %w", r.Binary, err)
	}
	return res, nil
}

// Target implements Runner.
func (r *ExecRunner) Target() string {
	return "localhost"
}
