package nmcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/nmconn/pkg/util"
)

// Client issues NetworkManager connection commands through a Runner.
// Commands that change state return the Result so callers can decide how
// to treat a nonzero exit; queries turn a nonzero exit into an ExecError.
type Client struct {
	runner Runner
}

// NewClient creates a client on top of runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// Target names the host the client's commands run on.
func (c *Client) Target() string {
	return c.runner.Target()
}

func (c *Client) run(ctx context.Context, args []string, stdin string) (*Result, error) {
	util.WithHost(c.runner.Target()).Debugf("exec: %s", CommandLine(args))
	res, err := c.runner.Run(ctx, args, stdin)
	if err != nil {
		return nil, err
	}
	if res.RC != 0 {
		util.WithHost(c.runner.Target()).Debugf("exit %d (%s): %s", res.RC, res.Code(), strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

// query runs a read-only command and fails on a nonzero exit.
func (c *Client) query(ctx context.Context, name string, args []string, stdin string) (*Result, error) {
	res, err := c.run(ctx, args, stdin)
	if err != nil {
		return nil, err
	}
	if res.RC != 0 {
		return nil, util.NewExecError(name, CommandLine(args), res.RC, res.Stderr)
	}
	return res, nil
}

// ListConnections returns the names of all connection profiles.
func (c *Client) ListConnections(ctx context.Context) ([]string, error) {
	res, err := c.query(ctx, "", []string{"--fields", "name", "--terse", "con", "show"}, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Exists reports whether a connection profile named name exists.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	names, err := c.ListConnections(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Show returns the parsed settings of a connection, secrets included. A
// missing profile yields an error wrapping util.ErrNotFound.
func (c *Client) Show(ctx context.Context, name string) (State, error) {
	args := []string{"--show-secrets", "con", "show", name}
	res, err := c.run(ctx, args, "")
	if err != nil {
		return nil, err
	}
	switch {
	case res.Code() == ExitNotFound:
		return nil, fmt.Errorf("connection %s: %w", name, util.ErrNotFound)
	case res.RC != 0:
		return nil, util.NewExecError(name, CommandLine(args), res.RC, res.Stderr)
	}
	return ParseShow(res.Stdout), nil
}

// Up activates a connection.
func (c *Client) Up(ctx context.Context, name string) (*Result, error) {
	return c.run(ctx, []string{"con", "up", name}, "")
}

// Down deactivates a connection.
func (c *Client) Down(ctx context.Context, name string) (*Result, error) {
	return c.run(ctx, []string{"con", "down", name}, "")
}

// Reload makes NetworkManager re-read connection profiles from disk.
func (c *Client) Reload(ctx context.Context) (*Result, error) {
	return c.run(ctx, []string{"con", "reload"}, "")
}

// Delete removes a connection profile.
func (c *Client) Delete(ctx context.Context, name string) (*Result, error) {
	return c.run(ctx, []string{"con", "del", name}, "")
}

// Add creates a connection profile of connType. settings are appended as
// "key value" argument pairs.
func (c *Client) Add(ctx context.Context, connType, name string, settings []string) (*Result, error) {
	args := append([]string{"con", "add", "type", connType, "con-name", name}, settings...)
	return c.run(ctx, args, "")
}

// Modify changes settings of an existing connection profile.
func (c *Client) Modify(ctx context.Context, name string, settings []string) (*Result, error) {
	args := append([]string{"con", "modify", name}, settings...)
	return c.run(ctx, args, "")
}

// Edit opens an interactive `con edit` session and feeds it commands, one
// per line. The session ends when the commands run out; callers include
// "save" and "quit" themselves.
func (c *Client) Edit(ctx context.Context, target []string, commands []string) (*Result, error) {
	args := append([]string{"con", "edit"}, target...)
	return c.run(ctx, args, strings.Join(commands, "\n"))
}

// SupportedProperties lists the properties nmcli accepts for setting on a
// connection of connType, by printing a fresh profile in an edit session
// that is discarded on exit.
func (c *Client) SupportedProperties(ctx context.Context, connType, setting string) ([]string, error) {
	var commands []string
	if setting == "802-11-wireless-security" {
		// The security setting is only printed once one of its properties is set.
		commands = append(commands, "set "+setting+".psk FAKEVALUE")
	}
	commands = append(commands, "print "+setting, "quit", "yes")

	args := []string{"con", "edit", "type", connType}
	res, err := c.query(ctx, "", args, strings.Join(commands, "\n"))
	if err != nil {
		return nil, err
	}
	return parseProperties(res.Stdout, setting), nil
}
