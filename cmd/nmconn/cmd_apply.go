package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/nmconn/pkg/audit"
	"github.com/newtron-network/nmconn/pkg/cli"
	"github.com/newtron-network/nmconn/pkg/connection"
	"github.com/newtron-network/nmconn/pkg/lock"
	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

const lockTTL = 5 * time.Minute

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Bring connections to the state declared in a file",
	Long: `Bring connections to the state declared in a YAML file.

The file holds either one connection:

  conn_name: eth0-uplink
  state: present
  type: ethernet
  ifname: eth0
  ip4: 192.0.2.10/24
  gw4: 192.0.2.1

or a list of them under "connections:". Keys are the nmcli module
arguments; run 'nmconn argspec nmcli' for the full schema.

Examples:
  nmconn apply uplink.yaml
  nmconn apply uplink.yaml -x
  nmconn --host nas1 apply bond.yaml -x`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := connection.LoadFile(args[0])
		if err != nil {
			return err
		}
		return withHost(func(ctx context.Context, client *nmcli.Client) error {
			return reconcileAll(ctx, client, params)
		})
	},
}

var upCmd = &cobra.Command{
	Use:   "up <conn-name>",
	Short: "Activate a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reconcileState(args[0], connection.StateUp)
	},
}

var downCmd = &cobra.Command{
	Use:   "down <conn-name>",
	Short: "Deactivate a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reconcileState(args[0], connection.StateDown)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <conn-name>",
	Short: "Delete a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reconcileState(args[0], connection.StateAbsent)
	},
}

func reconcileState(name string, state connection.State) error {
	p := connection.NewParams(name, state)
	return withHost(func(ctx context.Context, client *nmcli.Client) error {
		return reconcileAll(ctx, client, []*connection.Params{p})
	})
}

// withHost connects to the managed host and, when executing with a lock
// server configured, holds the host lock for the duration of fn.
func withHost(fn func(ctx context.Context, client *nmcli.Client) error) error {
	ctx := context.Background()
	client, closeClient, err := newClient()
	if err != nil {
		return err
	}
	defer closeClient()

	if app.executeMode && app.lockRedis != "" {
		host := targetHost()
		holder := currentUser() + "@" + localHostname()
		locker := lock.New(app.lockRedis, 0)
		defer locker.Close()

		if err := locker.Acquire(ctx, host, holder, lockTTL); err != nil {
			return fmt.Errorf("locking host: %w", err)
		}
		defer func() {
			if err := locker.Release(ctx, host, holder); err != nil {
				util.Warnf("Releasing lock on %s: %v", host, err)
			}
		}()
	}
	return fn(ctx, client)
}

func localHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}

// applyReport is the JSON form of one reconciliation.
type applyReport struct {
	*connection.Result
	Error string `json:"error,omitempty"`
}

// reconcileAll reconciles each connection in order, stopping at the first
// failure.
func reconcileAll(ctx context.Context, client *nmcli.Client, params []*connection.Params) error {
	r := connection.NewReconciler(client, !app.executeMode)

	var reports []applyReport
	var failed error
	for _, p := range params {
		start := time.Now()
		res, err := r.Reconcile(ctx, p)
		logAudit(p, res, err, time.Since(start))

		if app.jsonOutput {
			rep := applyReport{Result: res}
			if rep.Result == nil {
				rep.Result = &connection.Result{ConnName: p.ConnName, State: p.State}
			}
			if err != nil {
				rep.Error = err.Error()
			}
			reports = append(reports, rep)
		} else {
			printResult(p, res, err)
		}
		if err != nil {
			failed = err
			break
		}
	}

	if app.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printDryRunNotice()
	}
	return failed
}

func printResult(p *connection.Params, res *connection.Result, err error) {
	fmt.Printf("%s %s\n", cli.DotPad(p.ConnName, 40), cli.Status(res != nil && res.Changed, !app.executeMode, err))
	if res == nil {
		return
	}
	for _, w := range res.Warnings {
		fmt.Printf("  %s %s\n", yellow("warning:"), w)
	}

	if res.Diff != nil {
		if changes := res.Diff.Changed(); len(changes) > 0 {
			t := cli.NewTable("SETTING", "CURRENT", "DESIRED").WithPrefix("  ")
			for _, c := range changes {
				before, after := displayValues(c)
				t.Row(c.Key, before, after)
			}
			t.Flush()
		}
	}
	for _, line := range res.Commands {
		fmt.Println("  " + cli.Dim(line))
	}

	var execErr *util.ExecError
	if errors.As(err, &execErr) && execErr.Stderr != "" {
		fmt.Println("  " + red(execErr.Stderr))
	}
}

// displayValues renders a diff entry, hiding secrets.
func displayValues(e connection.DiffEntry) (string, string) {
	if nmcli.IsSecret(e.Key) {
		return nmcli.Hidden, nmcli.Hidden
	}
	return cli.Value(e.Before), cli.Value(e.After)
}

func logAudit(p *connection.Params, res *connection.Result, err error, d time.Duration) {
	event := audit.NewEvent(currentUser(), targetHost(), p.ConnName, string(p.State)).
		WithExecuteMode(app.executeMode).
		WithDuration(d)
	if res != nil {
		if res.Diff != nil {
			var changes []audit.Change
			for _, c := range res.Diff.Changed() {
				before, after := displayValues(c)
				changes = append(changes, audit.Change{Setting: c.Key, Before: before, After: after})
			}
			event.WithChanges(changes)
		}
		event.WithCommands(res.Commands, res.Changed)
	}
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	if lerr := audit.Log(event); lerr != nil {
		util.Warnf("Could not write audit event: %v", lerr)
	}
}
