package connection

import (
	"context"
	"fmt"

	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

// Result describes what a reconciliation did, or in check mode what it
// would have done.
type Result struct {
	ConnName   string   `json:"conn_name"`
	State      State    `json:"state"`
	Type       string   `json:"type,omitempty"`
	Changed    bool     `json:"changed"`
	Diff       *Diff    `json:"diff,omitempty"`
	Exists     string   `json:"Exists,omitempty"`
	Connection string   `json:"Connection,omitempty"`
	Stdout     string   `json:"stdout,omitempty"`
	Stderr     string   `json:"stderr,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Commands   []string `json:"commands,omitempty"`
}

// Reconciler converges connection profiles on one host.
type Reconciler struct {
	client    *nmcli.Client
	checkMode bool
}

// NewReconciler returns a Reconciler using client. In check mode nothing
// is changed: mutating commands are recorded in the result but not run.
func NewReconciler(client *nmcli.Client, checkMode bool) *Reconciler {
	return &Reconciler{client: client, checkMode: checkMode}
}

// Reconcile brings the connection named by params to its requested state.
//
// Invalid params fail before nmcli is invoked. A mutating command that
// exits nonzero stops the run with a *util.ExecError; commands already
// run are not undone. The returned Result is non-nil whenever params
// passed validation, including on error.
func (r *Reconciler) Reconcile(ctx context.Context, params *Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := params.Clone()
	res := &Result{ConnName: p.ConnName, State: p.State, Type: p.Type}

	warnings, err := CheckWireless(ctx, r.client, p)
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		return res, err
	}

	exists, err := r.client.Exists(ctx, p.ConnName)
	if err != nil {
		return res, fmt.Errorf("listing connections: %w", err)
	}

	switch p.State {
	case StateAbsent:
		err = r.absent(ctx, p, exists, res)
	case StatePresent:
		if exists {
			err = r.modify(ctx, p, res)
		} else {
			err = r.create(ctx, p, res)
		}
	case StateUp, StateDown:
		err = r.activate(ctx, p, exists, res)
	}

	for _, w := range res.Warnings {
		util.WithConnection(p.ConnName).Warn(w)
	}
	return res, err
}

func (r *Reconciler) absent(ctx context.Context, p *Params, exists bool, res *Result) error {
	if !exists {
		return nil
	}
	name := p.ConnName
	// The profile is deleted whether or not it was active.
	if err := r.do(res, name, []string{"con", "down", name}, true, func() (*nmcli.Result, error) {
		return r.client.Down(ctx, name)
	}); err != nil {
		return err
	}
	if err := r.do(res, name, []string{"con", "del", name}, false, func() (*nmcli.Result, error) {
		return r.client.Delete(ctx, name)
	}); err != nil {
		return err
	}
	r.logDone(name, "Deleted connection")
	return nil
}

func (r *Reconciler) modify(ctx context.Context, p *Params, res *Result) error {
	name := p.ConnName
	observed, err := r.client.Show(ctx, name)
	if err != nil {
		return fmt.Errorf("reading connection %s: %w", name, err)
	}

	m := NewMapper(p)
	m.InferType(observed.Type())
	res.Type = m.Type()
	res.Warnings = append(res.Warnings, m.Warnings()...)

	changed, diff := m.Detect(observed)
	res.Diff = diff
	if !changed {
		res.Exists = "Connections already exist and no changes made"
		return nil
	}
	res.Exists = "Connections do exist so we are modifying them"

	args, edits := m.Command(false)
	if err := r.do(res, name, append([]string{"con", "modify", name}, args...), false, func() (*nmcli.Result, error) {
		return r.client.Modify(ctx, name, args)
	}); err != nil {
		return err
	}
	if err := r.edit(ctx, res, name, edits); err != nil {
		return err
	}
	if p.ConnReload {
		if err := r.reload(ctx, res, name); err != nil {
			return err
		}
	}
	r.logDone(name, "Modified connection (%d settings changed)", len(diff.Changed()))
	return nil
}

func (r *Reconciler) create(ctx context.Context, p *Params, res *Result) error {
	name := p.ConnName
	m := NewMapper(p)
	if m.Type() == "" {
		return util.NewValidationError(fmt.Sprintf("type is required to create connection %s", name))
	}
	res.Warnings = append(res.Warnings, m.Warnings()...)
	res.Connection = fmt.Sprintf("Connection %s of Type %s is being added", name, m.Type())

	connType := m.CreateType()
	args, edits := m.Command(true)
	addArgs := append([]string{"con", "add", "type", connType, "con-name", name}, args...)
	if err := r.do(res, name, addArgs, false, func() (*nmcli.Result, error) {
		return r.client.Add(ctx, connType, name, args)
	}); err != nil {
		return err
	}
	if err := r.edit(ctx, res, name, edits); err != nil {
		return err
	}
	if m.UpOnCreate() {
		if err := r.do(res, name, []string{"con", "up", name}, false, func() (*nmcli.Result, error) {
			return r.client.Up(ctx, name)
		}); err != nil {
			return err
		}
	}
	r.logDone(name, "Created %s connection", m.Type())
	return nil
}

func (r *Reconciler) activate(ctx context.Context, p *Params, exists bool, res *Result) error {
	if !exists {
		return nil
	}
	name := p.ConnName
	if p.ConnReload {
		if err := r.reload(ctx, res, name); err != nil {
			return err
		}
	}
	run := r.client.Up
	verb := "up"
	if p.State == StateDown {
		run = r.client.Down
		verb = "down"
	}
	if err := r.do(res, name, []string{"con", verb, name}, false, func() (*nmcli.Result, error) {
		return run(ctx, name)
	}); err != nil {
		return err
	}
	r.logDone(name, "Brought connection %s", verb)
	return nil
}

// edit writes secrets through an edit session, if there are any.
func (r *Reconciler) edit(ctx context.Context, res *Result, name string, edits []string) error {
	if len(edits) == 0 {
		return nil
	}
	commands := append(edits, "save", "quit")
	return r.do(res, name, []string{"con", "edit", name}, false, func() (*nmcli.Result, error) {
		return r.client.Edit(ctx, []string{name}, commands)
	})
}

func (r *Reconciler) reload(ctx context.Context, res *Result, name string) error {
	return r.do(res, name, []string{"con", "reload"}, false, func() (*nmcli.Result, error) {
		return r.client.Reload(ctx)
	})
}

// do records and, outside check mode, runs one mutating command. A
// nonzero exit is an error unless tolerated.
func (r *Reconciler) do(res *Result, name string, args []string, tolerate bool, run func() (*nmcli.Result, error)) error {
	line := nmcli.CommandLine(args)
	res.Commands = append(res.Commands, line)
	res.Changed = true
	if r.checkMode {
		return nil
	}

	out, err := run()
	if err != nil {
		return fmt.Errorf("running %s: %w", line, err)
	}
	res.Stdout, res.Stderr = out.Stdout, out.Stderr
	if out.RC != 0 {
		if tolerate {
			util.WithConnection(name).Debugf("%s exited %d (%s), continuing", line, out.RC, out.Code())
			return nil
		}
		return util.NewExecError(name, line, out.RC, out.Stderr)
	}
	return nil
}

func (r *Reconciler) logDone(name, format string, args ...any) {
	if r.checkMode {
		return
	}
	util.WithConnection(name).Infof(format, args...)
}
