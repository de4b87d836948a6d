// Package ansible runs the connection reconciler as an Ansible binary
// module: arguments arrive as a JSON file and the result is a single JSON
// object on stdout.
package ansible

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/newtron-network/nmconn/pkg/argspec"
	"github.com/newtron-network/nmconn/pkg/connection"
	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

// NoLogValue replaces secret parameters echoed back in the invocation.
const NoLogValue = "VALUE_SPECIFIED_IN_NO_LOG_PARAMETER"

// Args is the decoded module arguments file.
type Args struct {
	Params    map[string]any
	CheckMode bool
	Diff      bool
}

// ParseArgs decodes an arguments file.
func ParseArgs(data []byte) (*Args, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("module arguments are not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New("module arguments must be a JSON object")
	}
	// Older controllers wrap the arguments in ANSIBLE_MODULE_ARGS.
	if wrapped := doc.Get("ANSIBLE_MODULE_ARGS"); wrapped.IsObject() {
		doc = wrapped
	}

	params, _ := doc.Value().(map[string]any)
	return &Args{
		Params:    params,
		CheckMode: doc.Get("_ansible_check_mode").Bool(),
		Diff:      doc.Get("_ansible_diff").Bool(),
	}, nil
}

// Output is the module result.
type Output struct {
	Changed    bool             `json:"changed"`
	Failed     bool             `json:"failed,omitempty"`
	Msg        string           `json:"msg,omitempty"`
	RC         int              `json:"rc,omitempty"`
	Name       string           `json:"name,omitempty"`
	ConnName   string           `json:"conn_name,omitempty"`
	State      string           `json:"state,omitempty"`
	Exists     string           `json:"Exists,omitempty"`
	Connection string           `json:"Connection,omitempty"`
	Stdout     string           `json:"stdout,omitempty"`
	Stderr     string           `json:"stderr,omitempty"`
	Diff       *connection.Diff `json:"diff,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Invocation json.RawMessage  `json:"invocation,omitempty"`
}

// Run validates args, reconciles through client, and builds the result.
// Failures are reported in the Output rather than returned.
func Run(ctx context.Context, args *Args, client *nmcli.Client) *Output {
	normalized, err := argspec.NMCLI.Validate(args.Params)
	if err != nil {
		return fail(err)
	}
	out := &Output{}
	out.Invocation, err = invocation(normalized)
	if err != nil {
		return fail(err)
	}

	params, err := connection.ParamsFromMap(args.Params)
	if err != nil {
		return fail(err)
	}

	res, err := connection.NewReconciler(client, args.CheckMode).Reconcile(ctx, params)
	if res != nil {
		out.Changed = res.Changed
		out.ConnName = res.ConnName
		out.State = string(res.State)
		out.Exists = res.Exists
		out.Connection = res.Connection
		out.Stdout = res.Stdout
		out.Stderr = res.Stderr
		out.Warnings = res.Warnings
		if args.Diff && res.Diff != nil {
			out.Diff = res.Diff
		}
	}
	if err != nil {
		out.Failed = true
		out.Name = params.ConnName
		out.Msg = err.Error()
		var execErr *util.ExecError
		if errors.As(err, &execErr) {
			out.RC = execErr.RC
			if execErr.Stderr != "" {
				out.Msg = execErr.Stderr
			}
		}
	}
	return out
}

func fail(err error) *Output {
	return &Output{Failed: true, Msg: err.Error()}
}

// invocation echoes the validated arguments with secrets masked.
func invocation(normalized map[string]any) (json.RawMessage, error) {
	buf, err := json.Marshal(map[string]any{"module_args": normalized})
	if err != nil {
		return nil, fmt.Errorf("encoding invocation: %w", err)
	}
	for _, path := range argspec.NMCLI.NoLogPaths(normalized) {
		buf, err = sjson.SetBytes(buf, "module_args."+path, NoLogValue)
		if err != nil {
			return nil, fmt.Errorf("masking %s: %w", path, err)
		}
	}
	return buf, nil
}

// JSON encodes the output. Encoding a plain struct cannot fail in
// practice; if it does the failure itself is reported as the result.
func (o *Output) JSON() []byte {
	buf, err := json.Marshal(o)
	if err != nil {
		return []byte(fmt.Sprintf(`{"failed": true, "msg": %q}`, err.Error()))
	}
	return buf
}
