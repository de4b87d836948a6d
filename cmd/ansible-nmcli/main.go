// ansible-nmcli is the nmcli connection module packaged as an Ansible
// binary module. Ansible runs it with the path of a JSON arguments file
// and reads one JSON result from stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/newtron-network/nmconn/pkg/ansible"
	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

func main() {
	// stdout carries the result; keep log noise off it.
	util.SetLogOutput(os.Stderr)
	util.SetLogLevel("error")
	util.SetJSONFormat(true)

	out := run()
	os.Stdout.Write(out.JSON())
	os.Stdout.WriteString("\n")
	if out.Failed {
		os.Exit(1)
	}
}

func run() *ansible.Output {
	if len(os.Args) != 2 {
		return &ansible.Output{Failed: true, Msg: fmt.Sprintf("usage: %s <args-file>", os.Args[0])}
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		return &ansible.Output{Failed: true, Msg: fmt.Sprintf("reading module arguments: %v", err)}
	}
	args, err := ansible.ParseArgs(data)
	if err != nil {
		return &ansible.Output{Failed: true, Msg: err.Error()}
	}

	runner, err := nmcli.NewExecRunner("")
	if err != nil {
		return &ansible.Output{Failed: true, Msg: err.Error()}
	}
	return ansible.Run(context.Background(), args, nmcli.NewClient(runner))
}
