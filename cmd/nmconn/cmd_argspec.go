package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/nmconn/pkg/argspec"
)

var argspecCmd = &cobra.Command{
	Use:   "argspec [name]",
	Short: "List or dump module argument schemas",
	Long: `List the registered argument schemas, or dump one as YAML.

Examples:
  nmconn argspec
  nmconn argspec nmcli
  nmconn argspec hsrp_interfaces`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range argspec.Names() {
				fmt.Println(name)
			}
			return nil
		}

		spec, ok := argspec.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown argument spec: %s", args[0])
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(spec)
	},
}
