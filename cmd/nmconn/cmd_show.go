package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/nmconn/pkg/cli"
	"github.com/newtron-network/nmconn/pkg/nmcli"
)

var showSecrets bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient()

		names, err := client.ListConnections(cmd.Context())
		if err != nil {
			return err
		}
		if app.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(names)
		}
		if len(names) == 0 {
			fmt.Println("No connections found")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <conn-name> [setting-prefix]",
	Short: "Show the settings of a connection profile",
	Long: `Show the settings of a connection profile as nmcli reports them.

An optional prefix limits output to matching settings. Secrets are
hidden unless --secrets is given.

Examples:
  nmconn show eth0-uplink
  nmconn show eth0-uplink ipv4
  nmconn --host nas1 show wlan0 802-11-wireless-security --secrets`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient()

		state, err := client.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		prefix := ""
		if len(args) == 2 {
			prefix = args[1]
		}
		keys := make([]string, 0, len(state))
		for k := range state {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		shown := make(map[string]any, len(keys))
		for _, k := range keys {
			shown[k] = state[k]
			if !showSecrets && nmcli.IsSecret(k) && state[k] != nil {
				shown[k] = nmcli.Hidden
			}
		}

		if app.jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(shown)
		}

		fmt.Printf("Connection: %s\n\n", bold(args[0]))
		t := cli.NewTable("SETTING", "VALUE")
		for _, k := range keys {
			t.Row(k, cli.Value(shown[k]))
		}
		t.Flush()
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showSecrets, "secrets", false, "Show secret values")
}
