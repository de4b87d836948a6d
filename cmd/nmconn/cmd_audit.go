package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/nmconn/pkg/audit"
	"github.com/newtron-network/nmconn/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of connection applies.

Every apply is logged, previewed or executed, with:
  - Timestamp
  - User who ran it
  - Host and connection affected
  - Settings that differed and nmcli commands issued
  - Success/failure status

Examples:
  nmconn audit list --target nas1
  nmconn audit list --last 24h
  nmconn audit list --conn eth0-uplink --changed`,
}

var (
	auditHost     string
	auditConn     string
	auditUser     string
	auditLast     string
	auditLimit    int
	auditFailures bool
	auditChanged  bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Host:        auditHost,
			Connection:  auditConn,
			User:        auditUser,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
			ChangedOnly: auditChanged,
		}

		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if app.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "USER", "HOST", "CONNECTION", "STATE", "STATUS")
		for _, event := range events {
			status := cli.Status(event.Changed, event.DryRun, nil)
			if !event.Success {
				status = red("failed")
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Host,
				event.Connection,
				event.State,
				status,
			)
		}
		t.Flush()
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditHost, "target", "", "Filter by managed host")
	auditListCmd.Flags().StringVar(&auditConn, "conn", "", "Filter by connection")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed applies")
	auditListCmd.Flags().BoolVar(&auditChanged, "changed", false, "Show only applies that changed something")

	auditCmd.AddCommand(auditListCmd)
}
