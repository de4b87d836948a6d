// nmconn - NetworkManager connection reconciler
//
// Brings NetworkManager connection profiles to a declared state by driving
// nmcli, on this machine or on a remote host over SSH:
//   - Desired state from YAML files (one connection or a list)
//   - Dry-run by default (preview changes, require -x to execute)
//   - Audit logging of every apply
//   - Optional Redis host lock around executed applies
//
// Examples:
//
//	nmconn apply office.yaml                  # Preview changes
//	nmconn apply office.yaml -x               # Execute
//	nmconn --host nas1 apply nas.yaml -x      # Execute over SSH
//	nmconn show eth0-uplink                   # Current profile settings
//	nmconn down wlan-guest -x                 # Deactivate a profile
//	nmconn argspec hsrp_interfaces            # Dump an argument schema
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/newtron-network/nmconn/pkg/audit"
	"github.com/newtron-network/nmconn/pkg/cli"
	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/settings"
	"github.com/newtron-network/nmconn/pkg/util"
	"github.com/newtron-network/nmconn/pkg/version"
)

// app holds global flags and state shared by all commands.
var app struct {
	host       string
	sshUser    string
	sshKey     string
	knownHosts string
	askPass    bool
	nmcliPath  string
	lockRedis  string

	executeMode bool
	verbose     bool
	logJSON     bool
	jsonOutput  bool

	settings *settings.Settings
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if rc, ok := util.ExitCode(err); ok && rc > 0 {
			os.Exit(rc)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "nmconn",
	Short:             "NetworkManager connection reconciler",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `nmconn brings NetworkManager connection profiles to a declared state.

Write commands preview changes by default. Use -x to execute.

  nmconn [--host <host>] apply <file> [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		util.SetJSONFormat(app.logJSON)

		var err error
		app.settings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			app.settings = &settings.Settings{}
		}
		if isSettingsOrHelp(cmd) {
			return nil
		}

		if app.host == "" {
			app.host = app.settings.DefaultHost
		}
		if app.sshUser == "" {
			app.sshUser = app.settings.GetSSHUser()
		}
		if app.sshKey == "" {
			app.sshKey = app.settings.SSHKeyFile
		}
		if app.knownHosts == "" {
			app.knownHosts = app.settings.GetKnownHosts()
		}
		if app.nmcliPath == "" {
			app.nmcliPath = app.settings.GetNmcliPath()
		}
		if app.lockRedis == "" {
			app.lockRedis = app.settings.LockRedis
		}

		auditLogger, err := audit.NewFileLogger(app.settings.GetAuditLog(), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.host, "host", "H", "", "Remote host to manage over SSH (default: this machine)")
	rootCmd.PersistentFlags().StringVar(&app.sshUser, "ssh-user", "", "SSH login for --host")
	rootCmd.PersistentFlags().StringVar(&app.sshKey, "key", "", "SSH private key for --host")
	rootCmd.PersistentFlags().StringVar(&app.knownHosts, "known-hosts", "", "known_hosts file for --host")
	rootCmd.PersistentFlags().BoolVar(&app.askPass, "ask-pass", false, "Prompt for the SSH password")
	rootCmd.PersistentFlags().StringVar(&app.nmcliPath, "nmcli", "", "nmcli binary")
	rootCmd.PersistentFlags().StringVar(&app.lockRedis, "lock-redis", "", "Redis address for host locks")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&app.logJSON, "log-json", false, "Write logs to stderr as JSON")

	for _, cmd := range []*cobra.Command{applyCmd, upCmd, downCmd, deleteCmd} {
		addWriteFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{applyCmd, upCmd, downCmd, deleteCmd, listCmd, showCmd, auditCmd} {
		addOutputFlags(cmd)
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "conn", Title: "Connection Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)
	for _, cmd := range []*cobra.Command{applyCmd, listCmd, showCmd, upCmd, downCmd, deleteCmd} {
		cmd.GroupID = "conn"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{argspecCmd, auditCmd, settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Banner("nmconn"))
	},
}

// newClient connects to nmcli locally or on --host. The returned close
// function releases the SSH connection, if any.
func newClient() (*nmcli.Client, func(), error) {
	if app.host == "" {
		runner, err := nmcli.NewExecRunner(app.nmcliPath)
		if err != nil {
			return nil, nil, err
		}
		return nmcli.NewClient(runner), func() {}, nil
	}

	cfg := nmcli.SSHConfig{
		Host:       app.host,
		User:       app.sshUser,
		KeyFile:    app.sshKey,
		KnownHosts: app.knownHosts,
		Binary:     app.nmcliPath,
	}
	if app.askPass {
		fmt.Fprintf(os.Stderr, "%s@%s password: ", cfg.User, cfg.Host)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, nil, fmt.Errorf("reading password: %w", err)
		}
		cfg.Password = string(pw)
	}
	runner, err := nmcli.NewSSHRunner(cfg)
	if err != nil {
		return nil, nil, err
	}
	return nmcli.NewClient(runner), func() { runner.Close() }, nil
}

// targetHost names the managed host for locks and audit records.
func targetHost() string {
	if app.host != "" {
		return app.host
	}
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}

// currentUser names who ran the command, for locks and audit records.
func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

func printDryRunNotice() {
	if !app.executeMode && !app.jsonOutput {
		fmt.Println("\n" + yellow("DRY-RUN: No changes applied. Use -x to execute."))
	}
}

// isSettingsOrHelp checks whether cmd (or any ancestor) needs no host
// context.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings", "argspec":
			return true
		}
	}
	return false
}

// addWriteFlags registers -x/--execute as a local flag.
func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&app.executeMode, "execute", "x", false, "Execute changes (default is dry-run)")
}

// addOutputFlags registers --json as a local flag.
func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVar(&app.jsonOutput, "json", false, "JSON output")
}

// Color helpers delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
