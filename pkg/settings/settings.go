// Package settings manages persistent user settings for the nmconn CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds persistent user preferences
type Settings struct {
	// NmcliPath is the nmcli binary to run, on this host or the remote one
	NmcliPath string `json:"nmcli_path,omitempty"`

	// DefaultHost is the host to manage when --host is not specified.
	// Empty means the local machine.
	DefaultHost string `json:"default_host,omitempty"`

	// SSHUser is the login for remote hosts
	SSHUser string `json:"ssh_user,omitempty"`

	// SSHKeyFile is the private key for remote hosts
	SSHKeyFile string `json:"ssh_key_file,omitempty"`

	// KnownHosts is the known_hosts file used to verify remote hosts
	KnownHosts string `json:"known_hosts,omitempty"`

	// LockRedis is the Redis address used for host locks; empty disables locking
	LockRedis string `json:"lock_redis,omitempty"`

	// AuditLog is the audit log path
	AuditLog string `json:"audit_log,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nmconn_settings.json"
	}
	return filepath.Join(home, ".nmconn", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// GetNmcliPath returns the nmcli binary (with fallback)
func (s *Settings) GetNmcliPath() string {
	if s.NmcliPath != "" {
		return s.NmcliPath
	}
	return "nmcli"
}

// GetSSHUser returns the remote login (with fallback to $USER)
func (s *Settings) GetSSHUser() string {
	if s.SSHUser != "" {
		return s.SSHUser
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "root"
}

// GetKnownHosts returns the known_hosts file (with fallback)
func (s *Settings) GetKnownHosts() string {
	if s.KnownHosts != "" {
		return s.KnownHosts
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return filepath.Join(filepath.Dir(DefaultSettingsPath()), "audit.log")
}

// Set assigns a setting by its JSON key. It reports false for unknown keys.
func (s *Settings) Set(key, value string) bool {
	switch key {
	case "nmcli_path":
		s.NmcliPath = value
	case "default_host":
		s.DefaultHost = value
	case "ssh_user":
		s.SSHUser = value
	case "ssh_key_file":
		s.SSHKeyFile = value
	case "known_hosts":
		s.KnownHosts = value
	case "lock_redis":
		s.LockRedis = value
	case "audit_log":
		s.AuditLog = value
	default:
		return false
	}
	return true
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	return []string{"nmcli_path", "default_host", "ssh_user", "ssh_key_file", "known_hosts", "lock_redis", "audit_log"}
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
