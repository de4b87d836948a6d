package nmcli

import "strings"

// secretKeys are settings whose values must not reach logs.
var secretKeys = map[string]bool{
	"802-11-wireless-security.leap-password": true,
	"802-11-wireless-security.psk":           true,
	"802-11-wireless-security.wep-key0":      true,
	"802-11-wireless-security.wep-key1":      true,
	"802-11-wireless-security.wep-key2":      true,
	"802-11-wireless-security.wep-key3":      true,
	"ip-tunnel.input-key":                    true,
	"ip-tunnel.output-key":                   true,
	"wireguard.private-key":                  true,
}

// Hidden stands in for a secret value in diffs and listings.
const Hidden = "<hidden>"

// IsSecret reports whether key names a setting whose value is a secret.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// singleQuote wraps a string in single quotes, escaping any embedded single quotes.
func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// shellCommand joins argv into a single POSIX shell command line.
func shellCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = singleQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// Redact returns a copy of args with the value following every secret key
// replaced.
func Redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if secretKeys[out[i]] {
			out[i+1] = "********"
			i++
		}
	}
	return out
}

// CommandLine renders args for display, with secrets redacted.
func CommandLine(args []string) string {
	return "nmcli " + strings.Join(Redact(args), " ")
}
