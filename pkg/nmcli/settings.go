package nmcli

// Kind is the value type nmcli uses for a setting.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindList
)

var boolSettings = map[string]bool{
	"bridge.stp":               true,
	"bridge-port.hairpin-mode": true,
	"connection.autoconnect":   true,
	"ipv4.never-default":       true,
	"ipv4.ignore-auto-dns":     true,
	"ipv4.ignore-auto-routes":  true,
	"ipv4.may-fail":            true,
	"ipv6.ignore-auto-dns":     true,
	"ipv6.ignore-auto-routes":  true,
	"802-11-wireless.hidden":   true,
	"team.runner-fast-rate":    true,
}

var listSettings = map[string]bool{
	"ipv4.addresses":                               true,
	"ipv6.addresses":                               true,
	"ipv4.dns":                                     true,
	"ipv4.dns-search":                              true,
	"ipv4.dns-options":                             true,
	"ipv4.routes":                                  true,
	"ipv4.routing-rules":                           true,
	"ipv6.dns":                                     true,
	"ipv6.dns-search":                              true,
	"ipv6.dns-options":                             true,
	"ipv6.routes":                                  true,
	"802-11-wireless-security.group":               true,
	"802-11-wireless-security.leap-password-flags": true,
	"802-11-wireless-security.pairwise":            true,
	"802-11-wireless-security.proto":               true,
	"802-11-wireless-security.psk-flags":           true,
	"802-11-wireless-security.wep-key-flags":       true,
	"802-11-wireless.mac-address-blacklist":        true,
}

var intSettings = map[string]bool{
	"connection.autoconnect-priority": true,
	"connection.autoconnect-retries":  true,
}

// SettingKind returns the value type of a setting key.
func SettingKind(key string) Kind {
	switch {
	case boolSettings[key]:
		return KindBool
	case listSettings[key]:
		return KindList
	case intSettings[key]:
		return KindInt
	}
	return KindString
}

// IsRouteSetting reports whether key holds route specifications, which
// nmcli prints separated by semicolons.
func IsRouteSetting(key string) bool {
	return key == "ipv4.routes" || key == "ipv6.routes"
}
