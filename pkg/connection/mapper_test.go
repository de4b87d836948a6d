package connection

import (
	"strings"
	"testing"
)

func intp(i int) *int { return &i }
func boolp(b bool) *bool { return &b }

// argValue returns the value following key in a "key value" argument list.
func argValue(args []string, key string) (string, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return "", false
}

func TestIPMethod(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		connType string
		addrs    []string
		want     string
	}{
		{"explicit wins", "auto", "dummy", nil, "auto"},
		{"dummy without addresses", "", "dummy", nil, "disabled"},
		{"wireguard without addresses", "", "wireguard", []string{}, "disabled"},
		{"macvlan with addresses", "", "macvlan", []string{"10.0.0.1/24"}, "manual"},
		{"addresses imply manual", "", "ethernet", []string{"10.0.0.1/24"}, "manual"},
		{"nothing requested", "", "ethernet", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ipMethod(tt.method, tt.connType, tt.addrs); got != tt.want {
				t.Errorf("ipMethod() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandEthernetCreate(t *testing.T) {
	p := NewParams("eth0", StatePresent)
	p.Type = "ethernet"
	p.IP4 = []string{"10.0.0.5", "10.0.0.6/24"}
	p.GW4 = "10.0.0.1"
	p.DNS4 = []string{"8.8.8.8", "1.1.1.1"}

	args, edits := NewMapper(p).Command(true)
	if len(edits) != 0 {
		t.Errorf("edits = %v, want none", edits)
	}

	want := map[string]string{
		"connection.interface-name": "eth0",
		"connection.autoconnect":    "yes",
		"ipv4.addresses":            "10.0.0.5/32,10.0.0.6/24",
		"ipv4.gateway":              "10.0.0.1",
		"ipv4.dns":                  "8.8.8.8,1.1.1.1",
		"ipv4.method":               "manual",
		"ipv4.may-fail":             "yes",
		"ipv4.never-default":        "no",
	}
	for k, v := range want {
		got, ok := argValue(args, k)
		if !ok || got != v {
			t.Errorf("%s = %q (present %v), want %q", k, got, ok, v)
		}
	}
	if args[0] != "connection.interface-name" {
		t.Errorf("first setting = %s, want connection.interface-name", args[0])
	}
	for _, k := range []string{"802-3-ethernet.mtu", "ipv6.method", "connection.master"} {
		if _, ok := argValue(args, k); ok {
			t.Errorf("%s should not be set", k)
		}
	}
}

func TestCommandModifyKeepsIfnameUnset(t *testing.T) {
	p := NewParams("eth0", StatePresent)
	p.Type = "ethernet"
	args, _ := NewMapper(p).Command(false)
	if _, ok := argValue(args, "connection.interface-name"); ok {
		t.Error("modify should not set interface-name when ifname is not given")
	}
}

func TestCommandBondOptions(t *testing.T) {
	p := NewParams("bond0", StatePresent)
	p.Type = "bond"
	p.Mode = "802.3ad"
	p.Miimon = intp(100)
	p.XmitHashPolicy = "layer3+4"
	p.FailOverMAC = "active"

	args, _ := NewMapper(p).Command(true)
	line := strings.Join(args, " ")
	for _, want := range []string{
		"mode 802.3ad",
		"miimon 100",
		"+bond.options xmit_hash_policy=layer3+4",
		"+bond.options fail_over_mac=active",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("args %q missing %q", line, want)
		}
	}
}

func TestCommandSecretsUseEditSession(t *testing.T) {
	p := NewParams("home", StatePresent)
	p.Type = "wifi"
	p.SSID = "homenet"
	p.WifiSec = map[string]any{"key-mgmt": "wpa-psk", "psk": "hunter22"}

	args, edits := NewMapper(p).Command(true)
	if strings.Contains(strings.Join(args, " "), "hunter22") {
		t.Errorf("secret on command line: %v", args)
	}
	if len(edits) != 1 || edits[0] != "set 802-11-wireless-security.psk hunter22" {
		t.Errorf("edits = %v", edits)
	}
	if v, _ := argValue(args, "802-11-wireless-security.key-mgmt"); v != "wpa-psk" {
		t.Errorf("key-mgmt = %q", v)
	}
	if v, _ := argValue(args, "802-11-wireless.ssid"); v != "homenet" {
		t.Errorf("ssid = %q", v)
	}
}

func TestCommandVPN(t *testing.T) {
	p := NewParams("corp", StatePresent)
	p.Type = "vpn"
	p.VPN = map[string]any{
		"service-type":  "org.freedesktop.NetworkManager.libreswan",
		"permissions":   "user1",
		"right":         "vpn.example.com",
		"ipsec-enabled": true,
	}

	args, _ := NewMapper(p).Command(true)
	if _, ok := argValue(args, "connection.interface-name"); ok {
		t.Error("vpn without ifname should not set interface-name")
	}
	if v, _ := argValue(args, "vpn.service-type"); v != "org.freedesktop.NetworkManager.libreswan" {
		t.Errorf("vpn.service-type = %q", v)
	}
	if v, _ := argValue(args, "connection.permissions"); v != "user1" {
		t.Errorf("connection.permissions = %q", v)
	}
	if v, _ := argValue(args, "vpn.data"); v != "ipsec-enabled=yes, right=vpn.example.com" {
		t.Errorf("vpn.data = %q", v)
	}
}

func TestCommandTunnel(t *testing.T) {
	p := NewParams("gre1", StatePresent)
	p.Type = "gre"
	p.IPTunnelDev = "eth0"
	p.IPTunnelRemote = "192.0.2.1"
	p.IPTunnelInputKey = "1111"

	m := NewMapper(p)
	if m.CreateType() != "ip-tunnel" {
		t.Errorf("CreateType() = %s", m.CreateType())
	}
	args, _ := m.Command(true)
	for k, v := range map[string]string{
		"ip-tunnel.mode":      "gre",
		"ip-tunnel.parent":    "eth0",
		"ip-tunnel.remote":    "192.0.2.1",
		"ip-tunnel.input-key": "1111",
	} {
		if got, _ := argValue(args, k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestCommandSlaveTypes(t *testing.T) {
	p := NewParams("br0-port", StatePresent)
	p.Type = "bridge-slave"
	p.Master = "br0"

	m := NewMapper(p)
	args, _ := m.Command(true)
	if v, _ := argValue(args, "connection.slave-type"); v != "bridge" {
		t.Errorf("slave-type = %q, want bridge", v)
	}
	if v, _ := argValue(args, "bridge-port.hairpin-mode"); v != "no" {
		t.Errorf("hairpin-mode = %q", v)
	}
	if v, _ := argValue(args, "bridge-port.priority"); v != "32" {
		t.Errorf("bridge-port.priority = %q", v)
	}
	if _, ok := argValue(args, "ipv4.method"); ok {
		t.Error("enslaved connection should carry no IP settings")
	}
	if w := m.Warnings(); len(w) != 2 {
		t.Errorf("warnings = %v, want 2", w)
	}

	p.SlaveType = "bridge"
	if w := NewMapper(p).Warnings(); len(w) != 1 {
		t.Errorf("warnings with slave_type = %v, want 1", w)
	}
}

func TestVRFSlaveKeepsIPSettings(t *testing.T) {
	p := NewParams("eth1", StatePresent)
	p.Type = "ethernet"
	p.Master = "vrf-blue"
	p.SlaveType = "vrf"
	p.IP4 = []string{"10.1.0.1/24"}

	args, _ := NewMapper(p).Command(true)
	if v, _ := argValue(args, "ipv4.addresses"); v != "10.1.0.1/24" {
		t.Errorf("ipv4.addresses = %q", v)
	}
}

// A bridge with STP off reports priority 32768 whatever was set, so the
// priority is left out to keep re-applies unchanged.
func TestBridgePriorityOmittedWithoutSTPForIdempotency(t *testing.T) {
	p := NewParams("br0", StatePresent)
	p.Type = "bridge"
	args, _ := NewMapper(p).Command(true)
	if v, _ := argValue(args, "bridge.priority"); v != "128" {
		t.Errorf("bridge.priority = %q", v)
	}

	p.STP = false
	args, _ = NewMapper(p).Command(true)
	if _, ok := argValue(args, "bridge.priority"); ok {
		t.Error("bridge.priority should be omitted with stp off")
	}
	if v, _ := argValue(args, "bridge.stp"); v != "no" {
		t.Errorf("bridge.stp = %q", v)
	}
}

func TestDetectModeConversions(t *testing.T) {
	p := NewParams("vlan10", StatePresent)
	p.Type = "vlan"
	p.VlanID = intp(10)
	p.VlanDev = "eth0"
	p.IPPrivacy6 = "prefer-public-addr"

	o := NewMapper(p).Options(true)
	checks := map[string]any{
		"vlan.id":            "10",
		"802-3-ethernet.mtu": "auto",
		"ipv6.ip6-privacy":   "1 (enabled, prefer public IP)",
	}
	for k, want := range checks {
		if got, _ := o.Get(k); got != want {
			t.Errorf("%s = %v, want %v", k, got, want)
		}
	}

	o = NewMapper(p).Options(false)
	if got, _ := o.Get("vlan.id"); got != 10 {
		t.Errorf("command-mode vlan.id = %v, want 10", got)
	}
	if got, _ := o.Get("ipv6.ip6-privacy"); got != "prefer-public-addr" {
		t.Errorf("command-mode ip6-privacy = %v", got)
	}
}

// nmcli reports may-fail yes on a disabled method whatever was set, so it
// is left out to keep re-applies unchanged.
func TestDisabledMethodOmitsMayFailForIdempotency(t *testing.T) {
	p := NewParams("dummy0", StatePresent)
	p.Type = "dummy"
	o := NewMapper(p).Options(false)
	if got, _ := o.Get("ipv4.method"); got != "disabled" {
		t.Errorf("ipv4.method = %v", got)
	}
	if got, _ := o.Get("ipv6.method"); got != "disabled" {
		t.Errorf("ipv6.method = %v", got)
	}
	if _, ok := o.Get("ipv4.may-fail"); ok {
		t.Error("ipv4.may-fail should be omitted when IPv4 is disabled")
	}
}

func TestUpOnCreate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Params)
		want  bool
	}{
		{"ethernet plain", func(p *Params) { p.Type = "ethernet" }, false},
		{"ethernet mtu", func(p *Params) { p.Type = "ethernet"; p.MTU = intp(9000) }, true},
		{"bond dns6", func(p *Params) { p.Type = "bond"; p.DNS6 = []string{"2001:db8::53"} }, true},
		{"team mtu", func(p *Params) { p.Type = "team"; p.MTU = intp(9000) }, false},
		{"team dns4", func(p *Params) { p.Type = "team"; p.DNS4 = []string{"10.0.0.53"} }, true},
		{"vlan dns4", func(p *Params) { p.Type = "vlan"; p.DNS4 = []string{"10.0.0.53"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams("c", StatePresent)
			tt.setup(p)
			if got := NewMapper(p).UpOnCreate(); got != tt.want {
				t.Errorf("UpOnCreate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouteString(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		want  string
	}{
		{"ip only", Route{IP: "10.0.0.0/24"}, "10.0.0.0/24"},
		{"next hop and metric", Route{IP: "10.0.0.0/24", NextHop: "192.168.1.1", Metric: intp(10)}, "10.0.0.0/24 192.168.1.1 10"},
		{
			"attributes sorted",
			Route{IP: "10.0.0.0/24", Table: intp(5), Onlink: boolp(true), Cwnd: intp(3)},
			"10.0.0.0/24 cwnd=3 onlink=true table=5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.route.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeRoutes(t *testing.T) {
	got := normalizeRoutes([]string{
		"{ ip = 192.168.2.0/24, nh = 10.10.10.1, mt = 100, table=5, onlink=true }",
		"{ ip = 192.168.3.0/24 }",
	})
	want := []string{
		"192.168.2.0/24 10.10.10.1 100 onlink=true table=5",
		"192.168.3.0/24",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("normalizeRoutes() = %q, want %q", got, want)
	}
}

func TestRoutesExtendedCommand(t *testing.T) {
	p := NewParams("eth0", StatePresent)
	p.Type = "ethernet"
	p.Routes4Ext = []Route{
		{IP: "10.1.0.0/16", NextHop: "10.0.0.254"},
		{IP: "10.2.0.0/16", Metric: intp(5)},
	}
	args, _ := NewMapper(p).Command(false)
	if v, _ := argValue(args, "ipv4.routes"); v != "10.1.0.0/16 10.0.0.254,10.2.0.0/16 5" {
		t.Errorf("ipv4.routes = %q", v)
	}
}

func TestInferType(t *testing.T) {
	p := NewParams("wlan", StatePresent)
	m := NewMapper(p)
	m.InferType("802-11-wireless")
	if m.Type() != "wifi" {
		t.Errorf("Type() = %s, want wifi", m.Type())
	}

	p.Type = "ethernet"
	m = NewMapper(p)
	m.InferType("bond")
	if m.Type() != "ethernet" {
		t.Errorf("declared type replaced: %s", m.Type())
	}
}
