package connection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

// Mapper translates Params into nmcli settings.
type Mapper struct {
	p        *Params
	connType string

	// The IP methods follow the declared type, not one inferred later
	// from the existing profile.
	method4 string
	method6 string
}

// NewMapper returns a Mapper for p. p must not be modified afterwards.
func NewMapper(p *Params) *Mapper {
	return &Mapper{
		p:        p,
		connType: p.Type,
		method4:  ipMethod(p.Method4, p.Type, p.IP4),
		method6:  ipMethod(p.Method6, p.Type, p.IP6),
	}
}

func ipMethod(method, connType string, addrs []string) string {
	switch {
	case method != "":
		return method
	case ipDisabledTypes[connType] && len(addrs) == 0:
		return "disabled"
	case len(addrs) > 0:
		return "manual"
	}
	return ""
}

// Type returns the connection type the mapper works with.
func (m *Mapper) Type() string {
	return m.connType
}

// InferType adopts the type reported by an existing profile when none was
// requested. The legacy 802-11-wireless name becomes wifi.
func (m *Mapper) InferType(observed string) {
	if m.connType != "" || observed == "" {
		return
	}
	if observed == "802-11-wireless" {
		observed = "wifi"
	}
	m.connType = observed
}

// CreateType is the type passed to `nmcli con add`.
func (m *Mapper) CreateType() string {
	if tunnelConnTypes[m.connType] {
		return "ip-tunnel"
	}
	return m.connType
}

func (m *Mapper) macSetting() string {
	if m.connType == "bridge" {
		return "bridge.mac-address"
	}
	return "802-3-ethernet.cloned-mac-address"
}

func (m *Mapper) mtuSetting() string {
	if m.connType == "infiniband" {
		return "infiniband.mtu"
	}
	return "802-3-ethernet.mtu"
}

// UpOnCreate reports whether a newly created profile has to be activated
// for its MTU or DNS settings to take effect.
func (m *Mapper) UpOnCreate() bool {
	p := m.p
	switch {
	case upOnCreateTypes[m.connType]:
		return p.MTU != nil || p.DNS4 != nil || p.DNS6 != nil
	case m.connType == "team":
		return p.DNS4 != nil || p.DNS6 != nil
	}
	return false
}

// Warnings returns notices about settings the mapper filled in on the
// user's behalf.
func (m *Mapper) Warnings() []string {
	var w []string
	if st, ok := slaveTypeOf[m.connType]; ok && m.p.SlaveType == "" {
		w = append(w, fmt.Sprintf("Connection 'slave-type' property automatically set to '%s' because of using '%s' connection type.", st, m.connType))
	}
	if m.connType == "bridge-slave" {
		w = append(w, "Connection type as 'bridge-slave' implies 'ethernet' connection with 'bridge' slave-type. Consider using slave_type='bridge' with necessary type.")
	}
	return w
}

func (m *Mapper) hasIPSettings() bool {
	p := m.p
	return (ipConnTypes[m.connType] && (p.Master == "" || p.SlaveType == "vrf")) || m.connType == "ovs-interface"
}

// Options returns the settings for the connection. With detect set the
// values are rendered for comparison against `nmcli con show` output;
// otherwise for the create and modify command lines.
func (m *Mapper) Options(detect bool) *Options {
	p := m.p
	o := NewOptions()

	o.Set("connection.autoconnect", p.Autoconnect)
	o.Set("connection.autoconnect-priority", intValue(p.AutoconnectPriority))
	o.Set("connection.autoconnect-retries", intValue(p.AutoconnectRetries))
	o.Set("connection.zone", strValue(p.Zone))

	if m.hasIPSettings() {
		o.Set("ipv4.addresses", listValue(util.EnforceIPv4CIDR(p.IP4)))
		o.Set("ipv4.dhcp-client-id", strValue(p.DHCPClientID))
		o.Set("ipv4.dns", listValue(p.DNS4))
		o.Set("ipv4.dns-search", listValue(p.DNS4Search))
		o.Set("ipv4.dns-options", listValue(p.DNS4Options))
		o.Set("ipv4.ignore-auto-dns", p.DNS4IgnoreAuto)
		o.Set("ipv4.gateway", strValue(p.GW4))
		o.Set("ipv4.ignore-auto-routes", p.GW4IgnoreAuto)
		o.Set("ipv4.routes", listValue(routeStrings(p.Routes4, p.Routes4Ext)))
		o.Set("ipv4.route-metric", intValue(p.RouteMetric4))
		o.Set("ipv4.routing-rules", listValue(p.RoutingRules4))
		o.Set("ipv4.never-default", p.NeverDefault4)
		o.Set("ipv4.method", strValue(m.method4))
		// nmcli keeps may-fail at yes on disabled profiles whatever is set.
		if m.method4 != "disabled" {
			o.Set("ipv4.may-fail", p.MayFail4)
		}
		o.Set("ipv6.addresses", listValue(util.EnforceIPv6CIDR(p.IP6)))
		o.Set("ipv6.dns", listValue(p.DNS6))
		o.Set("ipv6.dns-search", listValue(p.DNS6Search))
		o.Set("ipv6.dns-options", listValue(p.DNS6Options))
		o.Set("ipv6.ignore-auto-dns", p.DNS6IgnoreAuto)
		o.Set("ipv6.gateway", strValue(p.GW6))
		o.Set("ipv6.ignore-auto-routes", p.GW6IgnoreAuto)
		o.Set("ipv6.routes", listValue(routeStrings(p.Routes6, p.Routes6Ext)))
		o.Set("ipv6.route-metric", intValue(p.RouteMetric6))
		o.Set("ipv6.method", strValue(m.method6))
		o.Set("ipv6.ip6-privacy", strValue(p.IPPrivacy6))
		o.Set("ipv6.addr-gen-mode", strValue(p.AddrGenMode6))
	}

	if p.MAC != "" {
		o.Set(m.macSetting(), p.MAC)
	}
	if mtuConnTypes[m.connType] {
		o.Set(m.mtuSetting(), intValue(p.MTU))
	}
	if slaveConnTypes[m.connType] {
		o.Set("connection.master", strValue(p.Master))
		o.Set("connection.slave-type", strValue(p.SlaveType))
	}

	m.typeOptions(o)

	if m.connType == "ethernet" {
		setGroup(o, "sriov", p.SRIOV)
	}

	m.convert(o, detect)
	return o
}

func (m *Mapper) typeOptions(o *Options) {
	p := m.p
	switch {
	case m.connType == "bond":
		o.Set("arp-interval", intValue(p.ArpInterval))
		o.Set("arp-ip-target", strValue(p.ArpIPTarget))
		o.Set("downdelay", intValue(p.Downdelay))
		o.Set("miimon", intValue(p.Miimon))
		o.Set("mode", strValue(p.Mode))
		o.Set("primary", strValue(p.Primary))
		o.Set("updelay", intValue(p.Updelay))
		o.Set("xmit_hash_policy", strValue(p.XmitHashPolicy))
		o.Set("fail_over_mac", strValue(p.FailOverMAC))
	case m.connType == "bond-slave" || m.connType == "team-slave":
		if p.SlaveType == "" {
			o.Set("connection.slave-type", slaveTypeOf[m.connType])
		}
	case m.connType == "bridge":
		o.Set("bridge.ageing-time", p.AgeingTime)
		o.Set("bridge.forward-delay", p.ForwardDelay)
		o.Set("bridge.hello-time", p.HelloTime)
		o.Set("bridge.max-age", p.MaxAge)
		// The kernel ignores the priority, and nmcli reports 32768, while
		// STP is off.
		if p.STP {
			o.Set("bridge.priority", p.Priority)
		}
		o.Set("bridge.stp", p.STP)
	case m.connType == "team":
		o.Set("team.runner", strValue(p.Runner))
		o.Set("team.runner-hwaddr-policy", strValue(p.RunnerHwaddrPolicy))
		if p.RunnerFastRate != nil {
			o.Set("team.runner-fast-rate", *p.RunnerFastRate)
		}
	case m.connType == "bridge-slave":
		if p.SlaveType == "" {
			o.Set("connection.slave-type", "bridge")
		}
		o.Set("bridge-port.path-cost", p.PathCost)
		o.Set("bridge-port.hairpin-mode", p.Hairpin)
		o.Set("bridge-port.priority", p.SlavePriority)
	case tunnelConnTypes[m.connType]:
		o.Set("ip-tunnel.local", strValue(p.IPTunnelLocal))
		o.Set("ip-tunnel.mode", m.connType)
		o.Set("ip-tunnel.parent", strValue(p.IPTunnelDev))
		o.Set("ip-tunnel.remote", strValue(p.IPTunnelRemote))
		if m.connType == "gre" {
			o.Set("ip-tunnel.input-key", strValue(p.IPTunnelInputKey))
			o.Set("ip-tunnel.output-key", strValue(p.IPTunnelOutputKey))
		}
	case m.connType == "vlan":
		o.Set("vlan.id", intValue(p.VlanID))
		o.Set("vlan.parent", strValue(p.VlanDev))
		o.Set("vlan.flags", strValue(p.Flags))
		o.Set("vlan.ingress", strValue(p.Ingress))
		o.Set("vlan.egress", strValue(p.Egress))
	case m.connType == "vxlan":
		o.Set("vxlan.id", intValue(p.VxlanID))
		o.Set("vxlan.local", strValue(p.VxlanLocal))
		o.Set("vxlan.remote", strValue(p.VxlanRemote))
	case m.connType == "wifi":
		o.Set("802-11-wireless.ssid", strValue(p.SSID))
		var slaveType any
		if p.Master != "" {
			slaveType = "bond"
			if p.SlaveType != "" {
				slaveType = p.SlaveType
			}
		}
		o.Set("connection.slave-type", slaveType)
		setGroup(o, "802-11-wireless", p.Wifi)
		setGroup(o, "802-11-wireless-security", p.WifiSec)
	case m.connType == "gsm":
		setGroup(o, "gsm", p.GSM)
	case m.connType == "macvlan":
		if mv := p.Macvlan; mv != nil {
			o.Set("macvlan.mode", mv.Mode)
			o.Set("macvlan.parent", strValue(mv.Parent))
			o.Set("macvlan.promiscuous", boolValue(mv.Promiscuous))
			o.Set("macvlan.tap", boolValue(mv.Tap))
		}
	case m.connType == "wireguard":
		setGroup(o, "wireguard", p.Wireguard)
	case m.connType == "vpn":
		m.vpnOptions(o)
	case m.connType == "infiniband":
		o.Set("infiniband.transport-mode", strValue(p.TransportMode))
		if p.InfinibandMAC != "" {
			o.Set("infiniband.mac-address", p.InfinibandMAC)
		}
	case m.connType == "vrf":
		o.Set("table", intValue(p.Table))
	}
}

// vpnOptions maps the vpn group: service-type and permissions have their
// own settings, everything else is folded into vpn.data.
func (m *Mapper) vpnOptions(o *Options) {
	var data []string
	for _, k := range sortedKeys(m.p.VPN) {
		v := normalizeValue(m.p.VPN[k])
		switch k {
		case "service-type":
			o.Set("vpn.service-type", v)
		case "permissions":
			o.Set("connection.permissions", v)
		default:
			data = append(data, k+"="+toText(v))
		}
	}
	if len(data) > 0 {
		o.Set("vpn.data", strings.Join(data, ", "))
	}
}

func setGroup(o *Options, prefix string, group map[string]any) {
	for _, k := range sortedKeys(group) {
		o.Set(prefix+"."+k, normalizeValue(group[k]))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// convert renders values in the form nmcli expects.
func (m *Mapper) convert(o *Options, detect bool) {
	mtuKey := m.mtuSetting()
	for _, key := range o.Keys() {
		v, _ := o.Get(key)
		switch {
		case detect && (key == "vlan.id" || key == "vxlan.id"):
			if v != nil {
				v = toText(v)
			}
		case detect && key == mtuKey:
			v = mtuText(v)
		case detect && key == "ipv6.ip6-privacy":
			v = ip6PrivacyNum(v)
		case !detect && nmcli.SettingKind(key) == nmcli.KindList:
			if l, ok := v.([]string); ok {
				v = toText(l)
			}
		}
		if b, ok := v.(bool); ok {
			v = util.BoolToYesNo(b)
		}
		o.Set(key, v)
	}
}

// Command returns the "key value" arguments for `nmcli con add` (create)
// or `nmcli con modify`, and the edit-session commands that set secrets
// kept off the command line.
func (m *Mapper) Command(create bool) (args []string, edits []string) {
	p := m.p
	o := NewOptions()

	ifname := p.Ifname
	if create && ifname == "" {
		ifname = p.ConnName
	}
	// A VPN has no interface unless one is named explicitly.
	if !(m.connType == "vpn" && p.Ifname == "") {
		o.Set("connection.interface-name", ifname)
	}
	o.Merge(m.Options(false))

	for _, key := range o.Keys() {
		v, _ := o.Get(key)
		if v == nil {
			continue
		}
		text := toText(v)
		switch {
		case editOnlySettings[key]:
			edits = append(edits, "set "+key+" "+text)
		case key == "xmit_hash_policy" || key == "fail_over_mac":
			args = append(args, "+bond.options", key+"="+text)
		default:
			args = append(args, key, text)
		}
	}
	return args, edits
}
