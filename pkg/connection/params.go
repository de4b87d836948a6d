// Package connection reconciles NetworkManager connection profiles with a
// desired configuration. Params holds what the user asked for; the Mapper
// turns it into nmcli settings; Detect compares those settings against a
// profile's observed state; the Reconciler drives nmcli to converge.
package connection

// State is the requested end state of a connection.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
	StateUp      State = "up"
	StateDown    State = "down"
)

// Route is one structured static route.
type Route struct {
	IP      string `yaml:"ip" json:"ip"`
	NextHop string `yaml:"next_hop,omitempty" json:"next_hop,omitempty"`
	Metric  *int   `yaml:"metric,omitempty" json:"metric,omitempty"`
	Table   *int   `yaml:"table,omitempty" json:"table,omitempty"`
	Tos     *int   `yaml:"tos,omitempty" json:"tos,omitempty"`
	Cwnd    *int   `yaml:"cwnd,omitempty" json:"cwnd,omitempty"`
	MTU     *int   `yaml:"mtu,omitempty" json:"mtu,omitempty"`
	Onlink  *bool  `yaml:"onlink,omitempty" json:"onlink,omitempty"`
}

// Macvlan configures a macvlan connection.
type Macvlan struct {
	Mode        int    `yaml:"mode" json:"mode"`
	Parent      string `yaml:"parent" json:"parent"`
	Promiscuous *bool  `yaml:"promiscuous,omitempty" json:"promiscuous,omitempty"`
	Tap         *bool  `yaml:"tap,omitempty" json:"tap,omitempty"`
}

// Params is the desired configuration of one connection profile. Empty
// strings, nil pointers, and nil slices mean "not specified"; fields with
// module defaults are plain values (see NewParams).
type Params struct {
	IgnoreUnsupportedSuboptions bool   `yaml:"ignore_unsupported_suboptions" json:"ignore_unsupported_suboptions"`
	Autoconnect                 bool   `yaml:"autoconnect" json:"autoconnect"`
	AutoconnectPriority         *int   `yaml:"autoconnect_priority,omitempty" json:"autoconnect_priority,omitempty"`
	AutoconnectRetries          *int   `yaml:"autoconnect_retries,omitempty" json:"autoconnect_retries,omitempty"`
	State                       State  `yaml:"state" json:"state"`
	ConnName                    string `yaml:"conn_name" json:"conn_name"`
	ConnReload                  bool   `yaml:"conn_reload" json:"conn_reload"`
	Master                      string `yaml:"master,omitempty" json:"master,omitempty"`
	SlaveType                   string `yaml:"slave_type,omitempty" json:"slave_type,omitempty"`
	Ifname                      string `yaml:"ifname,omitempty" json:"ifname,omitempty"`
	Type                        string `yaml:"type,omitempty" json:"type,omitempty"`

	// IPv4
	IP4            []string `yaml:"ip4,omitempty" json:"ip4,omitempty"`
	GW4            string   `yaml:"gw4,omitempty" json:"gw4,omitempty"`
	GW4IgnoreAuto  bool     `yaml:"gw4_ignore_auto" json:"gw4_ignore_auto"`
	Routes4        []string `yaml:"routes4,omitempty" json:"routes4,omitempty"`
	Routes4Ext     []Route  `yaml:"routes4_extended,omitempty" json:"routes4_extended,omitempty"`
	RouteMetric4   *int     `yaml:"route_metric4,omitempty" json:"route_metric4,omitempty"`
	RoutingRules4  []string `yaml:"routing_rules4,omitempty" json:"routing_rules4,omitempty"`
	NeverDefault4  bool     `yaml:"never_default4" json:"never_default4"`
	DNS4           []string `yaml:"dns4,omitempty" json:"dns4,omitempty"`
	DNS4Search     []string `yaml:"dns4_search,omitempty" json:"dns4_search,omitempty"`
	DNS4Options    []string `yaml:"dns4_options,omitempty" json:"dns4_options,omitempty"`
	DNS4IgnoreAuto bool     `yaml:"dns4_ignore_auto" json:"dns4_ignore_auto"`
	Method4        string   `yaml:"method4,omitempty" json:"method4,omitempty"`
	MayFail4       bool     `yaml:"may_fail4" json:"may_fail4"`
	DHCPClientID   string   `yaml:"dhcp_client_id,omitempty" json:"dhcp_client_id,omitempty"`

	// IPv6
	IP6            []string `yaml:"ip6,omitempty" json:"ip6,omitempty"`
	GW6            string   `yaml:"gw6,omitempty" json:"gw6,omitempty"`
	GW6IgnoreAuto  bool     `yaml:"gw6_ignore_auto" json:"gw6_ignore_auto"`
	DNS6           []string `yaml:"dns6,omitempty" json:"dns6,omitempty"`
	DNS6Search     []string `yaml:"dns6_search,omitempty" json:"dns6_search,omitempty"`
	DNS6Options    []string `yaml:"dns6_options,omitempty" json:"dns6_options,omitempty"`
	DNS6IgnoreAuto bool     `yaml:"dns6_ignore_auto" json:"dns6_ignore_auto"`
	Routes6        []string `yaml:"routes6,omitempty" json:"routes6,omitempty"`
	Routes6Ext     []Route  `yaml:"routes6_extended,omitempty" json:"routes6_extended,omitempty"`
	RouteMetric6   *int     `yaml:"route_metric6,omitempty" json:"route_metric6,omitempty"`
	Method6        string   `yaml:"method6,omitempty" json:"method6,omitempty"`
	IPPrivacy6     string   `yaml:"ip_privacy6,omitempty" json:"ip_privacy6,omitempty"`
	AddrGenMode6   string   `yaml:"addr_gen_mode6,omitempty" json:"addr_gen_mode6,omitempty"`

	// Bond
	Mode           string `yaml:"mode" json:"mode"`
	Miimon         *int   `yaml:"miimon,omitempty" json:"miimon,omitempty"`
	Downdelay      *int   `yaml:"downdelay,omitempty" json:"downdelay,omitempty"`
	Updelay        *int   `yaml:"updelay,omitempty" json:"updelay,omitempty"`
	XmitHashPolicy string `yaml:"xmit_hash_policy,omitempty" json:"xmit_hash_policy,omitempty"`
	FailOverMAC    string `yaml:"fail_over_mac,omitempty" json:"fail_over_mac,omitempty"`
	ArpInterval    *int   `yaml:"arp_interval,omitempty" json:"arp_interval,omitempty"`
	ArpIPTarget    string `yaml:"arp_ip_target,omitempty" json:"arp_ip_target,omitempty"`
	Primary        string `yaml:"primary,omitempty" json:"primary,omitempty"`

	MTU  *int   `yaml:"mtu,omitempty" json:"mtu,omitempty"`
	MAC  string `yaml:"mac,omitempty" json:"mac,omitempty"`
	Zone string `yaml:"zone,omitempty" json:"zone,omitempty"`

	// Bridge
	STP           bool `yaml:"stp" json:"stp"`
	Priority      int  `yaml:"priority" json:"priority"`
	SlavePriority int  `yaml:"slavepriority" json:"slavepriority"`
	ForwardDelay  int  `yaml:"forwarddelay" json:"forwarddelay"`
	HelloTime     int  `yaml:"hellotime" json:"hellotime"`
	MaxAge        int  `yaml:"maxage" json:"maxage"`
	AgeingTime    int  `yaml:"ageingtime" json:"ageingtime"`
	Hairpin       bool `yaml:"hairpin" json:"hairpin"`
	PathCost      int  `yaml:"path_cost" json:"path_cost"`

	// Team
	Runner             string `yaml:"runner" json:"runner"`
	RunnerHwaddrPolicy string `yaml:"runner_hwaddr_policy,omitempty" json:"runner_hwaddr_policy,omitempty"`
	RunnerFastRate     *bool  `yaml:"runner_fast_rate,omitempty" json:"runner_fast_rate,omitempty"`

	// VLAN
	VlanID  *int   `yaml:"vlanid,omitempty" json:"vlanid,omitempty"`
	VlanDev string `yaml:"vlandev,omitempty" json:"vlandev,omitempty"`
	Flags   string `yaml:"flags,omitempty" json:"flags,omitempty"`
	Ingress string `yaml:"ingress,omitempty" json:"ingress,omitempty"`
	Egress  string `yaml:"egress,omitempty" json:"egress,omitempty"`

	// VXLAN
	VxlanID     *int   `yaml:"vxlan_id,omitempty" json:"vxlan_id,omitempty"`
	VxlanLocal  string `yaml:"vxlan_local,omitempty" json:"vxlan_local,omitempty"`
	VxlanRemote string `yaml:"vxlan_remote,omitempty" json:"vxlan_remote,omitempty"`

	// IP tunnels (gre, ipip, sit)
	IPTunnelDev       string `yaml:"ip_tunnel_dev,omitempty" json:"ip_tunnel_dev,omitempty"`
	IPTunnelLocal     string `yaml:"ip_tunnel_local,omitempty" json:"ip_tunnel_local,omitempty"`
	IPTunnelRemote    string `yaml:"ip_tunnel_remote,omitempty" json:"ip_tunnel_remote,omitempty"`
	IPTunnelInputKey  string `yaml:"ip_tunnel_input_key,omitempty" json:"ip_tunnel_input_key,omitempty"`
	IPTunnelOutputKey string `yaml:"ip_tunnel_output_key,omitempty" json:"ip_tunnel_output_key,omitempty"`

	SSID      string         `yaml:"ssid,omitempty" json:"ssid,omitempty"`
	Wifi      map[string]any `yaml:"wifi,omitempty" json:"wifi,omitempty"`
	WifiSec   map[string]any `yaml:"wifi_sec,omitempty" json:"wifi_sec,omitempty"`
	GSM       map[string]any `yaml:"gsm,omitempty" json:"gsm,omitempty"`
	Macvlan   *Macvlan       `yaml:"macvlan,omitempty" json:"macvlan,omitempty"`
	Wireguard map[string]any `yaml:"wireguard,omitempty" json:"wireguard,omitempty"`
	VPN       map[string]any `yaml:"vpn,omitempty" json:"vpn,omitempty"`
	SRIOV     map[string]any `yaml:"sriov,omitempty" json:"sriov,omitempty"`
	Table     *int           `yaml:"table,omitempty" json:"table,omitempty"`

	// Infiniband
	TransportMode string `yaml:"transport_mode,omitempty" json:"transport_mode,omitempty"`
	InfinibandMAC string `yaml:"infiniband_mac,omitempty" json:"infiniband_mac,omitempty"`
}

// NewParams returns Params for the named connection with every module
// default applied.
func NewParams(name string, state State) *Params {
	return &Params{
		ConnName:      name,
		State:         state,
		Autoconnect:   true,
		MayFail4:      true,
		Mode:          "balance-rr",
		STP:           true,
		Priority:      128,
		SlavePriority: 32,
		ForwardDelay:  15,
		HelloTime:     2,
		MaxAge:        20,
		AgeingTime:    300,
		PathCost:      100,
		Runner:        "roundrobin",
	}
}

// Clone returns a copy of p whose maps can be modified independently.
// Slices are shared; nothing in this package mutates them.
func (p *Params) Clone() *Params {
	c := *p
	c.Wifi = cloneMap(p.Wifi)
	c.WifiSec = cloneMap(p.WifiSec)
	c.GSM = cloneMap(p.GSM)
	c.Wireguard = cloneMap(p.Wireguard)
	c.VPN = cloneMap(p.VPN)
	c.SRIOV = cloneMap(p.SRIOV)
	if p.Macvlan != nil {
		m := *p.Macvlan
		c.Macvlan = &m
	}
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
