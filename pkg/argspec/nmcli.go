package argspec

var (
	connectionTypes = []any{
		"bond", "bond-slave", "bridge", "bridge-slave", "dummy", "ethernet",
		"generic", "gre", "infiniband", "ipip", "sit", "team", "team-slave",
		"vlan", "vxlan", "wifi", "gsm", "macvlan", "wireguard", "vpn",
		"loopback", "ovs-interface", "ovs-bridge", "ovs-port", "vrf",
	}

	routeV4Options = map[string]*Option{
		"ip":       {Type: TypeStr, Required: true},
		"next_hop": {Type: TypeStr},
		"metric":   {Type: TypeInt},
		"table":    {Type: TypeInt},
		"tos":      {Type: TypeInt},
		"cwnd":     {Type: TypeInt},
		"mtu":      {Type: TypeInt},
		"onlink":   {Type: TypeBool},
	}

	routeV6Options = map[string]*Option{
		"ip":       {Type: TypeStr, Required: true},
		"next_hop": {Type: TypeStr},
		"metric":   {Type: TypeInt},
		"table":    {Type: TypeInt},
		"cwnd":     {Type: TypeInt},
		"mtu":      {Type: TypeInt},
		"onlink":   {Type: TypeBool},
	}
)

// NMCLI is the argument spec of the nmcli connection module.
var NMCLI = register(&Spec{
	Name: "nmcli",
	Options: map[string]*Option{
		"ignore_unsupported_suboptions": {Type: TypeBool, Default: false},
		"autoconnect":                   {Type: TypeBool, Default: true},
		"autoconnect_priority":          {Type: TypeInt},
		"autoconnect_retries":           {Type: TypeInt},
		"state":                         {Type: TypeStr, Required: true, Choices: []any{"absent", "present", "up", "down"}},
		"conn_name":                     {Type: TypeStr, Required: true},
		"conn_reload":                   {Type: TypeBool, Default: false},
		"master":                        {Type: TypeStr},
		"slave_type":                    {Type: TypeStr, Choices: []any{"bond", "bridge", "team", "ovs-port", "vrf"}},
		"ifname":                        {Type: TypeStr},
		"type":                          {Type: TypeStr, Choices: connectionTypes},

		"ip4":              {Type: TypeList, Elements: TypeStr},
		"gw4":              {Type: TypeStr},
		"gw4_ignore_auto":  {Type: TypeBool, Default: false},
		"routes4":          {Type: TypeList, Elements: TypeStr},
		"routes4_extended": {Type: TypeList, Elements: TypeDict, Options: routeV4Options},
		"route_metric4":    {Type: TypeInt},
		"routing_rules4":   {Type: TypeList, Elements: TypeStr},
		"never_default4":   {Type: TypeBool, Default: false},
		"dns4":             {Type: TypeList, Elements: TypeStr},
		"dns4_search":      {Type: TypeList, Elements: TypeStr},
		"dns4_options":     {Type: TypeList, Elements: TypeStr},
		"dns4_ignore_auto": {Type: TypeBool, Default: false},
		"method4":          {Type: TypeStr, Choices: []any{"auto", "link-local", "manual", "shared", "disabled"}},
		"may_fail4":        {Type: TypeBool, Default: true},
		"dhcp_client_id":   {Type: TypeStr},

		"ip6":              {Type: TypeList, Elements: TypeStr},
		"gw6":              {Type: TypeStr},
		"gw6_ignore_auto":  {Type: TypeBool, Default: false},
		"dns6":             {Type: TypeList, Elements: TypeStr},
		"dns6_search":      {Type: TypeList, Elements: TypeStr},
		"dns6_options":     {Type: TypeList, Elements: TypeStr},
		"dns6_ignore_auto": {Type: TypeBool, Default: false},
		"routes6":          {Type: TypeList, Elements: TypeStr},
		"routes6_extended": {Type: TypeList, Elements: TypeDict, Options: routeV6Options},
		"route_metric6":    {Type: TypeInt},
		"method6":          {Type: TypeStr, Choices: []any{"ignore", "auto", "dhcp", "link-local", "manual", "shared", "disabled"}},
		"ip_privacy6":      {Type: TypeStr, Choices: []any{"disabled", "prefer-public-addr", "prefer-temp-addr", "unknown"}},
		"addr_gen_mode6":   {Type: TypeStr, Choices: []any{"default", "default-or-eui64", "eui64", "stable-privacy"}},

		// bond
		"mode": {Type: TypeStr, Default: "balance-rr",
			Choices: []any{"802.3ad", "active-backup", "balance-alb", "balance-rr", "balance-tlb", "balance-xor", "broadcast"}},
		"miimon":           {Type: TypeInt},
		"downdelay":        {Type: TypeInt},
		"updelay":          {Type: TypeInt},
		"xmit_hash_policy": {Type: TypeStr},
		"fail_over_mac":    {Type: TypeStr, Choices: []any{"none", "active", "follow"}},
		"arp_interval":     {Type: TypeInt},
		"arp_ip_target":    {Type: TypeStr},
		"primary":          {Type: TypeStr},

		"mtu":  {Type: TypeInt},
		"mac":  {Type: TypeStr},
		"zone": {Type: TypeStr},

		// bridge
		"stp":           {Type: TypeBool, Default: true},
		"priority":      {Type: TypeInt, Default: 128},
		"slavepriority": {Type: TypeInt, Default: 32},
		"forwarddelay":  {Type: TypeInt, Default: 15},
		"hellotime":     {Type: TypeInt, Default: 2},
		"maxage":        {Type: TypeInt, Default: 20},
		"ageingtime":    {Type: TypeInt, Default: 300},
		"hairpin":       {Type: TypeBool, Default: false},
		"path_cost":     {Type: TypeInt, Default: 100},

		// team
		"runner": {Type: TypeStr, Default: "roundrobin",
			Choices: []any{"broadcast", "roundrobin", "activebackup", "loadbalance", "lacp"}},
		"runner_hwaddr_policy": {Type: TypeStr, Choices: []any{"same_all", "by_active", "only_active"}},
		"runner_fast_rate":     {Type: TypeBool},

		"vlanid":  {Type: TypeInt},
		"vlandev": {Type: TypeStr},
		"flags":   {Type: TypeStr},
		"ingress": {Type: TypeStr},
		"egress":  {Type: TypeStr},

		"vxlan_id":     {Type: TypeInt},
		"vxlan_local":  {Type: TypeStr},
		"vxlan_remote": {Type: TypeStr},

		"ip_tunnel_dev":        {Type: TypeStr},
		"ip_tunnel_local":      {Type: TypeStr},
		"ip_tunnel_remote":     {Type: TypeStr},
		"ip_tunnel_input_key":  {Type: TypeStr, NoLog: noLog(true)},
		"ip_tunnel_output_key": {Type: TypeStr, NoLog: noLog(true)},

		"ssid":     {Type: TypeStr},
		"wifi":     {Type: TypeDict},
		"wifi_sec": {Type: TypeDict, NoLog: noLog(true)},
		"gsm":      {Type: TypeDict},
		"macvlan": {Type: TypeDict, Options: map[string]*Option{
			"mode":        {Type: TypeInt, Choices: []any{1, 2, 3, 4, 5}, Required: true},
			"parent":      {Type: TypeStr, Required: true},
			"promiscuous": {Type: TypeBool},
			"tap":         {Type: TypeBool},
		}},
		"wireguard": {Type: TypeDict},
		"vpn":       {Type: TypeDict},
		"sriov":     {Type: TypeDict},
		"table":     {Type: TypeInt},

		"transport_mode": {Type: TypeStr, Choices: []any{"datagram", "connected"}},
		"infiniband_mac": {Type: TypeStr},
	},
	MutuallyExclusive: [][]string{
		{"never_default4", "gw4"},
		{"routes4_extended", "routes4"},
		{"routes6_extended", "routes6"},
	},
	RequiredIf: []RequiredIf{
		{Key: "type", Value: "wifi", Requirements: []string{"ssid"}},
	},
})
