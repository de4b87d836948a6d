package connection

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}

var (
	// ipConnTypes carry IPv4/IPv6 settings.
	ipConnTypes = set(
		"bond", "bridge", "dummy", "ethernet", "802-3-ethernet", "generic",
		"gre", "infiniband", "ipip", "sit", "team", "vlan", "wifi",
		"802-11-wireless", "gsm", "macvlan", "wireguard", "vpn", "loopback",
		"ovs-interface", "vrf",
	)

	mtuConnTypes = set(
		"bond", "bond-slave", "dummy", "ethernet", "infiniband", "team-slave", "vlan",
	)

	// slaveConnTypes may be enslaved to a master connection.
	slaveConnTypes = set(
		"ethernet", "bridge", "bond", "vlan", "team", "wifi", "bond-slave",
		"bridge-slave", "team-slave", "infiniband", "ovs-port", "ovs-interface",
	)

	tunnelConnTypes = set("gre", "ipip", "sit")

	// IP is disabled on these types unless addresses are given.
	ipDisabledTypes = set("dummy", "macvlan", "wireguard")

	// Creating one of these with an MTU or DNS servers activates it so the
	// settings reach the device.
	upOnCreateTypes = set("bond", "dummy", "ethernet", "infiniband", "wifi")

	// slaveTypeOf maps the legacy *-slave connection types to the
	// slave-type they imply.
	slaveTypeOf = map[string]string{
		"bond-slave":   "bond",
		"bridge-slave": "bridge",
		"team-slave":   "team",
	}

	// Settings that never go on the command line. They are written through
	// an edit session instead.
	editOnlySettings = set(
		"802-11-wireless-security.leap-password",
		"802-11-wireless-security.psk",
		"802-11-wireless-security.wep-key0",
		"802-11-wireless-security.wep-key1",
		"802-11-wireless-security.wep-key2",
		"802-11-wireless-security.wep-key3",
	)

	// orderedListSettings compare element by element; other lists compare
	// as multisets. The first address is the default source address and
	// resolver order matters.
	orderedListSettings = set(
		"ipv4.addresses", "ipv6.addresses",
		"ipv4.dns", "ipv6.dns",
		"ipv4.dns-search", "ipv6.dns-search",
	)

	ip6PrivacyValues = map[string]string{
		"disabled":           "0",
		"prefer-public-addr": "1 (enabled, prefer public IP)",
		"prefer-temp-addr":   "2 (enabled, prefer temporary IP)",
		"unknown":            "-1",
	}
)
