package util

import "strings"

// EnforceIPv4CIDR appends /32 to every address that carries no prefix
// length. A nil input stays nil.
func EnforceIPv4CIDR(addrs []string) []string {
	return enforceCIDR(addrs, "/32")
}

// EnforceIPv6CIDR appends /128 to every address that carries no prefix
// length. A nil input stays nil.
func EnforceIPv6CIDR(addrs []string) []string {
	return enforceCIDR(addrs, "/128")
}

func enforceCIDR(addrs []string, suffix string) []string {
	if addrs == nil {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		if strings.Contains(a, "/") {
			out[i] = a
		} else {
			out[i] = a + suffix
		}
	}
	return out
}

// NormalizeMAC upper-cases a MAC address. nmcli always reports MACs in
// upper case.
func NormalizeMAC(mac string) string {
	return strings.ToUpper(mac)
}
