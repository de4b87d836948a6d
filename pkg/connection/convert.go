package connection

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/newtron-network/nmconn/pkg/util"
)

func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolValue(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func strValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func listValue(l []string) any {
	if l == nil {
		return nil
	}
	return l
}

// normalizeValue converts a free-form sub-option value decoded from YAML
// or JSON to one of the Options value types.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, bool, int, string, []string:
		return x
	case int64:
		return int(x)
	case float64:
		if x == math.Trunc(x) {
			return int(x)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		out := make([]string, len(x))
		for i, e := range x {
			out[i] = toText(normalizeValue(e))
		}
		return out
	}
	return fmt.Sprint(v)
}

// toText renders an option value the way nmcli prints it.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		return util.BoolToYesNo(x)
	case []string:
		return strings.Join(x, ",")
	}
	return fmt.Sprint(v)
}

func mtuText(v any) any {
	switch x := v.(type) {
	case nil:
		return "auto"
	case int:
		if x == 0 {
			return "auto"
		}
	}
	return toText(v)
}

func ip6PrivacyNum(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if n, ok := ip6PrivacyValues[s]; ok {
		return n
	}
	return s
}

// routeString renders a route as "ip [next_hop] [metric] [attr=value...]"
// with the remaining attributes sorted by name.
func routeString(ip, nextHop, metric string, attrs map[string]string) string {
	var b strings.Builder
	b.WriteString(ip)
	if nextHop != "" {
		b.WriteString(" " + nextHop)
	}
	if metric != "" {
		b.WriteString(" " + metric)
	}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, " %s=%s", k, strings.ToLower(attrs[k]))
	}
	return b.String()
}

func (r Route) String() string {
	attrs := make(map[string]string)
	for name, p := range map[string]*int{"table": r.Table, "tos": r.Tos, "cwnd": r.Cwnd, "mtu": r.MTU} {
		if p != nil {
			attrs[name] = strconv.Itoa(*p)
		}
	}
	if r.Onlink != nil {
		attrs["onlink"] = strconv.FormatBool(*r.Onlink)
	}
	metric := ""
	if r.Metric != nil {
		metric = strconv.Itoa(*r.Metric)
	}
	return routeString(r.IP, r.NextHop, metric, attrs)
}

// routeStrings returns the plain routes if given, otherwise the structured
// routes rendered as strings.
func routeStrings(routes []string, extended []Route) []string {
	if routes != nil {
		return routes
	}
	if extended == nil {
		return nil
	}
	out := make([]string, len(extended))
	for i, r := range extended {
		out[i] = r.String()
	}
	return out
}

var routeParam = regexp.MustCompile(`([\w-]*)\s?=\s?([^\s,}]*)`)

// normalizeRoutes rewrites routes as printed by `nmcli con show`, such as
// "{ ip = 10.0.0.0/24, nh = 10.0.0.1, mt = 100 }", into routeString form.
func normalizeRoutes(raw []string) []string {
	out := make([]string, len(raw))
	for i, r := range raw {
		var ip, nextHop, metric string
		attrs := make(map[string]string)
		for _, m := range routeParam.FindAllStringSubmatch(r, -1) {
			switch m[1] {
			case "ip":
				ip = m[2]
			case "nh":
				nextHop = m[2]
			case "mt":
				metric = m[2]
			default:
				attrs[m[1]] = m[2]
			}
		}
		out[i] = routeString(ip, nextHop, metric, attrs)
	}
	return out
}

var hexValue = regexp.MustCompile(`^0x([0-9A-Fa-f]+)`)

// hexToDecimal converts a leading "0x.." value to decimal text and leaves
// anything else unchanged.
func hexToDecimal(s string) string {
	m := hexValue.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	n, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return s
	}
	return strconv.FormatUint(n, 10)
}

var vpnDataSep = regexp.MustCompile(`\s*=\s*`)

// vpnDataParts splits vpn.data into sorted "key=value" parts.
func vpnDataParts(s string, normalize bool) []string {
	parts := util.SplitTrim(s, ",")
	for i, p := range parts {
		if normalize {
			if loc := vpnDataSep.FindStringIndex(p); loc != nil {
				p = p[:loc[0]] + "=" + p[loc[1]:]
			}
		}
		parts[i] = p
	}
	sort.Strings(parts)
	return parts
}
