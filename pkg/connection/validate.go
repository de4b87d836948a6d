package connection

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

// Validate checks the combinations of options nmcli cannot accept. It
// makes no external calls.
func (p *Params) Validate() error {
	v := &util.ValidationBuilder{}

	if p.ConnName == "" {
		v.AddError("Please specify a name for the connection")
	}
	switch p.State {
	case StatePresent, StateAbsent, StateUp, StateDown:
	default:
		v.AddErrorf("state must be one of present, absent, up, down, got: %q", p.State)
	}

	if p.NeverDefault4 && p.GW4 != "" {
		v.AddError("parameters are mutually exclusive: never_default4|gw4")
	}
	if p.Routes4 != nil && p.Routes4Ext != nil {
		v.AddError("parameters are mutually exclusive: routes4_extended|routes4")
	}
	if p.Routes6 != nil && p.Routes6Ext != nil {
		v.AddError("parameters are mutually exclusive: routes6_extended|routes6")
	}
	if p.Type == "wifi" && p.SSID == "" {
		v.AddError("type is wifi but all of the following are missing: ssid")
	}

	if _, legacy := slaveTypeOf[p.Type]; !legacy && p.SlaveType != "" && p.Master == "" {
		v.AddError("'master' option is required when 'slave_type' is specified.")
	}
	if want, legacy := slaveTypeOf[p.Type]; legacy && p.SlaveType != "" && p.SlaveType != want {
		v.AddErrorf("Connection type '%s' cannot be combined with '%s' slave-type. Allowed slave-type for '%s' is '%s'.",
			p.Type, p.SlaveType, p.Type, want)
	}

	if p.Type == "team" {
		if p.RunnerHwaddrPolicy != "" && p.Runner != "activebackup" {
			v.AddError("Runner-hwaddr-policy is only allowed for runner activebackup")
		}
		if p.RunnerFastRate != nil && p.Runner != "lacp" {
			v.AddError("runner-fast-rate is only allowed for runner lacp")
		}
	}
	if p.Type == "team-slave" || p.SlaveType == "team" {
		if p.Master == "" {
			v.AddErrorf("Please specify a name for the master when type is %s", p.Type)
		}
		if p.Ifname == "" {
			v.AddErrorf("Please specify an interface name for the connection when type is %s", p.Type)
		}
	}

	if p.Type == "macvlan" && p.State == StatePresent && p.Macvlan == nil {
		v.AddError("type is macvlan but all of the following are missing: macvlan")
	}
	if p.IPPrivacy6 != "" {
		if _, ok := ip6PrivacyValues[p.IPPrivacy6]; !ok {
			v.AddErrorf("%s is invalid ip_privacy6 option", p.IPPrivacy6)
		}
	}

	return v.Build()
}

// UnsupportedOptionsError lists sub-options the installed nmcli does not
// know.
type UnsupportedOptionsError struct {
	Options []string
}

func (e *UnsupportedOptionsError) Error() string {
	return fmt.Sprintf(`Invalid or unsupported option(s): "%s"`, strings.Join(e.Options, `", "`))
}

func (e *UnsupportedOptionsError) Unwrap() error {
	return util.ErrUnsupportedOption
}

// wirelessGroups pairs each wifi sub-option group with its nmcli setting.
var wirelessGroups = []struct {
	option  string
	setting string
	group   func(p *Params) map[string]any
}{
	{"wifi", "802-11-wireless", func(p *Params) map[string]any { return p.Wifi }},
	{"wifi_sec", "802-11-wireless-security", func(p *Params) map[string]any { return p.WifiSec }},
}

// CheckWireless validates the wifi and wifi_sec sub-options of a wifi
// connection against the properties the installed nmcli supports.
// Unsupported sub-options fail the check, or are removed from p with a
// warning when IgnoreUnsupportedSuboptions is set. A "ssid" key in the
// wifi group is always dropped in favor of the ssid option.
func CheckWireless(ctx context.Context, client *nmcli.Client, p *Params) ([]string, error) {
	if p.Type != "wifi" {
		return nil, nil
	}
	var warnings []string
	if _, ok := p.Wifi["ssid"]; ok {
		warnings = append(warnings, "Ignoring option 'wifi.ssid', it must be specified with option 'ssid'")
		delete(p.Wifi, "ssid")
	}

	for _, g := range wirelessGroups {
		group := g.group(p)
		if len(group) == 0 {
			continue
		}
		supported, err := client.SupportedProperties(ctx, p.Type, g.setting)
		if err != nil {
			return warnings, fmt.Errorf("listing %s properties: %w", g.setting, err)
		}
		known := make(map[string]bool, len(supported))
		for _, s := range supported {
			known[s] = true
		}

		var unsupported []string
		for _, k := range sortedKeys(group) {
			if !known[k] {
				unsupported = append(unsupported, k)
			}
		}
		if len(unsupported) == 0 {
			continue
		}

		names := make([]string, len(unsupported))
		for i, k := range unsupported {
			names[i] = g.option + "." + k
		}
		uerr := &UnsupportedOptionsError{Options: names}
		if !p.IgnoreUnsupportedSuboptions {
			return warnings, uerr
		}
		warnings = append(warnings, uerr.Error())
		for _, k := range unsupported {
			delete(group, k)
		}
	}
	return warnings, nil
}
