package argspec

import (
	"errors"
	"strings"
	"testing"

	"github.com/newtron-network/nmconn/pkg/util"
)

func TestNMCLIValidateDefaults(t *testing.T) {
	out, err := NMCLI.Validate(map[string]any{
		"conn_name": "br0",
		"state":     "present",
		"type":      "bridge",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := map[string]any{
		"autoconnect":   true,
		"may_fail4":     true,
		"stp":           true,
		"priority":      128,
		"slavepriority": 32,
		"forwarddelay":  15,
		"hellotime":     2,
		"maxage":        20,
		"ageingtime":    300,
		"path_cost":     100,
		"mode":          "balance-rr",
		"runner":        "roundrobin",
		"conn_reload":   false,
	}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("%s = %v, want %v", k, out[k], v)
		}
	}
	if _, ok := out["mtu"]; ok {
		t.Error("mtu should be absent when not given")
	}
}

func TestNMCLIValidateCoercion(t *testing.T) {
	out, err := NMCLI.Validate(map[string]any{
		"conn_name":   "eth0",
		"state":       "present",
		"autoconnect": "no",
		"mtu":         "9000",
		"ip4":         "10.0.0.1/24, 10.0.0.2/24",
		"routes4_extended": []any{
			map[string]any{"ip": "192.168.0.0/24", "metric": float64(10), "onlink": "yes"},
		},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if out["autoconnect"] != false {
		t.Errorf("autoconnect = %v", out["autoconnect"])
	}
	if out["mtu"] != 9000 {
		t.Errorf("mtu = %v", out["mtu"])
	}
	ip4 := out["ip4"].([]any)
	if len(ip4) != 2 || ip4[1] != "10.0.0.2/24" {
		t.Errorf("ip4 = %v", ip4)
	}
	route := out["routes4_extended"].([]any)[0].(map[string]any)
	if route["metric"] != 10 || route["onlink"] != true {
		t.Errorf("route = %v", route)
	}
}

func TestNMCLIValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "missing conn_name",
			params: map[string]any{"state": "present"},
			want:   "missing required argument: conn_name",
		},
		{
			name:   "bad state",
			params: map[string]any{"conn_name": "x", "state": "enabled"},
			want:   "value of state must be one of",
		},
		{
			name:   "gw4 with never_default4",
			params: map[string]any{"conn_name": "x", "state": "present", "gw4": "10.0.0.1", "never_default4": true},
			want:   "mutually exclusive: never_default4|gw4",
		},
		{
			name:   "wifi without ssid",
			params: map[string]any{"conn_name": "x", "state": "present", "type": "wifi"},
			want:   "type is wifi but all of the following are missing: ssid",
		},
		{
			name:   "unknown option",
			params: map[string]any{"conn_name": "x", "state": "present", "bogus": 1},
			want:   "unsupported parameters: bogus",
		},
		{
			name:   "macvlan mode out of range",
			params: map[string]any{"conn_name": "x", "state": "present", "macvlan": map[string]any{"mode": 9, "parent": "eth0"}},
			want:   "value of macvlan.mode must be one of",
		},
		{
			name:   "route without ip",
			params: map[string]any{"conn_name": "x", "state": "present", "routes6_extended": []any{map[string]any{"metric": 1}}},
			want:   "missing required argument: routes6_extended.0.ip",
		},
		{
			name:   "not an int",
			params: map[string]any{"conn_name": "x", "state": "present", "mtu": "big"},
			want:   "argument mtu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NMCLI.Validate(tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, util.ErrValidationFailed) {
				t.Errorf("error %v is not a validation error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateIgnoresInternalParams(t *testing.T) {
	_, err := NMCLI.Validate(map[string]any{
		"conn_name":           "x",
		"state":               "absent",
		"_ansible_check_mode": true,
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestHSRPInterfacesValidate(t *testing.T) {
	out, err := HSRPInterfaces.Validate(map[string]any{
		"config": []any{
			map[string]any{
				"name":    "GigabitEthernet1",
				"version": 2,
				"standby_groups": []any{
					map[string]any{
						"group_no": 10,
						"priority": 110,
						"ip":       []any{map[string]any{"virtual_ip": "10.0.0.254"}},
						"authentication": map[string]any{
							"advertisement": map[string]any{"password_text": "secret"},
						},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if out["state"] != "merged" {
		t.Errorf("state = %v, want merged", out["state"])
	}

	_, err = HSRPInterfaces.Validate(map[string]any{
		"config": []any{map[string]any{"version": 2}},
	})
	if err == nil || !strings.Contains(err.Error(), "config.0.name") {
		t.Errorf("expected missing name error, got %v", err)
	}
}

func TestNoLogPaths(t *testing.T) {
	paths := NMCLI.NoLogPaths(map[string]any{
		"conn_name":           "wlan",
		"wifi_sec":            map[string]any{"psk": "hunter22"},
		"ip_tunnel_input_key": "1234",
	})
	if strings.Join(paths, ",") != "ip_tunnel_input_key,wifi_sec" {
		t.Errorf("paths = %v", paths)
	}

	paths = HSRPInterfaces.NoLogPaths(map[string]any{
		"config": []any{
			map[string]any{
				"name": "Gi1",
				"redirect": map[string]any{
					"advertisement": map[string]any{
						"authentication": map[string]any{"key_chain": "kc", "password_text": "pw"},
					},
				},
			},
		},
	})
	want := "config.0.redirect.advertisement.authentication.password_text"
	if len(paths) != 1 || paths[0] != want {
		t.Errorf("paths = %v, want [%s]", paths, want)
	}
}

func TestRegistry(t *testing.T) {
	if got := strings.Join(Names(), ","); got != "hsrp_interfaces,nmcli" {
		t.Errorf("Names() = %s", got)
	}
	if s, ok := Lookup("nmcli"); !ok || s != NMCLI {
		t.Error("Lookup(nmcli) failed")
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}
