package connection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/newtron-network/nmconn/internal/testutil"
	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

func newReconciler(fake *testutil.FakeRunner, check bool) *Reconciler {
	return NewReconciler(nmcli.NewClient(fake), check)
}

func TestReconcileValidationMakesNoCalls(t *testing.T) {
	fake := testutil.NewFakeRunner("eth0")
	p := NewParams("eth0", StatePresent)
	p.Type = "ethernet"
	p.GW4 = "10.0.0.1"
	p.NeverDefault4 = true

	_, err := newReconciler(fake, false).Reconcile(context.Background(), p)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("nmcli invoked: %v", fake.Lines())
	}
}

func TestReconcileAbsent(t *testing.T) {
	t.Run("missing connection is unchanged", func(t *testing.T) {
		fake := testutil.NewFakeRunner("other")
		res, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StateAbsent))
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.Changed {
			t.Error("changed = true")
		}
		if m := fake.MutatingLines(); len(m) != 0 {
			t.Errorf("mutating calls: %v", m)
		}
	})

	t.Run("existing connection is brought down and deleted", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0")
		fake.FailOn("con down eth0", int(nmcli.ExitUnknown), "Error: not an active connection")
		res, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StateAbsent))
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if !res.Changed {
			t.Error("changed = false")
		}
		want := "con down eth0|con del eth0"
		if got := strings.Join(fake.MutatingLines(), "|"); got != want {
			t.Errorf("calls = %s, want %s", got, want)
		}
	})

	t.Run("delete failure carries exit code", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0")
		fake.FailOn("con del eth0", int(nmcli.ExitDeletionFailed), "Error: insufficient privileges")
		_, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StateAbsent))
		var execErr *util.ExecError
		if !errors.As(err, &execErr) {
			t.Fatalf("err = %v, want ExecError", err)
		}
		if execErr.RC != int(nmcli.ExitDeletionFailed) || !strings.Contains(execErr.Stderr, "insufficient") {
			t.Errorf("ExecError = %+v", execErr)
		}
	})
}

func TestReconcilePresentCreate(t *testing.T) {
	fake := testutil.NewFakeRunner()
	p := NewParams("eth0", StatePresent)
	p.Type = "ethernet"
	p.MTU = intp(9000)

	res, err := newReconciler(fake, false).Reconcile(context.Background(), p)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	calls := fake.MutatingLines()
	if len(calls) != 2 {
		t.Fatalf("calls = %v, want add then up", calls)
	}
	if !strings.HasPrefix(calls[0], "con add type ethernet con-name eth0 connection.interface-name eth0") {
		t.Errorf("add = %s", calls[0])
	}
	if !strings.Contains(calls[0], "802-3-ethernet.mtu 9000") {
		t.Errorf("add missing mtu: %s", calls[0])
	}
	if calls[1] != "con up eth0" {
		t.Errorf("second call = %s", calls[1])
	}
	if !res.Changed || res.Connection != "Connection eth0 of Type ethernet is being added" {
		t.Errorf("result = %+v", res)
	}
}

func TestReconcileCreateWithoutType(t *testing.T) {
	fake := testutil.NewFakeRunner()
	_, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StatePresent))
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if m := fake.MutatingLines(); len(m) != 0 {
		t.Errorf("mutating calls: %v", m)
	}
}

func TestReconcilePresentExisting(t *testing.T) {
	t.Run("unchanged", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0-conn")
		fake.Shows["eth0-conn"] = ethernetShow
		res, err := newReconciler(fake, false).Reconcile(context.Background(), ethernetParams())
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.Changed || res.Exists != "Connections already exist and no changes made" {
			t.Errorf("result = %+v", res)
		}
		if m := fake.MutatingLines(); len(m) != 0 {
			t.Errorf("mutating calls: %v", m)
		}
	})

	t.Run("changed with reload", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0-conn")
		fake.Shows["eth0-conn"] = ethernetShow
		p := ethernetParams()
		p.GW4 = "10.0.0.2"
		p.ConnReload = true

		res, err := newReconciler(fake, false).Reconcile(context.Background(), p)
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		calls := fake.MutatingLines()
		if len(calls) != 2 || !strings.HasPrefix(calls[0], "con modify eth0-conn ") || calls[1] != "con reload" {
			t.Fatalf("calls = %v", calls)
		}
		if !strings.Contains(calls[0], "ipv4.gateway 10.0.0.2") {
			t.Errorf("modify = %s", calls[0])
		}
		if res.Exists != "Connections do exist so we are modifying them" || res.Diff == nil {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("modify failure stops the run", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0-conn")
		fake.Shows["eth0-conn"] = ethernetShow
		fake.FailOn("con modify", int(nmcli.ExitInvalidInput), "Error: invalid gateway")
		p := ethernetParams()
		p.GW4 = "bogus"
		p.ConnReload = true

		_, err := newReconciler(fake, false).Reconcile(context.Background(), p)
		if rc, ok := util.ExitCode(err); !ok || rc != int(nmcli.ExitInvalidInput) {
			t.Fatalf("err = %v", err)
		}
		for _, l := range fake.MutatingLines() {
			if l == "con reload" {
				t.Error("reload ran after failed modify")
			}
		}
	})

	t.Run("type inferred from profile", func(t *testing.T) {
		fake := testutil.NewFakeRunner("eth0-conn")
		fake.Shows["eth0-conn"] = ethernetShow
		p := NewParams("eth0-conn", StatePresent)
		p.Ifname = "eth0"
		res, err := newReconciler(fake, false).Reconcile(context.Background(), p)
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.Type != "802-3-ethernet" {
			t.Errorf("type = %s", res.Type)
		}
	})
}

func TestReconcileUpDown(t *testing.T) {
	fake := testutil.NewFakeRunner("eth0")
	p := NewParams("eth0", StateUp)
	p.ConnReload = true
	if _, err := newReconciler(fake, false).Reconcile(context.Background(), p); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := strings.Join(fake.MutatingLines(), "|"); got != "con reload|con up eth0" {
		t.Errorf("calls = %s", got)
	}

	fake = testutil.NewFakeRunner("eth0")
	fake.FailOn("con down", int(nmcli.ExitDeactivationFailed), "Error: deactivation failed")
	_, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StateDown))
	if rc, ok := util.ExitCode(err); !ok || rc != int(nmcli.ExitDeactivationFailed) {
		t.Errorf("err = %v", err)
	}

	fake = testutil.NewFakeRunner()
	res, err := newReconciler(fake, false).Reconcile(context.Background(), NewParams("eth0", StateUp))
	if err != nil || res.Changed {
		t.Errorf("missing connection: res %+v err %v", res, err)
	}
}

func TestReconcileCheckMode(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		params   func() *Params
		want     string
	}{
		{"absent", []string{"eth0"}, func() *Params { return NewParams("eth0", StateAbsent) }, "nmcli con del eth0"},
		{"up", []string{"eth0"}, func() *Params { return NewParams("eth0", StateUp) }, "nmcli con up eth0"},
		{"create", nil, func() *Params {
			p := NewParams("eth0", StatePresent)
			p.Type = "ethernet"
			return p
		}, "nmcli con add type ethernet con-name eth0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeRunner(tt.existing...)
			res, err := newReconciler(fake, true).Reconcile(context.Background(), tt.params())
			if err != nil {
				t.Fatalf("Reconcile: %v", err)
			}
			if !res.Changed {
				t.Error("changed = false")
			}
			if m := fake.MutatingLines(); len(m) != 0 {
				t.Errorf("check mode ran %v", m)
			}
			found := false
			for _, c := range res.Commands {
				if strings.HasPrefix(c, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("commands %v missing %q", res.Commands, tt.want)
			}
		})
	}
}

func TestReconcileWifiSecrets(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.Properties["802-11-wireless-security"] = "802-11-wireless-security.key-mgmt:  --\n802-11-wireless-security.psk:       FAKEVALUE\n"

	p := NewParams("home", StatePresent)
	p.Type = "wifi"
	p.SSID = "homenet"
	p.WifiSec = map[string]any{"key-mgmt": "wpa-psk", "psk": "hunter22"}

	res, err := newReconciler(fake, false).Reconcile(context.Background(), p)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	var edit *testutil.Call
	for i, c := range fake.Calls {
		if c.Line() == "con edit home" {
			edit = &fake.Calls[i]
		}
		if strings.HasPrefix(c.Line(), "con add") && strings.Contains(c.Line(), "hunter22") {
			t.Errorf("secret on command line: %s", c.Line())
		}
	}
	if edit == nil {
		t.Fatalf("no edit session in %v", fake.Lines())
	}
	if edit.Stdin != "set 802-11-wireless-security.psk hunter22\nsave\nquit" {
		t.Errorf("edit stdin = %q", edit.Stdin)
	}
	for _, c := range res.Commands {
		if strings.Contains(c, "hunter22") {
			t.Errorf("secret in recorded command %q", c)
		}
	}
}

func TestReconcileWifiUnsupported(t *testing.T) {
	newParams := func() *Params {
		p := NewParams("home", StatePresent)
		p.Type = "wifi"
		p.SSID = "homenet"
		p.Wifi = map[string]any{"hidden": true, "warp-speed": 9, "ssid": "ignored"}
		return p
	}
	newFake := func() *testutil.FakeRunner {
		fake := testutil.NewFakeRunner()
		fake.Properties["802-11-wireless"] = "802-11-wireless.ssid:    --\n802-11-wireless.hidden:  no\n"
		return fake
	}

	fake := newFake()
	_, err := newReconciler(fake, false).Reconcile(context.Background(), newParams())
	var uerr *UnsupportedOptionsError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UnsupportedOptionsError", err)
	}
	if err.Error() != `Invalid or unsupported option(s): "wifi.warp-speed"` {
		t.Errorf("message = %s", err)
	}
	if m := fake.MutatingLines(); len(m) != 0 {
		t.Errorf("mutating calls: %v", m)
	}

	fake = newFake()
	p := newParams()
	p.IgnoreUnsupportedSuboptions = true
	res, err := newReconciler(fake, false).Reconcile(context.Background(), p)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Errorf("warnings = %v", res.Warnings)
	}
	add := fake.MutatingLines()[0]
	if strings.Contains(add, "warp-speed") || !strings.Contains(add, "802-11-wireless.hidden yes") {
		t.Errorf("add = %s", add)
	}
	if _, ok := p.Wifi["warp-speed"]; !ok {
		t.Error("caller's params were modified")
	}
}
