//go:build e2e

package e2e_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/newtron-network/nmconn/internal/testutil"
	"github.com/newtron-network/nmconn/pkg/audit"
	"github.com/newtron-network/nmconn/pkg/connection"
	"github.com/newtron-network/nmconn/pkg/nmcli"
)

const dummyConn = "nmconn-e2e-dummy"

func dummyParams(t *testing.T, state string, extra map[string]any) *connection.Params {
	t.Helper()
	raw := map[string]any{
		"conn_name":   dummyConn,
		"state":       state,
		"type":        "dummy",
		"ifname":      "nmce2e0",
		"ip4":         "192.0.2.1/24",
		"method6":     "disabled",
		"autoconnect": false,
	}
	for k, v := range extra {
		raw[k] = v
	}
	p, err := connection.ParamsFromMap(raw)
	if err != nil {
		t.Fatalf("ParamsFromMap: %v", err)
	}
	return p
}

func reconcile(t *testing.T, client *nmcli.Client, check bool, p *connection.Params) *connection.Result {
	t.Helper()
	res, err := connection.NewReconciler(client, check).Reconcile(context.Background(), p)
	if err != nil {
		t.Fatalf("Reconcile %s %s: %v", p.ConnName, p.State, err)
	}
	return res
}

func TestE2E_DummyLifecycle(t *testing.T) {
	client := testutil.NetworkManagerClient(t)
	testutil.DeleteOnCleanup(t, client, dummyConn)
	ctx := context.Background()

	res := reconcile(t, client, false, dummyParams(t, "present", nil))
	if !res.Changed {
		t.Fatal("create: changed = false")
	}
	if ok, _ := client.Exists(ctx, dummyConn); !ok {
		t.Fatal("profile not created")
	}

	res = reconcile(t, client, false, dummyParams(t, "present", nil))
	if res.Changed {
		t.Errorf("second apply changed; diff: %+v", res.Diff.Changed())
	}

	res = reconcile(t, client, false, dummyParams(t, "present", map[string]any{"ip4": "192.0.2.2/24"}))
	if !res.Changed {
		t.Error("modify: changed = false")
	}
	state, err := client.Show(ctx, dummyConn)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got := state.String("ipv4.addresses"); got != "192.0.2.2/24" {
		t.Errorf("ipv4.addresses = %q, want 192.0.2.2/24", got)
	}

	res = reconcile(t, client, false, dummyParams(t, "absent", nil))
	if !res.Changed {
		t.Error("delete: changed = false")
	}
	res = reconcile(t, client, false, dummyParams(t, "absent", nil))
	if res.Changed {
		t.Error("second delete changed")
	}
}

func TestE2E_CheckModeCreatesNothing(t *testing.T) {
	client := testutil.NetworkManagerClient(t)
	testutil.DeleteOnCleanup(t, client, dummyConn)

	res := reconcile(t, client, true, dummyParams(t, "present", nil))
	if !res.Changed || len(res.Commands) == 0 {
		t.Errorf("check mode result = %+v", res)
	}
	if ok, _ := client.Exists(context.Background(), dummyConn); ok {
		t.Error("check mode created the profile")
	}
}

func TestE2E_AuditRecordsApply(t *testing.T) {
	client := testutil.NetworkManagerClient(t)
	testutil.DeleteOnCleanup(t, client, dummyConn)

	logger, err := audit.NewFileLogger(filepath.Join(t.TempDir(), "audit.log"), audit.RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	defer logger.Close()

	p := dummyParams(t, "present", nil)
	res := reconcile(t, client, false, p)
	event := audit.NewEvent("e2e", client.Target(), p.ConnName, string(p.State)).
		WithCommands(res.Commands, res.Changed).
		WithExecuteMode(true).
		WithSuccess()
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log: %v", err)
	}

	events, err := logger.Query(audit.Filter{Connection: dummyConn, ChangedOnly: true})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(events[0].Commands) == 0 {
		t.Error("event has no commands")
	}
}
