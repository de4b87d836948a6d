//go:build e2e

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/newtron-network/nmconn/pkg/nmcli"
)

// NetworkManagerClient returns a client for the local nmcli, skipping the
// test unless NMCONN_E2E is set and nmcli is installed. The tests it
// gates create and delete real connection profiles.
func NetworkManagerClient(t *testing.T) *nmcli.Client {
	t.Helper()

	if os.Getenv("NMCONN_E2E") == "" {
		t.Skip("NMCONN_E2E not set")
	}
	runner, err := nmcli.NewExecRunner("")
	if err != nil {
		t.Skipf("nmcli not available: %v", err)
	}
	return nmcli.NewClient(runner)
}

// DeleteOnCleanup removes the named profile when the test ends, whether or
// not the test created it.
func DeleteOnCleanup(t *testing.T, client *nmcli.Client, name string) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		if ok, _ := client.Exists(ctx, name); ok {
			client.Delete(ctx, name)
		}
	})
}
