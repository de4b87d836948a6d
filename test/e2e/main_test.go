//go:build e2e

package e2e_test

import (
	"os"
	"testing"

	"github.com/newtron-network/nmconn/pkg/util"
)

func TestMain(m *testing.M) {
	util.SetLogLevel("debug")
	os.Exit(m.Run())
}
