//go:build integration

package lock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newtron-network/nmconn/internal/testutil"
	"github.com/newtron-network/nmconn/pkg/lock"
	"github.com/newtron-network/nmconn/pkg/util"
)

const testDB = 15

func newLocker(t *testing.T) *lock.Locker {
	t.Helper()
	testutil.SkipIfNoRedis(t)
	testutil.FlushDB(t, testutil.RedisAddr(), testDB)

	l := lock.New(testutil.RedisAddr(), testDB)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestAcquireRelease(t *testing.T) {
	l := newLocker(t)
	ctx := context.Background()

	if err := l.Acquire(ctx, "host1", "alice@ws1", time.Minute); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	holder, acquired, err := l.Holder(ctx, "host1")
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder != "alice@ws1" {
		t.Errorf("holder = %q, want %q", holder, "alice@ws1")
	}
	if acquired.IsZero() {
		t.Error("acquired time is zero")
	}

	err = l.Acquire(ctx, "host1", "bob@ws2", time.Minute)
	if !errors.Is(err, util.ErrHostLocked) {
		t.Fatalf("second Acquire err = %v, want ErrHostLocked", err)
	}

	if err := l.Release(ctx, "host1", "bob@ws2"); err == nil {
		t.Error("Release by non-holder should fail")
	}
	if err := l.Release(ctx, "host1", "alice@ws1"); err != nil {
		t.Fatalf("Release: %v", err)
	}

	holder, _, err = l.Holder(ctx, "host1")
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder != "" {
		t.Errorf("holder after release = %q, want empty", holder)
	}
}

func TestReleaseExpired(t *testing.T) {
	l := newLocker(t)

	if err := l.Release(context.Background(), "host2", "alice@ws1"); err != nil {
		t.Errorf("Release of missing lock: %v", err)
	}
}

func TestLocksArePerHost(t *testing.T) {
	l := newLocker(t)
	ctx := context.Background()

	if err := l.Acquire(ctx, "host1", "alice", time.Minute); err != nil {
		t.Fatalf("Acquire host1: %v", err)
	}
	if err := l.Acquire(ctx, "host2", "bob", time.Minute); err != nil {
		t.Fatalf("Acquire host2: %v", err)
	}
}
