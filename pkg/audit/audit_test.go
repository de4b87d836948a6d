package audit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEvent_New(t *testing.T) {
	event := NewEvent("alice", "edge1", "eth0", "present")

	if event.User != "alice" {
		t.Errorf("User = %q, want %q", event.User, "alice")
	}
	if event.Host != "edge1" {
		t.Errorf("Host = %q, want %q", event.Host, "edge1")
	}
	if event.Connection != "eth0" || event.State != "present" {
		t.Errorf("Connection/State = %q/%q", event.Connection, event.State)
	}
	if len(event.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", event.ID)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if other := NewEvent("alice", "edge1", "eth0", "present"); other.ID == event.ID {
		t.Error("IDs should be unique")
	}
}

func TestEvent_Chaining(t *testing.T) {
	event := NewEvent("alice", "edge1", "eth0", "present").
		WithChanges([]Change{{Setting: "ipv4.gateway", Before: "10.0.0.1", After: "10.0.0.2"}}).
		WithCommands([]string{"nmcli con modify eth0 ipv4.gateway 10.0.0.2"}, true).
		WithSuccess().
		WithDuration(time.Second).
		WithExecuteMode(true)

	if len(event.Changes) != 1 || len(event.Commands) != 1 || !event.Changed {
		t.Errorf("event = %+v", event)
	}
	if !event.Success {
		t.Error("Success should be true")
	}
	if event.Duration != time.Second {
		t.Errorf("Duration = %v", event.Duration)
	}
	if !event.ExecuteMode || event.DryRun {
		t.Error("ExecuteMode should be true and DryRun false")
	}
}

func TestEvent_WithError(t *testing.T) {
	event := NewEvent("alice", "edge1", "eth0", "absent").WithError(errors.New("nmcli con del eth0 failed"))
	if event.Success {
		t.Error("Success should be false")
	}
	if event.Error != "nmcli con del eth0 failed" {
		t.Errorf("Error = %q", event.Error)
	}

	event = NewEvent("alice", "edge1", "eth0", "absent").WithError(nil)
	if event.Error != "" {
		t.Errorf("Error = %q, want empty", event.Error)
	}
}

func newTestLogger(t *testing.T, rotation RotationConfig) (*FileLogger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	logger, err := NewFileLogger(path, rotation)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestFileLogger_LogAndQuery(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	events := []*Event{
		NewEvent("alice", "edge1", "eth0", "present").WithCommands([]string{"nmcli con add"}, true).WithSuccess(),
		NewEvent("bob", "edge1", "br0", "absent").WithError(errors.New("boom")),
		NewEvent("alice", "edge2", "eth0", "up").WithSuccess(),
	}
	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"by host", Filter{Host: "edge1"}, 2},
		{"by connection", Filter{Connection: "eth0"}, 2},
		{"by user", Filter{User: "bob"}, 1},
		{"by state", Filter{State: "up"}, 1},
		{"changed only", Filter{ChangedOnly: true}, 1},
		{"failures only", Filter{FailureOnly: true}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"offset", Filter{Offset: 2}, 1},
		{"offset beyond", Filter{Offset: 5}, 0},
		{"future start", Filter{StartTime: time.Now().Add(time.Hour)}, 0},
		{"past end", Filter{EndTime: time.Now().Add(-time.Hour)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logger.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFileLogger_QueryMalformed(t *testing.T) {
	logger, path := newTestLogger(t, RotationConfig{})
	if err := logger.Log(NewEvent("alice", "edge1", "eth0", "present")); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n")
	f.Close()

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d events, want 1", len(got))
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logger, path := newTestLogger(t, RotationConfig{MaxSize: 10, MaxBackups: 2})

	conns := []string{"eth0", "eth1", "eth2", "eth3"}
	for _, c := range conns {
		if err := logger.Log(NewEvent("alice", "edge1", c, "present")); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	matches, _ := filepath.Glob(path + ".*")
	if len(matches) != 2 {
		t.Errorf("rotated files = %v, want 2", matches)
	}

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Connection)
	}
	if want := "eth1,eth2,eth3"; strings.Join(names, ",") != want {
		t.Errorf("events across backups = %v, want %s", names, want)
	}
}

func TestDefaultLogger(t *testing.T) {
	if err := Log(NewEvent("alice", "edge1", "eth0", "present")); err != nil {
		t.Errorf("Log without logger: %v", err)
	}

	logger, _ := newTestLogger(t, RotationConfig{})
	SetDefaultLogger(logger)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	if err := Log(NewEvent("alice", "edge1", "eth0", "present")); err != nil {
		t.Fatalf("Log: %v", err)
	}
	got, err := Query(Filter{})
	if err != nil || len(got) != 1 {
		t.Errorf("Query = %d events, err %v", len(got), err)
	}
}
