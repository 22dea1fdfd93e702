package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/actionviz/internal/config"
	"github.com/matzehuels/actionviz/pkg/store"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Feb 8, 2026"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestSnapshotTable(t *testing.T) {
	now := time.Now()
	out := snapshotTable([]store.Snapshot{
		{ID: "a1b2", Title: "nightly", Version: 2, Nodes: 12, Edges: 11, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "c3d4", Version: 1, Nodes: 3, Edges: 2, CreatedAt: now},
	}, now)

	for _, want := range []string{"ID", "Created", "a1b2", "nightly", "v2", "12", "2h ago", "c3d4", "—", "just now"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}
}

func TestStoreLocation(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if got := storeLocation(&config.Config{}, fs); got != dir {
		t.Errorf("file store location = %q, want %q", got, dir)
	}
	if got := storeLocation(&config.Config{Mongo: "mongodb://localhost"}, nil); got != "mongodb" {
		t.Errorf("mongo location = %q", got)
	}
	if got := storeLocation(&config.Config{}, store.NewMemoryStore()); got != "memory" {
		t.Errorf("memory location = %q", got)
	}
}
