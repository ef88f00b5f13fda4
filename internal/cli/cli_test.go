package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/psdrank/pkg/store"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{"bounds": false, "batch": false, "hash": false, "store": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestStoreDirUsesXDGCacheHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := storeDir()
	if err != nil {
		t.Fatalf("storeDir error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("storeDir = %q, want %q", dir, want)
	}
}

func TestNewStoreNoCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	st, err := c.newStore(context.Background(), storeFlags{noCache: true})
	if err != nil {
		t.Fatalf("newStore error: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.NullStore); !ok {
		t.Errorf("newStore with no-cache = %T, want *store.NullStore", st)
	}
}

func TestNewStoreFileBackend(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	st, err := c.newStore(context.Background(), storeFlags{backend: "file"})
	if err != nil {
		t.Fatalf("newStore error: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("newStore = %T, want *store.FileStore", st)
	}
}

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		lo, hi int
		want   string
	}{
		{3, 3, "3"},
		{2, 5, "[2, 5]"},
		{0, 0, "0"},
	}
	for _, tt := range tests {
		if got := formatWindow(tt.lo, tt.hi); got != tt.want {
			t.Errorf("formatWindow(%d, %d) = %q, want %q", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestBoundsOptionsFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	opts, err := c.boundsOptions("", 25, store.NewNullStore())
	if err != nil {
		t.Fatalf("boundsOptions error: %v", err)
	}
	if opts.MaxDepth != 25 {
		t.Errorf("MaxDepth = %d, want 25", opts.MaxDepth)
	}
	if !opts.LoadFromStore || !opts.SaveToStore {
		t.Error("store consultation disabled by default options")
	}
	if opts.Logger != c.Logger {
		t.Error("logger not threaded into options")
	}

	if _, err := c.boundsOptions("does-not-exist.toml", 0, nil); err == nil {
		t.Error("boundsOptions accepted a missing config file")
	}
}
