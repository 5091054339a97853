package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/archonhq/archon/pkg/cache"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	var buf bytes.Buffer
	return &CLI{
		Logger: newLogger(&buf, log.ErrorLevel),
		Config: DefaultConfig(),
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c.Logger == nil {
		t.Error("New() should set a logger")
	}
	if c.Config == nil {
		t.Error("New() should load a config")
	}
	if c.Provider == nil {
		t.Error("New() should set a solver provider")
	}
}

func TestRootCommand(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	if root.Use != "archon" {
		t.Errorf("root.Use = %q, want archon", root.Use)
	}

	want := []string{"layout", "views", "validate", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q, want XDG path", dir)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-config", appName) {
		t.Errorf("configDir() = %q, want XDG path", dir)
	}
}

func TestNewLayoutCache(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Dir = t.TempDir()

	if _, ok := c.newLayoutCache(false).(*cache.FileCache); !ok {
		t.Error("file backend with explicit dir should produce a FileCache")
	}
	if _, ok := c.newLayoutCache(true).(*cache.NullCache); !ok {
		t.Error("--no-cache should produce a NullCache")
	}

	c.Config.Cache.Backend = CacheBackendNone
	if _, ok := c.newLayoutCache(false).(*cache.NullCache); !ok {
		t.Error("backend none should produce a NullCache")
	}
}
