package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get should hit after Set")
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get = %q, want value", data)
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get should hit after Set")
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Get = %q, want payload", data)
	}

	// Overwrite
	if err := c.Set(ctx, "layout:abc", []byte("updated"), 0); err != nil {
		t.Fatal(err)
	}
	data, _, _ = c.Get(ctx, "layout:abc")
	if !bytes.Equal(data, []byte("updated")) {
		t.Errorf("Get = %q after overwrite, want updated", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("Get should miss after Delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(context.Background(), "absent"); hit || err != nil {
		t.Errorf("Get of absent key = hit %v, err %v; want miss", hit, err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// ModelKey
	if mk := k.ModelKey("m-1"); mk != "model:m-1" {
		t.Errorf("ModelKey unexpected: %s", mk)
	}

	// LayoutKey is deterministic
	lk1 := k.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "flat", Algorithm: "layered"})
	lk2 := k.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "flat", Algorithm: "layered"})
	if lk1 != lk2 {
		t.Error("Equal inputs should produce equal keys")
	}

	// LayoutKey should include options in hash
	lk3 := k.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "hierarchical", Algorithm: "layered"})
	if lk1 == lk3 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	lk4 := k.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "flat", Algorithm: "stress"})
	if lk1 == lk4 {
		t.Error("Different algorithms should produce different keys")
	}

	// Different signatures produce different keys
	lk5 := k.LayoutKey("ffffffff", LayoutKeyOpts{Mode: "flat", Algorithm: "layered"})
	if lk1 == lk5 {
		t.Error("Different signatures should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "ws:123:")

	// All keys should be prefixed
	mk := scoped.ModelKey("m-1")
	if mk != "ws:123:model:m-1" {
		t.Errorf("ScopedKeyer ModelKey unexpected: %s", mk)
	}

	lk := scoped.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "flat"})
	if len(lk) < 7 || lk[:7] != "ws:123:" {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
	if lk[7:] != inner.LayoutKey("a1b2c3d4", LayoutKeyOpts{Mode: "flat"}) {
		t.Error("ScopedKeyer should delegate to the inner keyer")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.ModelKey("m-1"); key != "prefix:model:m-1" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
