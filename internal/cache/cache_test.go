package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("openai", "gpt-4o", "t=0.70", "user:hello")
	b := Key("openai", "gpt-4o", "t=0.70", "user:hello")
	if a != b {
		t.Errorf("identical parts produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "groundgen:v1:") {
		t.Errorf("key missing version prefix: %q", a)
	}
}

func TestKeyPartBoundaries(t *testing.T) {
	// The separator keeps ("ab","c") distinct from ("a","bc")
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries collapse")
	}
	if Key("x") == Key("x", "") {
		t.Error("trailing empty part not distinguished")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("hit on missing key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("v")) {
		t.Errorf("get = %q, %t", got, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("hit on expired entry")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if _, found := c.Get(Key("missing")); found {
		t.Error("hit on missing key")
	}

	key := Key("openai", "prompt")
	if err := c.Set(key, []byte(`{"text":"response"}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found := c.Get(key)
	if !found || !bytes.Equal(got, []byte(`{"text":"response"}`)) {
		t.Errorf("get = %q, %t", got, found)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("k")
	_ = c.Set(key, []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("hit on expired entry")
	}
	// Expired entries are removed lazily; a second read still misses
	if _, found := c.Get(key); found {
		t.Error("expired entry resurrected")
	}
}

func TestDiskCacheDefaultTTL(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("k")
	_ = c.Set(key, []byte("v"), 0) // Zero TTL falls back to the cache default

	if _, found := c.Get(key); !found {
		t.Error("miss on entry stored with default TTL")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("prompt")

	// Seed only the disk layer, simulating a fresh process reading an old
	// on-disk entry
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set(key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	got, found := layered.Get(key)
	if !found || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("layered get = %q, %t", got, found)
	}

	// The hit is now promoted: remove the disk entry and read again
	_ = disk.Delete(key)
	if _, found := layered.Get(key); !found {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCacheWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("prompt")

	if err := layered.Set(key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	if _, found := NewDiskCache(dir, time.Minute).Get(key); !found {
		t.Error("set did not reach the disk layer")
	}

	if err := layered.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, found := layered.Get(key); found {
		t.Error("hit after delete")
	}
}
