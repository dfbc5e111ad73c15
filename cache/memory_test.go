package cache

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryCache_GetPut(t *testing.T) {
	c := NewInMemoryCache()

	if err := c.Put("key1", "value1", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	c := NewInMemoryCache()

	c.Put("key1", "value1", 50*time.Millisecond)

	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Error("Value should be available immediately after put")
	}

	time.Sleep(100 * time.Millisecond)

	val, ok = c.Get("key1")
	if ok {
		t.Error("Value should be expired after TTL")
	}
	if val != "" {
		t.Errorf("Expired value should return empty string, got %q", val)
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be removed on read, len = %d", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	c := NewInMemoryCache()

	c.Put("key1", "value1", 0)

	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Error("Value should be available with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache()

	c.Put("key1", "value1", time.Hour)
	c.Put("key1", "value2", time.Hour)

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Key should exist")
	}
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
}

func TestInMemoryCache_LenClear(t *testing.T) {
	c := NewInMemoryCache()

	if c.Len() != 0 {
		t.Errorf("Empty cache should have length 0, got %d", c.Len())
	}

	c.Put("key1", "value1", time.Hour)
	c.Put("key2", "value2", 0)

	if c.Len() != 2 {
		t.Errorf("Cache should have length 2, got %d", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Cleared cache should have length 0, got %d", c.Len())
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("Cleared cache should not contain any keys")
	}
}

func TestInMemoryCache_Entries(t *testing.T) {
	c := NewInMemoryCache()

	c.Put("forever", "a", 0)
	c.Put("hour", "b", time.Hour)
	c.Put("gone", "c", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 live entries, got %d", len(entries))
	}
	if entries["forever"].TTL != 0 {
		t.Errorf("forever entry should have zero TTL, got %v", entries["forever"].TTL)
	}
	if ttl := entries["hour"].TTL; ttl <= 0 || ttl > time.Hour {
		t.Errorf("hour entry TTL out of range: %v", ttl)
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	c := NewInMemoryCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Put(string(rune('a'+i%26)), "value", time.Hour)
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(string(rune('a' + i%26)))
		}(i)
	}

	wg.Wait()
}
