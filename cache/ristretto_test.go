package cache

import (
	"testing"
	"time"
)

func TestRistrettoCache_GetPut(t *testing.T) {
	c, err := NewRistrettoCache(RistrettoConfig{})
	if err != nil {
		t.Fatalf("NewRistrettoCache failed: %v", err)
	}
	defer c.Close()

	if err := c.Put("key1", "value1", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Errorf("Get = (%q, %v), want (value1, true)", val, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get should miss for unknown key")
	}
}
