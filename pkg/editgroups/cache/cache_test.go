package cache

import (
	"context"
	"testing"
)

func TestDisabledCacheIsSafe(t *testing.T) {
	c := New("")
	ctx := context.Background()

	c.Set(ctx, "k", map[string]int{"a": 1})

	var dest map[string]int
	if c.Get(ctx, "k", &dest) {
		t.Error("Disabled cache must always miss")
	}
	if dest != nil {
		t.Errorf("Dest must stay untouched on a miss, got %v", dest)
	}

	c.Delete(ctx, "k")
}
