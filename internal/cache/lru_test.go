package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	k1 := Key("explain", "cloud", "gemini-2.0-flash", "prompt body")
	k2 := Key("explain", "cloud", "gemini-2.0-flash", "prompt body")
	assert.Equal(t, k1, k2)

	// any component change produces a different key
	assert.NotEqual(t, k1, Key("quiz", "cloud", "gemini-2.0-flash", "prompt body"))
	assert.NotEqual(t, k1, Key("explain", "local", "gemini-2.0-flash", "prompt body"))
	assert.NotEqual(t, k1, Key("explain", "cloud", "phi3:mini", "prompt body"))
	assert.NotEqual(t, k1, Key("explain", "cloud", "gemini-2.0-flash", "other prompt"))

	assert.Contains(t, k1, "explain:")
}

func TestLRUGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "a", "1")
	got, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", got)

	c.Set(ctx, "a", "2")
	got, _ = c.Get(ctx, "a")
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Len())
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(3)

	c.Set(ctx, "a", "1")
	c.Set(ctx, "b", "2")
	c.Set(ctx, "c", "3")

	// touch "a" so "b" becomes coldest
	c.Get(ctx, "a")
	c.Set(ctx, "d", "4")

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestLRUDefaultCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(0)
	for i := 0; i < 600; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}
	assert.Equal(t, 512, c.Len())
}
