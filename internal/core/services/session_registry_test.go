package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRegistry(t *testing.T) {
	t.Run("register is idempotent per id", func(t *testing.T) {
		registry := NewSessionRegistry()

		first := registry.Register("up1", "owner1")
		second := registry.Register("up1", "owner1")

		assert.Same(t, first, second)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("clear is a safe no-op for unknown ids", func(t *testing.T) {
		registry := NewSessionRegistry()
		registry.Register("up1", "owner1")

		registry.Clear("does-not-exist")
		assert.Equal(t, 1, registry.Len())

		registry.Clear("up1")
		registry.Clear("up1")
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("get reflects the live session set", func(t *testing.T) {
		registry := NewSessionRegistry()
		registry.Register("up1", "owner1")

		session, ok := registry.Get("up1")
		assert.True(t, ok)
		assert.Equal(t, "owner1", session.OwnerID)

		registry.Clear("up1")
		_, ok = registry.Get("up1")
		assert.False(t, ok)
	})

	t.Run("concurrent attempts on distinct ids do not interfere", func(t *testing.T) {
		registry := NewSessionRegistry()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("up%d", i)
				registry.Register(id, "owner")
				_, ok := registry.Get(id)
				assert.True(t, ok)
				registry.Clear(id)
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 0, registry.Len())
	})
}
