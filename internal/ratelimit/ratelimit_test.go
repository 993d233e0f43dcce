package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_Burst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	// Burst tokens are available immediately.
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.1"))

	// Bucket is empty now.
	assert.False(t, krl.Allow("10.0.0.1"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))

	// A different client has its own bucket.
	assert.True(t, krl.Allow("10.0.0.2"))
}

func TestWait_RespectsContext(t *testing.T) {
	krl := New(0.01, 1)
	defer krl.Stop()

	require.True(t, krl.Allow("key"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := krl.Wait(ctx, "key")
	assert.Error(t, err)
}

func TestGetLimiter_ConcurrentAccess(t *testing.T) {
	krl := New(100, 100)
	defer krl.Stop()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				krl.Allow("shared")
			}
		}()
	}
	wg.Wait()

	krl.mu.RLock()
	defer krl.mu.RUnlock()
	assert.Len(t, krl.entries, 1)
}

func TestStop_Idempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	krl.Stop()
}
