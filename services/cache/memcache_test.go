package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("ping")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	key := "seen:https://example.com/jobs/1"

	err = mc.Set(key, []byte("1"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	err = mc.Delete(key)
	assert.NoError(t, err)

	_, err = mc.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a key that is already gone stays quiet
	err = mc.Delete(key)
	assert.NoError(t, err)
}
