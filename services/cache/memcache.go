package cache

import (
	"errors"
	"time"

	apperr "sjsage522/jobworker/pkg/errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// ErrNotFound is returned by Get when the key is absent or expired
var ErrNotFound = errors.New("cache: key not found")

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a value from memcache. A miss is reported as
// ErrNotFound; transport failures are wrapped as cache errors.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err == memcache.ErrCacheMiss {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.NewCache("", "failed to get "+key, err)
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
	if err != nil {
		return apperr.NewCache("", "failed to set "+key, err)
	}
	return nil
}

// Delete removes a value from memcache. Deleting an absent key is not
// an error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(key)
	if err != nil && err != memcache.ErrCacheMiss {
		return apperr.NewCache("", "failed to delete "+key, err)
	}
	return nil
}
