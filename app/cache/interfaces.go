package cache

import "time"

// Store is the durable key-value capability the session layer depends on.
// Get returns the empty string on a miss; a miss is not an error.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
}
