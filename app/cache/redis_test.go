package cache

import (
	"testing"
)

func TestNewCacheUnreachableServer(t *testing.T) {
	// Port 1 is never a Redis server; the constructor pings on connect
	_, err := NewCache("localhost:1")
	if err == nil {
		t.Error("Expected error for unreachable Redis server")
	}

	// Note: We don't test a live connection here as it requires running Redis
	// Integration tests should be run separately with a proper test instance
}
