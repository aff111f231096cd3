package config

import "strings"

// CacheBackend names a cache store implementation.
type CacheBackend string

const (
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendNATS   CacheBackend = "nats"
	CacheBackendMemory CacheBackend = "memory"
)

// NormalizeCacheBackend returns the typed backend or empty string for unknown input.
func NormalizeCacheBackend(raw string) CacheBackend {
	switch CacheBackend(strings.ToLower(strings.TrimSpace(raw))) {
	case CacheBackendSQLite:
		return CacheBackendSQLite
	case CacheBackendNATS:
		return CacheBackendNATS
	case CacheBackendMemory:
		return CacheBackendMemory
	default:
		return ""
	}
}
