// Package cache provides a small completion cache for resource listings the
// CLI uses to resolve names to IDs (contacts, solution categories).
//
// The API binding itself never caches; only these CLI-side lookups do.
// Entries are JSON, scoped per resource type and helpdesk URL. Default TTL is
// 5 minutes. Disable with FRESHDESK_NO_CACHE=1. Entries normally live in
// files under DefaultDir; set FRESHDESK_CACHE_REDIS to a redis address to
// share the cache between machines instead.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// backend stores raw entry bytes under a cache key.
type backend interface {
	read(key string) ([]byte, bool)
	write(key string, data []byte, ttl time.Duration)
	remove(key string)
}

// Store reads and writes a single cache key (resource+server).
type Store struct {
	backend backend
	key     string
	ttl     time.Duration
}

// NewStore creates a Store with the default 5-minute TTL.
// dir is the cache directory (typically from DefaultDir).
// key is the resource type (e.g. "contacts").
// baseURL is the helpdesk URL the entries came from.
func NewStore(dir, key, baseURL string) *Store {
	return NewStoreWithTTL(dir, key, baseURL, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL string, ttl time.Duration) *Store {
	key = sanitizeKey(key)
	hash := sha1.Sum([]byte(baseURL))
	suffix := hex.EncodeToString(hash[:6])
	cacheKey := fmt.Sprintf("%s_%s", key, suffix)
	return &Store{
		backend: activeBackend(dir),
		key:     cacheKey,
		ttl:     ttl,
	}
}

func activeBackend(dir string) backend {
	if addr := strings.TrimSpace(os.Getenv("FRESHDESK_CACHE_REDIS")); addr != "" {
		return newRedisBackend(addr)
	}
	return &fileBackend{dir: dir}
}

// Get loads cached items into dst. Returns false on miss (no entry, expired,
// disabled).
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, ok := s.backend.read(s.key)
	if !ok {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	s.backend.write(s.key, data, s.ttl)
}

// Clear removes this cache entry.
func (s *Store) Clear() {
	s.backend.remove(s.key)
}

// ClearAll removes all cache files from the directory. It only removes files
// matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory, typically
// "$XDG_CACHE_HOME/freshdesk-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "freshdesk-cli"), nil
}

func disabled() bool {
	return os.Getenv("FRESHDESK_NO_CACHE") != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	return key
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return false
	}
	suffix := parts[len(parts)-1]
	if parts[0] == "" {
		return false
	}
	if len(suffix) != 12 || !isHex(suffix) {
		return false
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
