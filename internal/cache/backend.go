package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// fileBackend stores each entry as a JSON file under dir. TTL is enforced at
// read time by Store, so the files themselves never expire.
type fileBackend struct {
	dir string
}

func (f *fileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileBackend) read(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *fileBackend) write(key string, data []byte, _ time.Duration) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, path)
}

func (f *fileBackend) remove(key string) {
	_ = os.Remove(f.path(key))
}

const redisOpTimeout = 2 * time.Second

// redisBackend stores entries in redis under a fd:cache: prefix. Redis also
// gets the TTL so stale keys are evicted server-side.
type redisBackend struct {
	client *redis.Client
}

func newRedisBackend(addr string) *redisBackend {
	return &redisBackend{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *redisBackend) redisKey(key string) string {
	return "fd:cache:" + key
}

func (r *redisBackend) read(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	data, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *redisBackend) write(key string, data []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = r.client.Set(ctx, r.redisKey(key), data, ttl).Err()
}

func (r *redisBackend) remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = r.client.Del(ctx, r.redisKey(key)).Err()
}
