package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage adapts Cache to fiber's session Storage interface so web
// sessions live in Redis rather than server memory.
type SessionStorage struct {
	cache *Cache
}

func (c *Cache) Sessions() *SessionStorage { return &SessionStorage{cache: c} }

func (s *SessionStorage) Get(key string) ([]byte, error) {
	data, err := s.cache.client.Get(s.cache.ctx, "session:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.cache.client.Set(s.cache.ctx, "session:"+key, val, exp).Err()
}

func (s *SessionStorage) Delete(key string) error {
	return s.cache.client.Del(s.cache.ctx, "session:"+key).Err()
}

func (s *SessionStorage) Reset() error {
	iter := s.cache.client.Scan(s.cache.ctx, 0, "session:*", 0).Iterator()
	for iter.Next(s.cache.ctx) {
		if err := s.cache.client.Del(s.cache.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *SessionStorage) Close() error { return nil }
