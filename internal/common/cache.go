package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

// MarkSeen records key and reports whether it was not already present.
func (c *Cache) MarkSeen(key string) bool {
	return c.Cache.Add(key, struct{}{}, cache.DefaultExpiration) == nil
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyPublicBlog(id int64) string {
	return "public_blog:" + strconv.FormatInt(id, 10)
}

func CacheKeyPublicBlogs() string {
	return "public_blogs"
}

func CacheKeySessionByToken(hash []byte) string {
	return "session_by_token:" + string(hash)
}

func CacheKeyEvent(session, id string) string {
	return "event:" + session + ":" + id
}
