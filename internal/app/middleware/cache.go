package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type cacheEntry struct {
	Content    []byte
	Expiration time.Time
}

type memoryCache struct {
	sync.RWMutex
	items map[string]cacheEntry
}

var cache = &memoryCache{items: make(map[string]cacheEntry)}

// CacheConfig configures cacheMiddleware.
type CacheConfig struct {
	Expiration time.Duration
	Methods    []string
	KeyFunc    func(*gin.Context) string
}

func cacheMiddleware(cfg CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		methodAllowed := false
		for _, method := range cfg.Methods {
			if c.Request.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)

		cache.RLock()
		entry, found := cache.items[key]
		cache.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Content)
			c.Abort()
			return
		}

		writer := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			cache.Lock()
			cache.items[key] = cacheEntry{Content: writer.body.Bytes(), Expiration: time.Now().Add(cfg.Expiration)}
			cache.Unlock()
		}
	}
}

// CacheByParams short-circuits repeated reads of the same listing/describe
// query — ListPrepared and DescribePrepared are read-heavy polling targets
// while a run is in flight, and this keeps the store from being hammered
// once a second by every open browser tab.
func CacheByParams(expiration time.Duration, params ...string) gin.HandlerFunc {
	return cacheMiddleware(CacheConfig{
		Expiration: expiration,
		Methods:    []string{http.MethodGet},
		KeyFunc: func(c *gin.Context) string {
			keyParts := []string{c.Request.URL.Path}
			for _, param := range params {
				if value := c.Query(param); value != "" {
					keyParts = append(keyParts, param+"="+value)
				}
			}
			hasher := md5.New()
			hasher.Write([]byte(strings.Join(keyParts, "&")))
			return hex.EncodeToString(hasher.Sum(nil))
		},
	})
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func init() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cleanExpiredCache()
		}
	}()
}

func cleanExpiredCache() {
	now := time.Now()
	cache.Lock()
	defer cache.Unlock()
	for key, entry := range cache.items {
		if entry.Expiration.Before(now) {
			delete(cache.items, key)
		}
	}
}
