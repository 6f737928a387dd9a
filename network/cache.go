package network

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultFreshness applies to responses that carry no expiry information.
const defaultFreshness = 5 * time.Minute

// CacheEntry is a cached response and its freshness data.
type CacheEntry struct {
	Response     *Response
	ETag         string
	LastModified string
	MaxAge       time.Duration
	HasMaxAge    bool // max-age present, including max-age=0
	Expires      time.Time
	CachedAt     time.Time
}

// IsExpired reports whether the entry is stale at now.
func (e *CacheEntry) IsExpired(now time.Time) bool {
	switch {
	case e.HasMaxAge:
		return now.Sub(e.CachedAt) > e.MaxAge
	case !e.Expires.IsZero():
		return now.After(e.Expires)
	}
	return now.Sub(e.CachedAt) > defaultFreshness
}

// CanRevalidate reports whether the entry carries a validator.
func (e *CacheEntry) CanRevalidate() bool {
	return e.ETag != "" || e.LastModified != ""
}

// Cache is a bounded, least-recently-used response cache keyed by URL.
// It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, *CacheEntry]
	now     func() time.Time
}

// NewCache creates a cache holding at most size entries. A non-positive
// size selects 1000.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = 1000
	}
	entries, err := lru.New[string, *CacheEntry](size)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &Cache{entries: entries, now: time.Now}
}

// Get returns the fresh entry for url. Stale entries are dropped.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	entry, ok := c.entries.Get(url)
	if !ok {
		return nil, false
	}
	if entry.IsExpired(c.now()) {
		c.entries.Remove(url)
		return nil, false
	}
	return entry, true
}

// Set stores resp under url unless its headers forbid storing it.
func (c *Cache) Set(url string, resp *Response) {
	headers := resp.Headers
	if headers == nil {
		headers = http.Header{}
	}
	directives := parseCacheControl(headers.Get("Cache-Control"))
	if _, ok := directives["no-store"]; ok {
		return
	}

	entry := &CacheEntry{
		Response:     resp,
		ETag:         headers.Get("ETag"),
		LastModified: headers.Get("Last-Modified"),
		CachedAt:     c.now(),
	}
	if v, ok := directives["max-age"]; ok {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			entry.MaxAge = time.Duration(seconds) * time.Second
			entry.HasMaxAge = true
		}
	}
	if !entry.HasMaxAge {
		if t, err := http.ParseTime(headers.Get("Expires")); err == nil {
			entry.Expires = t
		}
	}
	c.entries.Add(url, entry)
}

// Delete removes url from the cache.
func (c *Cache) Delete(url string) {
	c.entries.Remove(url)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Cleanup drops every stale entry.
func (c *Cache) Cleanup() {
	now := c.now()
	for _, key := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(key); ok && entry.IsExpired(now) {
			c.entries.Remove(key)
		}
	}
}

// parseCacheControl maps each lowercased directive to its value, which is
// empty for valueless directives.
func parseCacheControl(value string) map[string]string {
	directives := make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, v, _ := strings.Cut(part, "=")
		directives[strings.ToLower(strings.TrimSpace(key))] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return directives
}
