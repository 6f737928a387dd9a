package network

import (
	"net/http"
	"testing"
	"time"
)

func response(body string, headers map[string]string) *Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &Response{StatusCode: 200, Headers: h, Body: []byte(body)}
}

// fakeClock returns a cache whose notion of now the test controls.
func fakeClock(c *Cache) *time.Time {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return &now
}

func TestCacheBasic(t *testing.T) {
	c := NewCache(10)
	c.Set("https://a.test/", response("a", nil))

	entry, ok := c.Get("https://a.test/")
	if !ok {
		t.Fatal("Get() missed a fresh entry")
	}
	if string(entry.Response.Body) != "a" {
		t.Errorf("Body = %q", entry.Response.Body)
	}
	if _, ok := c.Get("https://b.test/"); ok {
		t.Error("Get() hit an unknown key")
	}
}

func TestCacheFreshness(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		age     time.Duration
		fresh   bool
	}{
		{name: "default fresh", age: 4 * time.Minute, fresh: true},
		{name: "default stale", age: 6 * time.Minute, fresh: false},
		{name: "max-age fresh", headers: map[string]string{"Cache-Control": "public, max-age=60"}, age: 30 * time.Second, fresh: true},
		{name: "max-age stale", headers: map[string]string{"Cache-Control": "max-age=60"}, age: 61 * time.Second, fresh: false},
		{name: "max-age zero", headers: map[string]string{"Cache-Control": "max-age=0"}, age: time.Second, fresh: false},
		{name: "expires", headers: map[string]string{"Expires": "Thu, 01 Jan 2026 12:10:00 GMT"}, age: 9 * time.Minute, fresh: true},
		{name: "expired", headers: map[string]string{"Expires": "Thu, 01 Jan 2026 12:10:00 GMT"}, age: 11 * time.Minute, fresh: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(10)
			now := fakeClock(c)
			c.Set("k", response("x", tt.headers))

			*now = now.Add(tt.age)
			if _, ok := c.Get("k"); ok != tt.fresh {
				t.Errorf("Get() ok = %v, want %v", ok, tt.fresh)
			}
		})
	}
}

func TestCacheNoStore(t *testing.T) {
	c := NewCache(10)
	c.Set("k", response("x", map[string]string{"Cache-Control": "private, no-store"}))
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheValidators(t *testing.T) {
	c := NewCache(10)
	c.Set("etag", response("x", map[string]string{"ETag": `"v1"`}))
	c.Set("plain", response("x", nil))

	e, _ := c.Get("etag")
	if !e.CanRevalidate() || e.ETag != `"v1"` {
		t.Errorf("ETag = %q", e.ETag)
	}
	p, _ := c.Get("plain")
	if p.CanRevalidate() {
		t.Error("entry without validators reports CanRevalidate")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Set("a", response("a", nil))
	c.Set("b", response("b", nil))
	c.Get("a")
	c.Set("c", response("c", nil))

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheDeleteClearCleanup(t *testing.T) {
	c := NewCache(10)
	now := fakeClock(c)
	c.Set("short", response("x", map[string]string{"Cache-Control": "max-age=10"}))
	c.Set("long", response("x", map[string]string{"Cache-Control": "max-age=3600"}))
	c.Set("gone", response("x", nil))

	c.Delete("gone")
	if c.Len() != 2 {
		t.Errorf("Len() after Delete = %d, want 2", c.Len())
	}

	*now = now.Add(time.Minute)
	c.Cleanup()
	if c.Len() != 1 {
		t.Errorf("Len() after Cleanup = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestParseCacheControl(t *testing.T) {
	d := parseCacheControl(`Public, max-age=300 , must-revalidate, community="UCI"`)
	want := map[string]string{"public": "", "max-age": "300", "must-revalidate": "", "community": "UCI"}
	if len(d) != len(want) {
		t.Fatalf("directives = %v, want %v", d, want)
	}
	for k, v := range want {
		if d[k] != v {
			t.Errorf("directive %q = %q, want %q", k, d[k], v)
		}
	}
}
