package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestLoader(t *testing.T, opts ...LoaderOption) *Loader {
	t.Helper()
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewLoader(client, opts...)
}

func TestLoaderData(t *testing.T) {
	l := newTestLoader(t)
	res, err := l.Load(context.Background(), "data:text/html,%3Ch1%3EHi%3C%2Fh1%3E")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(res.Content) != "<h1>Hi</h1>" || !res.IsHTML() || !res.IsSuccess() {
		t.Errorf("resource = %+v", res)
	}
}

func TestLoaderFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "index.html")
	if err := os.WriteFile(p, []byte("<title>Local</title>"), 0o644); err != nil {
		t.Fatal(err)
	}
	u, err := FileURL(p)
	if err != nil {
		t.Fatal(err)
	}

	l := newTestLoader(t)
	res, err := l.Load(context.Background(), u)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(res.Content) != "<title>Local</title>" || res.MediaType != "text/html" {
		t.Errorf("resource = %+v", res)
	}

	if _, err := l.Load(context.Background(), u+".missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestLoaderHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>remote</p>"))
	}))
	defer server.Close()

	l := newTestLoader(t)
	res, err := l.Load(context.Background(), server.URL+"/page")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.MediaType != "text/html" || res.Charset != "utf-8" || string(res.Content) != "<p>remote</p>" {
		t.Errorf("resource = %+v", res)
	}
	if res.URL != server.URL+"/page" {
		t.Errorf("URL = %q", res.URL)
	}

	res, err = l.Load(context.Background(), server.URL+"/missing")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.IsSuccess() {
		t.Errorf("404 reported as success")
	}
}

func TestLoaderCaching(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Cache-Control", "max-age=3600")
		w.Write([]byte("cached"))
	}))
	defer server.Close()

	ctx := context.Background()
	cached := newTestLoader(t, WithCache(NewCache(10)))
	cached.Load(ctx, server.URL)
	res, _ := cached.Load(ctx, server.URL)
	if hits != 1 || !res.Cached {
		t.Errorf("hits = %d, Cached = %v, want 1 and true", hits, res.Cached)
	}

	cached.ClearCache()
	cached.Load(ctx, server.URL)
	if hits != 2 {
		t.Errorf("hits after ClearCache = %d, want 2", hits)
	}

	uncached := newTestLoader(t)
	uncached.Load(ctx, server.URL)
	uncached.Load(ctx, server.URL)
	if hits != 4 {
		t.Errorf("hits without cache = %d, want 4", hits)
	}
	if uncached.Cache() != nil {
		t.Error("Cache() != nil without WithCache")
	}
}

func TestLoaderAboutAndUnsupported(t *testing.T) {
	l := newTestLoader(t)
	res, err := l.Load(context.Background(), BlankURL)
	if err != nil || len(res.Content) != 0 || !res.IsHTML() {
		t.Errorf("about:blank = %+v, %v", res, err)
	}

	if _, err := l.Load(context.Background(), "ftp://example.com/file"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("ftp error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestLoaderCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newTestLoader(t)
	if _, err := l.Load(ctx, server.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
