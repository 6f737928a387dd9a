package network

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnsupportedScheme is returned for addresses the loader cannot fetch.
var ErrUnsupportedScheme = errors.New("unsupported address scheme")

// Resource is the loaded content of one address.
type Resource struct {
	// URL is the final address, after redirects.
	URL        string
	Content    []byte
	MediaType  string
	Charset    string
	StatusCode int
	Cached     bool
}

// IsSuccess reports whether the resource has a 2xx or 3xx status.
func (r *Resource) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// IsHTML reports whether the resource is an HTML document.
func (r *Resource) IsHTML() bool {
	return IsHTMLContentType(r.MediaType)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache enables response caching. Without it every load hits the network.
func WithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// Loader fetches page content over http(s), from the local file system
// or from data: addresses.
type Loader struct {
	client *Client
	cache  *Cache
}

// NewLoader creates a loader fetching through client.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{client: client}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Client returns the HTTP client.
func (l *Loader) Client() *Client {
	return l.client
}

// Cache returns the response cache, or nil when caching is off.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load fetches rawURL. HTTP error statuses are not errors; callers check
// IsSuccess.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Resource, error) {
	switch scheme, _, _ := strings.Cut(strings.ToLower(rawURL), ":"); scheme {
	case "about":
		return &Resource{URL: rawURL, MediaType: "text/html", StatusCode: 200}, nil
	case "data":
		return loadData(rawURL)
	case "file":
		return loadFile(rawURL)
	case "http", "https":
		return l.loadHTTP(ctx, rawURL)
	default:
		return nil, fmt.Errorf("load %s: %w", rawURL, ErrUnsupportedScheme)
	}
}

func loadData(rawURL string) (*Resource, error) {
	d, err := ParseDataURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:        rawURL,
		Content:    d.Data,
		MediaType:  strings.ToLower(d.MediaType),
		Charset:    strings.ToLower(d.Charset),
		StatusCode: 200,
	}, nil
}

func loadFile(rawURL string) (*Resource, error) {
	p, err := FilePath(rawURL)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return &Resource{
		URL:        rawURL,
		Content:    content,
		MediaType:  GuessContentType(rawURL),
		StatusCode: 200,
	}, nil
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) (*Resource, error) {
	if l.cache != nil {
		if entry, ok := l.cache.Get(rawURL); ok {
			res := resourceFrom(entry.Response, rawURL)
			res.Cached = true
			return res, nil
		}
	}

	resp, err := l.client.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if l.cache != nil && resp.StatusCode >= 200 && resp.StatusCode < 400 {
		l.cache.Set(rawURL, resp)
	}
	return resourceFrom(resp, rawURL), nil
}

func resourceFrom(resp *Response, requested string) *Resource {
	mediaType, charset := ParseContentType(resp.ContentType)
	final := requested
	if resp.URL != nil {
		final = resp.URL.String()
	}
	return &Resource{
		URL:        final,
		Content:    resp.Body,
		MediaType:  mediaType,
		Charset:    charset,
		StatusCode: resp.StatusCode,
	}
}

// ClearCache empties the response cache, if any.
func (l *Loader) ClearCache() {
	if l.cache != nil {
		l.cache.Clear()
	}
}
