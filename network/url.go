package network

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// BlankURL is the address of an empty page.
const BlankURL = "about:blank"

// NormalizeAddress turns user input into a loadable address. Input without
// a scheme is treated as a host name and gets https://.
func NormalizeAddress(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return BlankURL
	}
	if !strings.Contains(input, "://") && !hasOpaqueScheme(input) {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	return u.String()
}

func hasOpaqueScheme(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range []string{"about:", "data:", "javascript:", "mailto:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// FileURL returns the file:// address of a local path. Relative paths are
// made absolute first.
func FileURL(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// FilePath returns the local path of a file:// address.
func FilePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%s is not a file address", rawURL)
	}
	if u.Path == "" {
		return "", errors.New("file address without a path")
	}
	return filepath.FromSlash(u.Path), nil
}

// ResolveURL resolves ref against base. Absolute and opaque references are
// returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if hasOpaqueScheme(ref) {
		return ref, nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() {
		return refURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// IsDataURL reports whether rawURL uses the data: scheme.
func IsDataURL(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(rawURL), "data:")
}

// DataURL is a decoded data: address.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ParseDataURL decodes data:[<mediatype>][;base64],<data>.
func ParseDataURL(rawURL string) (*DataURL, error) {
	if !IsDataURL(rawURL) {
		return nil, errors.New("not a data URL")
	}

	meta, data, ok := strings.Cut(rawURL[len("data:"):], ",")
	if !ok {
		return nil, errors.New("invalid data URL: missing comma")
	}

	result := &DataURL{MediaType: "text/plain", Charset: "US-ASCII"}
	for i, part := range strings.Split(meta, ";") {
		switch {
		case part == "base64":
			result.Base64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			result.Charset = part[len("charset="):]
		case i == 0 && part != "":
			result.MediaType = part
		}
	}

	if result.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("decode base64 data: %w", err)
		}
		result.Data = decoded
		return result, nil
	}

	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("unescape data: %w", err)
	}
	result.Data = []byte(decoded)
	return result, nil
}

// ExtractExtension returns the lowercased file extension of a URL path,
// without the dot.
func ExtractExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	ext := path.Ext(u.Path)
	if len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// GuessContentType maps a URL's extension to a media type.
func GuessContentType(rawURL string) string {
	switch ExtractExtension(rawURL) {
	case "html", "htm":
		return "text/html"
	case "xhtml":
		return "application/xhtml+xml"
	case "css":
		return "text/css"
	case "js", "mjs":
		return "text/javascript"
	case "json":
		return "application/json"
	case "txt":
		return "text/plain"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
