package artwork

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FormatURI converts a non-remote artwork reference into a URI.
// Absolute local paths become file:// URIs; values that already carry a
// scheme, and anything else, pass through unchanged.
func FormatURI(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		return raw
	}
	if filepath.IsAbs(raw) {
		return fileURI(raw)
	}
	return raw
}

// IsRemote reports whether raw is an http or https URL.
func IsRemote(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// LocalPath returns the filesystem path behind a file:// URI, or "" for any other URI.
func LocalPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return filepath.FromSlash(u.Path)
}

func fileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
