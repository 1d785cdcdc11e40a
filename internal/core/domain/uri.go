package domain

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// FileURI returns the file:// URI for an absolute local path.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// PathFromURI returns the local path of a file:// URI.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnsupportedURI, uri, err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote host in %s", ErrUnsupportedURI, uri)
	}
	return filepath.FromSlash(u.Path), nil
}
