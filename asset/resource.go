package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Resource wraps a streamable scene file that lives either on the local
// filesystem or behind an http/https URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource. Local resources return a filesystem
// path; remote resources return their full URL.
func (r *Resource) Path() string {
	if r.IsRemote() {
		return r.url.String()
	}
	return r.url.Path
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// IsRemotePath returns true if path carries an http/https scheme.
func IsRemotePath(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ResolvePath anchors path at the directory containing the document relTo.
// A leading ~ is expanded to the user's home directory. Absolute paths and
// URLs are returned unchanged apart from cleaning. An empty path stays empty.
func ResolvePath(path, relTo string) (string, error) {
	if path == "" {
		return "", nil
	}

	if IsRemotePath(path) {
		return path, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("resource: could not expand '%s': %w", path, err)
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}

	// Relative references inside a remote document resolve to URLs.
	if IsRemotePath(relTo) {
		base, err := url.Parse(relTo)
		if err != nil {
			return "", err
		}
		ref, err := url.Parse(filepath.ToSlash(expanded))
		if err != nil {
			return "", err
		}
		return base.ResolveReference(ref).String(), nil
	}

	dir := "."
	if relTo != "" {
		dir = filepath.Dir(relTo)
	}
	resolved, err := filepath.Abs(filepath.Join(dir, expanded))
	if err != nil {
		return "", fmt.Errorf("resource: could not detect abs path for %s; %w", path, err)
	}
	return resolved, nil
}

// Create a new Resource data stream. If relTo is specified and pathToResource
// does not define a scheme, then the path to the new Resource is resolved
// against the location of relTo.
//
// The caller must close the returned Resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	if u, err := url.Parse(pathToResource); err == nil && len(u.Scheme) > 1 && !IsRemotePath(pathToResource) {
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", u.Scheme)
	}

	var (
		resolved = pathToResource
		err      error
	)
	if relTo != nil {
		resolved, err = ResolvePath(pathToResource, relTo.Path())
	} else if !IsRemotePath(pathToResource) {
		resolved, err = ResolvePath(pathToResource, "")
	}
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(filepath.ToSlash(resolved))
	if err != nil {
		return nil, err
	}
	if !IsRemotePath(resolved) {
		u.Scheme = ""
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "":
		u = &url.URL{Path: resolved}
		reader, err = os.Open(resolved)
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", u.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", u.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", u.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        u,
	}, nil
}

// Check whether a local file exists. Remote paths are never reported as existing.
func FileExists(path string) bool {
	if path == "" || IsRemotePath(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Ext returns the lower-case extension of path without the leading dot.
func Ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
