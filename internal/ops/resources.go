package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ReadBytes loads a resource named by uri. http and https URIs are fetched;
// file:// URIs and bare paths are read from disk, relative paths against the
// library's base directory.
func (l *Library) ReadBytes(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			l.logger.Info("loading remote resource", "url", uri)
			return l.fetch(ctx, uri)
		case "file":
			return l.readLocal(u.Path)
		}
	}
	return l.readLocal(uri)
}

// ReadText is ReadBytes decoded as text.
func (l *Library) ReadText(ctx context.Context, uri string) (string, error) {
	data, err := l.ReadBytes(ctx, uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EmbedJSFile inlines the script at uri.
func (l *Library) EmbedJSFile(ctx context.Context, uri string) (string, error) {
	code, err := l.ReadText(ctx, uri)
	if err != nil {
		return "", err
	}
	return EmbedJS(code), nil
}

// EmbedImageFile inlines the image at uri as a data URI; the media type comes
// from its extension.
func (l *Library) EmbedImageFile(ctx context.Context, uri string, attrs []Attribute) (string, error) {
	ext := resourceExt(uri)
	if _, err := MimeType(ext); err != nil {
		return "", err
	}
	data, err := l.ReadBytes(ctx, uri)
	if err != nil {
		return "", err
	}
	return EmbedImage(B64Encode(data), ext, attrs)
}

// resourceExt returns the extension of the path named by uri, ignoring the
// query and fragment of URLs.
func resourceExt(uri string) string {
	if u, err := url.Parse(uri); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return path.Ext(u.Path)
		}
	}
	return filepath.Ext(uri)
}

// ResolvePath returns the absolute local path for p.
func (l *Library) ResolvePath(p string) string {
	if filepath.IsAbs(p) || l.baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(l.baseDir, p)
}

func (l *Library) readLocal(p string) ([]byte, error) {
	path := l.ResolvePath(p)
	l.logger.Debug("loading local resource", "path", path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrResourceNotFound, path)
	}
	return limitedReadAll(f, MaxResourceSize, path)
}

func (l *Library) fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrNetwork, uri, resp.Status)
	}

	data, err := limitedReadAll(resp.Body, MaxResourceSize, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return data, nil
}

func limitedReadAll(r io.Reader, maxBytes int64, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("reading %s: exceeds %d bytes", name, maxBytes)
	}
	return data, nil
}
