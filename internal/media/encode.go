// Package media loads the decorative assets the pages embed: local images
// as base64 data and Lottie animations from a CDN.
package media

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// EncodeFileBase64 reads path and returns its contents base64-encoded.
func EncodeFileBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURI wraps encoded file contents in a data: URI, guessing the
// media type from the extension.
func DataURI(path, encoded string) string {
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + encoded
}

type imageKey struct {
	path    string
	modTime int64
	size    int64
}

// ImageStore keeps encoded images in memory. A file that changes on disk
// gets a new entry.
type ImageStore struct {
	cache *lru.Cache[imageKey, string]
}

func NewImageStore(size int) (*ImageStore, error) {
	cache, err := lru.New[imageKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &ImageStore{cache: cache}, nil
}

// DataURI returns path as a data: URI, encoding it only on a cache miss.
func (s *ImageStore) DataURI(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	key := imageKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if uri, ok := s.cache.Get(key); ok {
		return uri, nil
	}

	encoded, err := EncodeFileBase64(path)
	if err != nil {
		return "", err
	}
	uri := DataURI(path, encoded)
	s.cache.Add(key, uri)
	return uri, nil
}
