// Package images provides upload validation, placeholder generation, and
// filesystem storage for artwork pages, avatars, and banners.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Buckets recognized by the storage layer. Each bucket is a subdirectory
// under the media root.
const (
	BucketArtworks = "artworks"
	BucketAvatars  = "avatars"
	BucketBanners  = "banners"
)

var validBuckets = map[string]bool{
	BucketArtworks: true,
	BucketAvatars:  true,
	BucketBanners:  true,
}

// ValidBucket reports whether name is a recognized storage bucket.
func ValidBucket(name string) bool {
	return validBuckets[name]
}

// Storage manages image filesystem operations across buckets.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath. Bucket subdirectories
// are created eagerly so serving paths can be resolved without checks.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	for bucket := range validBuckets {
		if err := os.MkdirAll(filepath.Join(basePath, bucket), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", bucket, err)
		}
	}

	return &Storage{
		basePath: basePath,
	}, nil
}

// Save stores image data under bucket/path.
// path is relative to the bucket root and may contain subdirectories
// (e.g. "art-123/page-001.jpg").
func (s *Storage) Save(bucket, path string, imgData []byte) error {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(fullPath, imgData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves image data from bucket/path.
func (s *Storage) Get(bucket, path string) ([]byte, error) {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found at %s/%s: %w", bucket, path, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if an image exists at bucket/path.
func (s *Storage) Exists(bucket, path string) bool {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(fullPath)
	return err == nil
}

// Delete removes an image at bucket/path. Missing files are not an error.
func (s *Storage) Delete(bucket, path string) error {
	fullPath, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// DeleteAll removes an entire directory under a bucket, e.g. every page of
// one artwork. Missing directories are not an error.
func (s *Storage) DeleteAll(bucket, dir string) error {
	fullPath, err := s.resolve(bucket, dir)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to delete image directory: %w", err)
	}

	return nil
}

// Hash computes SHA256 hash of an image.
// Returns hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(bucket, path string) (string, error) {
	data, err := s.Get(bucket, path)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for bucket/path, or an error when
// the bucket is unknown or the path escapes the bucket root.
func (s *Storage) Path(bucket, path string) (string, error) {
	return s.resolve(bucket, path)
}

// resolve validates bucket and path and joins them under the media root.
// Paths that traverse outside the bucket are rejected.
func (s *Storage) resolve(bucket, path string) (string, error) {
	if !validBuckets[bucket] {
		return "", fmt.Errorf("unknown bucket %q", bucket)
	}
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid image path %q", path)
	}

	return filepath.Join(s.basePath, bucket, cleaned), nil
}
