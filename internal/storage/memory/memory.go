// Package memory provides an in-memory blob store for tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/SeanSoulong/admin-bay/internal/storage"
)

type object struct {
	key         string
	contentType string
	data        []byte
}

// Store implements storage.BlobStore using an in-memory map.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	bucket  string
	baseURL string
}

// New creates a new in-memory blob store.
func New(baseURL, bucket string) *Store {
	return &Store{
		objects: make(map[string]object),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload reads the blob into memory under a generated key.
func (s *Store) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	key, err := storage.NewObjectKey(input.Folder, input.FileName)
	if err != nil {
		return nil, err
	}

	if input.Progress != nil {
		input.Progress(0)
	}

	data, err := io.ReadAll(storage.NewProgressReader(input.Reader, input.Size, input.Progress))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.objects[key] = object{key: key, contentType: input.ContentType, data: data}
	s.mu.Unlock()

	if input.Progress != nil {
		input.Progress(100)
	}

	return &storage.UploadResult{
		Key: key,
		URL: s.baseURL + "/" + s.bucket + "/" + key,
	}, nil
}

// Delete removes the blob a URL points at. Unparseable URLs and absent keys
// are ignored.
func (s *Store) Delete(_ context.Context, url string) error {
	key, ok := storage.ParseObjectKey(url, s.bucket)
	if !ok {
		return nil
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Object returns a stored blob's bytes by key.
func (s *Store) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, true
}
