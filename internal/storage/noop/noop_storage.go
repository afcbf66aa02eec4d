package noop

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"adframes/internal/port"
)

// Storage is an in-process ObjectStorage for development. Uploaded objects
// are kept in memory and presigned URLs use a noop:// scheme.
type Storage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewNoopStorage creates an empty Storage.
func NewNoopStorage() *Storage {
	return &Storage{objects: make(map[string][]byte)}
}

func objectKey(bucket, key string) string { return bucket + "/" + key }

func (s *Storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("noop upload read: %w", err)
	}
	s.mu.Lock()
	s.objects[objectKey(input.Bucket, input.Key)] = data
	s.mu.Unlock()
	log.Printf("[NOOP STORAGE] stored %s/%s (%d bytes)", input.Bucket, input.Key, len(data))
	return &port.UploadOutput{Location: "noop://" + objectKey(input.Bucket, input.Key)}, nil
}

func (s *Storage) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	delete(s.objects, objectKey(bucket, key))
	s.mu.Unlock()
	return nil
}

func (s *Storage) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	return "noop://" + objectKey(bucket, key), nil
}

// Object returns a stored object.
func (s *Storage) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectKey(bucket, key)]
	return data, ok
}
