package s3mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
)

// S3Storage keeps note files in process memory for local runs without a
// bucket. It cannot presign links.
type S3Storage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *S3Storage {
	return &S3Storage{objects: make(map[string][]byte)}
}

func (s *S3Storage) Save(_ context.Context, key string, content io.Reader, size int64, _ string) error {
	data, err := io.ReadAll(io.LimitReader(content, size))
	if err != nil {
		return fmt.Errorf("failed to read note content: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *S3Storage) Load(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, usecase_notes.ErrNoteNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *S3Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
