package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrKeyRejected = errors.New("object key rejected")
	ErrNotFound    = errors.New("object not found")
)

const (
	jpegContentType = "image/jpeg"

	// Source photos are private and must never be cached downstream;
	// generated results are public and cacheable for a day.
	uploadCacheControl    = "private, no-store"
	generatedCacheControl = "public, max-age=86400"
)

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error)
}

type Service struct {
	storage       ObjectStorage
	publicBaseURL string
	now           func() time.Time
}

func NewService(storage ObjectStorage, publicBaseURL string) *Service {
	return &Service{
		storage:       storage,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		now:           time.Now,
	}
}

// StoreUpload persists the raw visitor photo under the private uploads
// namespace and returns its key.
func (s *Service) StoreUpload(ctx context.Context, requestID string, photo []byte) (string, error) {
	if requestID == "" || len(photo) == 0 {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", fmt.Errorf("assets storage is not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := UploadKey(requestID)
	if err := s.storage.Put(ctx, key, bytes.NewReader(photo), int64(len(photo)), jpegContentType, nil); err != nil {
		return "", fmt.Errorf("put upload: %w", err)
	}

	return key, nil
}

// StoreGenerated persists a generated portrait under the public namespace.
// Metadata carries only the category and creation timestamp; the prompt text
// is deliberately not recorded.
func (s *Service) StoreGenerated(ctx context.Context, category enums.SceneCategory, requestID string, image []byte) (string, error) {
	if !category.Valid() || requestID == "" || len(image) == 0 {
		return "", ErrValidation
	}
	if s.storage == nil {
		return "", fmt.Errorf("assets storage is not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := GeneratedKey(category, requestID)
	metadata := map[string]string{
		"category":   string(category),
		"created-at": s.now().UTC().Format(time.RFC3339),
	}
	if err := s.storage.Put(ctx, key, bytes.NewReader(image), int64(len(image)), jpegContentType, metadata); err != nil {
		return "", fmt.Errorf("put generated image: %w", err)
	}

	return key, nil
}

// Open validates the requested key against the serving allow-list and, only
// then, looks it up. The returned cache-control value depends on the key's
// namespace.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	if !AllowedKey(key) {
		return nil, 0, "", ErrKeyRejected
	}
	if s.storage == nil {
		return nil, 0, "", fmt.Errorf("assets storage is not configured")
	}

	body, size, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", fmt.Errorf("open object: %w", err)
	}

	cacheControl := generatedCacheControl
	if IsUploadKey(key) {
		cacheControl = uploadCacheControl
	}

	return body, size, cacheControl, nil
}

// PublicURL builds the externally reachable link for a stored key.
func (s *Service) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// PurgeStaleUploads removes source photos past the retention cutoff and
// returns how many were deleted. Generated results are never purged here.
func (s *Service) PurgeStaleUploads(ctx context.Context, cutoff time.Time) (int, error) {
	if s.storage == nil {
		return 0, fmt.Errorf("assets storage is not configured")
	}

	keys, err := s.storage.ListOlderThan(ctx, "uploads/", cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale uploads: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		if !IsUploadKey(key) {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			return deleted, fmt.Errorf("delete stale upload %q: %w", key, err)
		}
		deleted++
	}

	return deleted, nil
}
