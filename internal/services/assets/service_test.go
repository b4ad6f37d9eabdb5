package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

type storedObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

type fakeStorage struct {
	objects  map[string]storedObject
	getCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]storedObject{}}
}

func (f *fakeStorage) EnsureBucket(context.Context) error { return nil }

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	f.objects[key] = storedObject{data: data, contentType: contentType, metadata: metadata, modified: time.Now()}
	return nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f.getCalls++
	obj, ok := f.objects[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), int64(len(obj.data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) ListOlderThan(_ context.Context, prefix string, cutoff time.Time) ([]string, error) {
	var keys []string
	for key, obj := range f.objects {
		if strings.HasPrefix(key, prefix) && obj.modified.Before(cutoff) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func TestStoreGeneratedMetadataOmitsPrompt(t *testing.T) {
	storage := newFakeStorage()
	svc := NewService(storage, "https://images.example.sg/")

	key, err := svc.StoreGenerated(context.Background(), enums.ScenePast, "1700000000123-ab12cde", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatalf("store generated: %v", err)
	}
	if key != "generated/past/1700000000123-ab12cde.jpg" {
		t.Fatalf("unexpected key: %q", key)
	}

	obj := storage.objects[key]
	if obj.metadata["category"] != "past" {
		t.Fatalf("metadata should record the category, got %v", obj.metadata)
	}
	if obj.metadata["created-at"] == "" {
		t.Fatalf("metadata should record the creation timestamp")
	}
	if len(obj.metadata) != 2 {
		t.Fatalf("metadata must hold category and timestamp only, got %v", obj.metadata)
	}
	if obj.contentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", obj.contentType)
	}

	if got := svc.PublicURL(key); got != "https://images.example.sg/"+key {
		t.Fatalf("unexpected public url: %q", got)
	}
}

func TestOpenAppliesCachePolicyPerNamespace(t *testing.T) {
	storage := newFakeStorage()
	svc := NewService(storage, "https://images.example.sg")

	ctx := context.Background()
	if _, err := svc.StoreUpload(ctx, "1700000000123-ab12cde", []byte{0xFF, 0xD8}); err != nil {
		t.Fatalf("store upload: %v", err)
	}
	if _, err := svc.StoreGenerated(ctx, enums.SceneFuture, "1700000000123-ab12cde", []byte{0xFF, 0xD8}); err != nil {
		t.Fatalf("store generated: %v", err)
	}

	body, _, cacheControl, err := svc.Open(ctx, "uploads/1700000000123-ab12cde-face.jpg")
	if err != nil {
		t.Fatalf("open upload: %v", err)
	}
	_ = body.Close()
	if cacheControl != "private, no-store" {
		t.Fatalf("uploads must never be cached, got %q", cacheControl)
	}

	body, _, cacheControl, err = svc.Open(ctx, "generated/future/1700000000123-ab12cde.jpg")
	if err != nil {
		t.Fatalf("open generated: %v", err)
	}
	_ = body.Close()
	if cacheControl != "public, max-age=86400" {
		t.Fatalf("generated images should cache for a day, got %q", cacheControl)
	}
}

func TestOpenRejectsBadKeysBeforeStorageLookup(t *testing.T) {
	storage := newFakeStorage()
	svc := NewService(storage, "https://images.example.sg")

	for _, key := range []string{
		"generated/past/../../secret.jpg",
		"generated/unknown/1.jpg",
		"uploads/1-face.png",
	} {
		if _, _, _, err := svc.Open(context.Background(), key); !errors.Is(err, ErrKeyRejected) {
			t.Fatalf("expected ErrKeyRejected for %q, got %v", key, err)
		}
	}
	if storage.getCalls != 0 {
		t.Fatalf("storage must not be touched for rejected keys, got %d lookups", storage.getCalls)
	}
}

func TestOpenMissingObject(t *testing.T) {
	svc := NewService(newFakeStorage(), "https://images.example.sg")

	_, _, _, err := svc.Open(context.Background(), "generated/past/1699999999-ab12cde.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPurgeStaleUploadsKeepsGeneratedResults(t *testing.T) {
	storage := newFakeStorage()
	svc := NewService(storage, "https://images.example.sg")

	old := time.Now().Add(-48 * time.Hour)
	storage.objects["uploads/1-aaaaaaa-face.jpg"] = storedObject{data: []byte{1}, modified: old}
	storage.objects["uploads/2-bbbbbbb-face.jpg"] = storedObject{data: []byte{1}, modified: time.Now()}
	storage.objects["generated/past/1-aaaaaaa.jpg"] = storedObject{data: []byte{1}, modified: old}

	deleted, err := svc.PurgeStaleUploads(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("purge stale uploads: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one stale upload deleted, got %d", deleted)
	}
	if _, ok := storage.objects["uploads/1-aaaaaaa-face.jpg"]; ok {
		t.Fatalf("stale upload should be gone")
	}
	if _, ok := storage.objects["uploads/2-bbbbbbb-face.jpg"]; !ok {
		t.Fatalf("fresh upload should survive")
	}
	if _, ok := storage.objects["generated/past/1-aaaaaaa.jpg"]; !ok {
		t.Fatalf("generated results must never be purged")
	}
}
