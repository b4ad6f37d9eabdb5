package apiapp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/config"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
	assetssvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/assets"
)

type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) EnsureBucket(context.Context) error { return nil }

func (m *memStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string, _ map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, assetssvc.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) ListOlderThan(context.Context, string, time.Time) ([]string, error) {
	return nil, nil
}

type stubDetectService struct{}

func (stubDetectService) DetectFromURL(context.Context, string) (model.FaceAttributes, error) {
	return model.FaceAttributes{}, errors.New("not configured")
}

// The links Generate hands out must be servable by this router as-is: the
// asset routes mirror the storage key namespaces, so PublicURL resolves by
// construction.
func TestRoutesServePublicURLs(t *testing.T) {
	storage := newMemStorage()
	assetService := assetssvc.NewService(storage, "https://kiosk.example.sg")

	key, err := assetService.StoreGenerated(context.Background(), enums.ScenePast, "1700000000123-ab12cde", []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatalf("store generated: %v", err)
	}

	publicURL, err := url.Parse(assetService.PublicURL(key))
	if err != nil {
		t.Fatalf("parse public url: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{
		AssetService: assetService,
		Logger:       zap.NewNop(),
		Config:       config.Default(),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, publicURL.Path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("the returned public url must resolve on this router, got %d for %s", rec.Code, publicURL.Path)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("unexpected content type %q", got)
	}

	// Uploads resolve the same way but stay private to caches.
	uploadKey, err := assetService.StoreUpload(context.Background(), "1700000000123-ab12cde", []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("store upload: %v", err)
	}
	uploadURL, err := url.Parse(assetService.PublicURL(uploadKey))
	if err != nil {
		t.Fatalf("parse upload url: %v", err)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, uploadURL.Path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload url must resolve, got %d for %s", rec.Code, uploadURL.Path)
	}
	if got := rec.Header().Get("Cache-Control"); got != "private, no-store" {
		t.Fatalf("unexpected cache control %q", got)
	}
}

func TestTestGenderRouteIsRateLimited(t *testing.T) {
	limiter, _ := newMiniredisLimiter(t, 5)

	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{
		DetectService: stubDetectService{},
		RateLimiter:   limiter,
		Logger:        zap.NewNop(),
		Config:        config.Default(),
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/test-gender",
			strings.NewReader(`{"imageUrl":"https://example.com/a.jpg"}`))
		req.Header.Set("CF-Connecting-IP", "203.0.113.9")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		if code := do(); code == http.StatusTooManyRequests {
			t.Fatalf("request %d should not be limited", i+1)
		}
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("sixth diagnostic request should be limited, got %d", code)
	}
}
