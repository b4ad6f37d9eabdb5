package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	assetssvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/assets"
)

type fakeAssetOpener struct {
	objects map[string][]byte
}

func (f *fakeAssetOpener) Open(_ context.Context, key string) (io.ReadCloser, int64, string, error) {
	if !assetssvc.AllowedKey(key) {
		return nil, 0, "", assetssvc.ErrKeyRejected
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, 0, "", assetssvc.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), "public, max-age=86400", nil
}

func assetRouter(opener AssetOpener) http.Handler {
	r := chi.NewRouter()
	handler := NewAssetHandler(opener)
	r.Get("/generated/*", handler.Handle)
	r.Get("/uploads/*", handler.Handle)
	return r
}

func getAsset(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAssetHandlerServesImage(t *testing.T) {
	opener := &fakeAssetOpener{objects: map[string][]byte{
		"generated/past/1700000000123-ab12cde.jpg": {0xFF, 0xD8, 0x01},
	}}
	rec := getAsset(t, assetRouter(opener), "/generated/past/1700000000123-ab12cde.jpg")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("unexpected cache control %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "3" {
		t.Fatalf("unexpected content length %q", got)
	}
}

func TestAssetHandlerRejectsDisallowedKeys(t *testing.T) {
	router := assetRouter(&fakeAssetOpener{objects: map[string][]byte{}})

	for _, path := range []string{
		"/generated/medieval/1.jpg",
		"/generated/past/secret.txt",
		"/uploads/1-aaaaaaa-face.png",
	} {
		if rec := getAsset(t, router, path); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", path, rec.Code)
		}
	}
}

func TestAssetHandlerMissingImageIs404(t *testing.T) {
	router := assetRouter(&fakeAssetOpener{objects: map[string][]byte{}})

	rec := getAsset(t, router, "/generated/past/1700000000123-ab12cde.jpg")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
