package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	assetssvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/assets"
)

type AssetOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, int64, string, error)
}

type AssetHandler struct {
	service AssetOpener
}

func NewAssetHandler(service AssetOpener) *AssetHandler {
	return &AssetHandler{service: service}
}

// Handle serves stored images by key. The request path IS the object key
// (mounted at /generated/* and /uploads/*), so the links PublicURL hands out
// resolve here without translation. The key allow-list lives in the assets
// service; anything it rejects is a client error, not a lookup miss.
func (h *AssetHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ASSETS_UNAVAILABLE", "asset storage is unavailable")
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/")

	body, size, cacheControl, err := h.service.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, assetssvc.ErrKeyRejected):
			writeBadRequest(w, "KEY_REJECTED", "requested key is not servable")
		case errors.Is(err, assetssvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "image not found")
		default:
			writeInternal(w, "ASSET_READ_FAILED", "failed to read image")
		}
		return
	}
	defer func() { _ = body.Close() }()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", cacheControl)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	_, _ = io.Copy(w, body)
}
