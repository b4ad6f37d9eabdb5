// Package detect wraps face-attribute detection. Inline detection during
// generation is best-effort: a failure degrades to default attributes rather
// than blocking the pipeline.
package detect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/pkg/safeurl"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNoFace     = errors.New("no face attributes detected")
)

// maxRemoteImageBytes caps the download size for URL-based detection.
const maxRemoteImageBytes = 10 << 20

type FaceClient interface {
	Detect(ctx context.Context, photo []byte) (model.FaceAttributes, error)
}

type Service struct {
	client FaceClient
	fetch  *http.Client
	log    *zap.Logger
}

func NewService(client FaceClient, fetch *http.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, fetch: fetch, log: log}
}

// Detect returns face attributes for the photo, falling back to the defaults
// when the detection service is unavailable or sees no face. It never fails.
func (s *Service) Detect(ctx context.Context, photo []byte) model.FaceAttributes {
	if s.client == nil {
		return model.DefaultFaceAttributes()
	}

	attrs, err := s.client.Detect(ctx, photo)
	if err != nil {
		s.log.Warn("face detection failed, using defaults", zap.Error(err))
		return model.DefaultFaceAttributes()
	}

	return attrs
}

// DetectFromURL fetches a remote image and runs detection on it. Unlike
// inline detection this path reports failures to the caller; it backs the
// diagnostic endpoint, not the pipeline.
func (s *Service) DetectFromURL(ctx context.Context, rawURL string) (model.FaceAttributes, error) {
	if err := safeurl.Check(rawURL); err != nil {
		return model.FaceAttributes{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if s.client == nil || s.fetch == nil {
		return model.FaceAttributes{}, fmt.Errorf("detection is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	resp, err := s.fetch.Do(req)
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.FaceAttributes{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	if resp.ContentLength > maxRemoteImageBytes {
		return model.FaceAttributes{}, fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, maxRemoteImageBytes)
	}

	photo, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageBytes+1))
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("read image: %w", err)
	}
	if len(photo) > maxRemoteImageBytes {
		return model.FaceAttributes{}, fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, maxRemoteImageBytes)
	}
	if len(photo) == 0 {
		return model.FaceAttributes{}, fmt.Errorf("%w: empty image", ErrValidation)
	}

	attrs, err := s.client.Detect(ctx, photo)
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("%w: %w", ErrNoFace, err)
	}

	return attrs, nil
}
