package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/pkg/validate"
	generatesvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/generate"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/dto"
	httperrors "github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/errors"
)

// maxGenerateBodyBytes bounds the request body: the base64 photo ceiling plus
// headroom for the JSON envelope and prompt text.
const maxGenerateBodyBytes = validate.MaxEncodedPhotoBytes + 1<<20

type GenerateService interface {
	Generate(ctx context.Context, category enums.SceneCategory, scenePrompt string, photo []byte) (generatesvc.Result, error)
}

type GenerateHandler struct {
	service GenerateService
}

func NewGenerateHandler(service GenerateService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

func (h *GenerateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "GENERATION_UNAVAILABLE", "generation service is unavailable")
		return
	}

	// Reject oversized bodies on the declared length before reading a byte;
	// MaxBytesReader covers clients that lie about it.
	if r.ContentLength > maxGenerateBodyBytes {
		writeTooLarge(w, "PHOTO_TOO_LARGE", "photo exceeds the size limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBodyBytes)

	var req dto.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeTooLarge(w, "PHOTO_TOO_LARGE", "photo exceeds the size limit")
			return
		}
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	if !validate.Required(req.Photo) {
		writeBadRequest(w, "VALIDATION_ERROR", "photo is required")
		return
	}
	if !validate.Required(req.TimePeriod) {
		writeBadRequest(w, "VALIDATION_ERROR", "timePeriod is required")
		return
	}

	category, ok := enums.ParseSceneCategory(req.TimePeriod)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "timePeriod must be past, present or future")
		return
	}

	photo, err := validate.DecodePhoto(req.Photo)
	if err != nil {
		switch {
		case errors.Is(err, validate.ErrPhotoTooLarge):
			writeTooLarge(w, "PHOTO_TOO_LARGE", "photo exceeds the size limit")
		case errors.Is(err, validate.ErrNotJPEG):
			writeBadRequest(w, "VALIDATION_ERROR", "photo must be a jpeg image")
		default:
			writeBadRequest(w, "VALIDATION_ERROR", "photo is not valid base64")
		}
		return
	}

	result, err := h.service.Generate(r.Context(), category, req.Prompt, photo)
	if err != nil {
		handleGenerateError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.GenerateResponse{
		ImageURL: result.ImageURL,
		QRURL:    result.ImageURL,
	})
}

// handleGenerateError maps pipeline failures to responses. Upstream details
// never reach the client; the kiosk only needs to know the attempt failed.
func handleGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generatesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid generation request")
	case errors.Is(err, generatesvc.ErrGenerationTimeout):
		httperrors.Write(w, http.StatusGatewayTimeout, httperrors.APIError{
			Code:    "GENERATION_TIMEOUT",
			Message: "generation did not finish in time",
		})
	default:
		writeInternal(w, "GENERATION_FAILED", "generation failed")
	}
}
