package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/pkg/validate"
	detectsvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/detect"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/dto"
	httperrors "github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/errors"
)

type DetectService interface {
	DetectFromURL(ctx context.Context, rawURL string) (model.FaceAttributes, error)
}

// DetectHandler backs the diagnostic endpoint used while tuning the kiosk
// camera setup; it is not part of the visitor flow.
type DetectHandler struct {
	service DetectService
}

func NewDetectHandler(service DetectService) *DetectHandler {
	return &DetectHandler{service: service}
}

func (h *DetectHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DETECTION_UNAVAILABLE", "detection service is unavailable")
		return
	}

	var req dto.DetectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}
	if !validate.Required(req.ImageURL) {
		writeBadRequest(w, "VALIDATION_ERROR", "imageUrl is required")
		return
	}

	attrs, err := h.service.DetectFromURL(r.Context(), req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, detectsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "imageUrl is not an allowed fetch target")
		case errors.Is(err, detectsvc.ErrNoFace):
			httperrors.Write(w, http.StatusOK, dto.DetectResponse{Success: false})
		default:
			writeInternal(w, "DETECTION_FAILED", "detection failed")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DetectResponse{
		Success:    true,
		Gender:     string(attrs.Gender),
		HasGlasses: attrs.HasGlasses,
	})
}
