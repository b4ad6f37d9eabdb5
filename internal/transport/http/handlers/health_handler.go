package handlers

import (
	"net/http"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/dto"
	httperrors "github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/errors"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
