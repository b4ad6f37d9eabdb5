package handlers

import (
	"net/http"
	"strings"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/rules"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/dto"
	httperrors "github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/errors"
)

// ProfileHandler classifies a completed quiz server-side. The kiosk frontend
// runs the same decision procedure for instant display; this endpoint is the
// authoritative answer and feeds the generation scene.
type ProfileHandler struct {
	scenePrompts map[string]string
}

func NewProfileHandler(scenePrompts map[string]string) *ProfileHandler {
	return &ProfileHandler{scenePrompts: scenePrompts}
}

func (h *ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	if len(req.Answers) != 6 {
		writeBadRequest(w, "VALIDATION_ERROR", "exactly six answers are required")
		return
	}

	var slots [6]enums.Answer
	for i, raw := range req.Answers {
		a := enums.Answer(strings.ToUpper(strings.TrimSpace(raw)))
		if !a.Valid() {
			writeBadRequest(w, "VALIDATION_ERROR", "answers must be A, B or C")
			return
		}
		slots[i] = a
	}

	answers := model.QuizAnswers{
		Q1: slots[0], Q2: slots[1], Q3: slots[2],
		Q4: slots[3], Q5: slots[4], Q6: slots[5],
	}

	profile := rules.ClassifyProfile(answers)
	scene := rules.SceneForProfile(profile)

	httperrors.Write(w, http.StatusOK, dto.ProfileResponse{
		Profile:     string(profile),
		Scene:       string(scene),
		ScenePrompt: h.scenePrompts[string(scene)],
	})
}
