package model

import "github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"

type FaceAttributes struct {
	Gender     enums.Gender `json:"gender"`
	HasGlasses bool         `json:"has_glasses"`
}

// DefaultFaceAttributes is used whenever detection fails; detection is
// best-effort and must never block generation.
func DefaultFaceAttributes() FaceAttributes {
	return FaceAttributes{Gender: enums.GenderMale, HasGlasses: false}
}
