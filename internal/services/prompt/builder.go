// Package prompt assembles the final generation prompt. Every request gets
// the same content-safety augmentation on top of the caller's scene prompt;
// the clauses are configurable but never absent.
package prompt

import (
	"strings"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
)

const (
	defaultSafetySuffix = "dressed in modest, fully-covering attire, face clearly visible and unobstructed, " +
		"photorealistic, natural lighting, natural skin texture, well-proportioned anatomy, " +
		"family-friendly, suitable for all ages"

	defaultGlassesClause = "wearing glasses"

	defaultNegativePrompt = "nsfw, nude, nudity, explicit, revealing clothing, swimwear, underwear, " +
		"cleavage, suggestive pose, deformed face, distorted features, asymmetric eyes, " +
		"extra limbs, extra fingers, missing fingers, malformed hands, disfigured, mutated, " +
		"blurry face, low quality, watermark, text overlay"
)

type Config struct {
	SafetySuffix   string
	GlassesClause  string
	NegativePrompt string
}

type Builder struct {
	safetySuffix   string
	glassesClause  string
	negativePrompt string
}

func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		safetySuffix:   strings.TrimSpace(cfg.SafetySuffix),
		glassesClause:  strings.TrimSpace(cfg.GlassesClause),
		negativePrompt: strings.TrimSpace(cfg.NegativePrompt),
	}
	if b.safetySuffix == "" {
		b.safetySuffix = defaultSafetySuffix
	}
	if b.glassesClause == "" {
		b.glassesClause = defaultGlassesClause
	}
	if b.negativePrompt == "" {
		b.negativePrompt = defaultNegativePrompt
	}
	return b
}

// Build returns the augmented prompt and its negative-prompt counterpart.
// The subject is named by detected gender and the glasses clause is appended
// only when detection saw eyewear.
func (b *Builder) Build(scenePrompt string, attrs model.FaceAttributes) (string, string) {
	subject := "a man"
	if attrs.Gender == enums.GenderFemale {
		subject = "a woman"
	}

	parts := make([]string, 0, 4)
	if trimmed := strings.TrimSpace(scenePrompt); trimmed != "" {
		parts = append(parts, trimmed)
	}
	parts = append(parts, "portrait of "+subject)
	if attrs.HasGlasses {
		parts = append(parts, b.glassesClause)
	}
	parts = append(parts, b.safetySuffix)

	return strings.Join(parts, ", "), b.negativePrompt
}
