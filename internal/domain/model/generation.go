package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

type GenerationStatus string

const (
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// GenerationRecord is the audit row written after a generation attempt.
// The prompt text is intentionally not part of the record.
type GenerationRecord struct {
	ID        uuid.UUID           `json:"id"`
	RequestID string              `json:"request_id"`
	Category  enums.SceneCategory `json:"category"`
	Status    GenerationStatus    `json:"status"`
	ObjectKey string              `json:"object_key"`
	CreatedAt time.Time           `json:"created_at"`
}
