package assets

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

// Served keys must match one of these anchored patterns exactly; everything
// else (traversal attempts included) is rejected before any storage lookup.
var (
	generatedKeyPattern = regexp.MustCompile(`^generated/(past|present|future)/\d+-[a-z0-9]+\.jpg$`)
	uploadKeyPattern    = regexp.MustCompile(`^uploads/\d+-[a-z0-9]+-face\.jpg$`)
)

const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewRequestID returns the opaque id that namespaces every storage key of one
// generation request: millisecond timestamp plus a short random suffix.
func NewRequestID(now time.Time) string {
	suffix := make([]byte, 7)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the platform entropy source is broken;
		// fall back to a timestamp-derived suffix rather than aborting.
		for i := range suffix {
			suffix[i] = requestIDAlphabet[(now.UnixNano()>>uint(i*5))%int64(len(requestIDAlphabet))]
		}
	} else {
		for i, b := range suffix {
			suffix[i] = requestIDAlphabet[int(b)%len(requestIDAlphabet)]
		}
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

func UploadKey(requestID string) string {
	return fmt.Sprintf("uploads/%s-face.jpg", requestID)
}

func GeneratedKey(category enums.SceneCategory, requestID string) string {
	return fmt.Sprintf("generated/%s/%s.jpg", category, requestID)
}

func IsUploadKey(key string) bool {
	return uploadKeyPattern.MatchString(key)
}

func IsGeneratedKey(key string) bool {
	return generatedKeyPattern.MatchString(key)
}

// AllowedKey reports whether key is servable at all.
func AllowedKey(key string) bool {
	return IsUploadKey(key) || IsGeneratedKey(key)
}
