package validate

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

const (
	// MaxEncodedPhotoBytes caps the base64 text itself, checked before any
	// decode work happens.
	MaxEncodedPhotoBytes = 5 << 20
	// MaxDecodedPhotoBytes caps the raw photo, checked both by estimate from
	// the encoded length and again after decoding.
	MaxDecodedPhotoBytes = 10 << 20
)

var (
	ErrBadEncoding   = errors.New("photo is not valid base64")
	ErrPhotoTooLarge = errors.New("photo exceeds the size limit")
	ErrNotJPEG       = errors.New("photo is not a jpeg image")
)

var base64Shape = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// DecodePhoto validates and decodes a base64-encoded JPEG. Charset, padding
// and both size ceilings are enforced before the magic-number check; callers
// must not touch the network until this has succeeded.
func DecodePhoto(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrBadEncoding
	}
	if len(encoded) > MaxEncodedPhotoBytes {
		return nil, ErrPhotoTooLarge
	}
	if len(encoded)%4 != 0 || !base64Shape.MatchString(encoded) {
		return nil, ErrBadEncoding
	}

	// Estimate the decoded size from the encoded length before decoding.
	if len(encoded)/4*3 > MaxDecodedPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrBadEncoding
	}
	if len(decoded) > MaxDecodedPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	// JPEG streams start with the SOI marker.
	if len(decoded) < 2 || decoded[0] != 0xFF || decoded[1] != 0xD8 {
		return nil, ErrNotJPEG
	}

	return decoded, nil
}
