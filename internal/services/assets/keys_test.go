package assets

import (
	"strings"
	"testing"
	"time"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

func TestAllowedKeyAcceptsWellFormedKeys(t *testing.T) {
	for _, key := range []string{
		"generated/past/1699999999-ab12cde.jpg",
		"generated/present/1699999999000-zzzzzzz.jpg",
		"generated/future/1-a.jpg",
		"uploads/1699999999-ab12cde-face.jpg",
	} {
		if !AllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
}

func TestAllowedKeyRejectsEverythingElse(t *testing.T) {
	for _, key := range []string{
		"generated/past/../../secret.jpg",
		"generated/unknown/1.jpg",
		"uploads/1-face.png",
		"uploads/../generated/past/1-a.jpg",
		"generated/past/1-ab12cde.jpg/extra",
		"generated/past/1-AB12CDE.jpg",
		"uploads/1699999999-ab12cde.jpg",
		"secret.jpg",
		"",
	} {
		if AllowedKey(key) {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestGeneratedKeysMatchTheirOwnPattern(t *testing.T) {
	id := NewRequestID(time.Now())

	genKey := GeneratedKey(enums.ScenePast, id)
	if !IsGeneratedKey(genKey) {
		t.Fatalf("generated key %q does not match the serving pattern", genKey)
	}

	upKey := UploadKey(id)
	if !IsUploadKey(upKey) {
		t.Fatalf("upload key %q does not match the serving pattern", upKey)
	}
	if IsGeneratedKey(upKey) || IsUploadKey(genKey) {
		t.Fatalf("namespaces must not overlap: %q %q", upKey, genKey)
	}
}

func TestNewRequestIDShape(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewRequestID(now)

	if !strings.HasPrefix(id, "1700000000123-") {
		t.Fatalf("id %q should start with the millisecond timestamp", id)
	}
	suffix := strings.TrimPrefix(id, "1700000000123-")
	if len(suffix) != 7 {
		t.Fatalf("unexpected suffix length in %q", id)
	}
	for _, r := range suffix {
		if !strings.ContainsRune(requestIDAlphabet, r) {
			t.Fatalf("suffix rune %q outside alphabet in %q", r, id)
		}
	}

	if NewRequestID(now) == id {
		t.Fatalf("two ids for the same instant should differ")
	}
}
