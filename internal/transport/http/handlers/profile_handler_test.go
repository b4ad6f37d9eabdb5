package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postProfile(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewProfileHandler(map[string]string{
		"past":    "past scene",
		"present": "present scene",
		"future":  "future scene",
	})
	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestProfileHandlerClassifies(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantProfile string
		wantScene   string
	}{
		{"clear majority", `{"answers":["A","A","A","B","C","B"]}`, "guardian", "past"},
		{"two-way tie", `{"answers":["A","A","A","B","B","B"]}`, "guardian-steward", "past"},
		{"lowercase accepted", `{"answers":["c","c","c","c","a","b"]}`, "shaper", "future"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postProfile(t, tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp struct {
				Profile     string `json:"profile"`
				Scene       string `json:"scene"`
				ScenePrompt string `json:"scenePrompt"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Profile != tc.wantProfile {
				t.Fatalf("expected profile %q, got %q", tc.wantProfile, resp.Profile)
			}
			if resp.Scene != tc.wantScene {
				t.Fatalf("expected scene %q, got %q", tc.wantScene, resp.Scene)
			}
			if resp.ScenePrompt != tc.wantScene+" scene" {
				t.Fatalf("scene prompt should come from config, got %q", resp.ScenePrompt)
			}
		})
	}
}

func TestProfileHandlerValidatesAnswers(t *testing.T) {
	for _, body := range []string{
		"not-json",
		`{"answers":["A","B","C"]}`,
		`{"answers":["A","B","C","D","A","B"]}`,
		`{"answers":["A","B","C","A","B","C","A"]}`,
		`{"answers":[]}`,
	} {
		rec := postProfile(t, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}
}
