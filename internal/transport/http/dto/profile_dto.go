package dto

// ProfileRequest carries the six quiz answers in question order; each entry
// is one of "A", "B" or "C".
type ProfileRequest struct {
	Answers []string `json:"answers"`
}

type ProfileResponse struct {
	Profile     string `json:"profile"`
	Scene       string `json:"scene"`
	ScenePrompt string `json:"scenePrompt"`
}
