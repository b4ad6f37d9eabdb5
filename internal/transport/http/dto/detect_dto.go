package dto

type DetectRequest struct {
	ImageURL string `json:"imageUrl"`
}

type DetectResponse struct {
	Success    bool   `json:"success"`
	Gender     string `json:"gender,omitempty"`
	HasGlasses bool   `json:"hasGlasses"`
}
