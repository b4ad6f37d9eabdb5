package dto

// GenerateRequest is the kiosk's generation call. Photo is a base64-encoded
// JPEG; Prompt may be empty, in which case the server-side scene prompt for
// the time period is used.
type GenerateRequest struct {
	Photo      string `json:"photo"`
	Prompt     string `json:"prompt"`
	TimePeriod string `json:"timePeriod"`
}

// GenerateResponse carries the same public link twice: once for the on-screen
// display and once for the QR code the kiosk renders.
type GenerateResponse struct {
	ImageURL string `json:"imageUrl"`
	QRURL    string `json:"qrUrl"`
}
