// Package faceapi talks to the external face-attribute detection service.
package faceapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Success    bool   `json:"success"`
	Gender     string `json:"gender"`
	HasGlasses bool   `json:"has_glasses"`
}

// Detect sends the JPEG bytes to the detection service and returns the face
// attributes it reports. Any transport or decode failure is an error; the
// caller decides how to degrade.
func (c *Client) Detect(ctx context.Context, photo []byte) (model.FaceAttributes, error) {
	if c.httpClient == nil || c.baseURL == "" {
		return model.FaceAttributes{}, fmt.Errorf("face api client is not configured")
	}
	if len(photo) == 0 {
		return model.FaceAttributes{}, fmt.Errorf("empty photo")
	}

	payload, err := json.Marshal(detectRequest{Image: base64.StdEncoding.EncodeToString(photo)})
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.FaceAttributes{}, fmt.Errorf("call face api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.FaceAttributes{}, fmt.Errorf("face api returned status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return model.FaceAttributes{}, fmt.Errorf("decode detect response: %w", err)
	}
	if !body.Success {
		return model.FaceAttributes{}, fmt.Errorf("face api reported no face")
	}

	gender := enums.Gender(strings.ToLower(strings.TrimSpace(body.Gender)))
	if !gender.Valid() {
		return model.FaceAttributes{}, fmt.Errorf("face api returned unknown gender %q", body.Gender)
	}

	return model.FaceAttributes{Gender: gender, HasGlasses: body.HasGlasses}, nil
}
