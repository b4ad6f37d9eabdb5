// Package genqueue is the client for the queue-based image generation
// service: submit a job, poll its status, download the finished image.
package genqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
)

type Config struct {
	BaseURL       string
	APIKey        string
	MaxImageBytes int64
}

type Client struct {
	httpClient    *http.Client
	fetchClient   *http.Client
	baseURL       string
	apiKey        string
	maxImageBytes int64
}

// NewClient builds a queue client. httpClient serves the submit/poll calls,
// fetchClient the (larger, slower) image download.
func NewClient(httpClient, fetchClient *http.Client, cfg Config) *Client {
	return &Client{
		httpClient:    httpClient,
		fetchClient:   fetchClient,
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:        cfg.APIKey,
		maxImageBytes: cfg.MaxImageBytes,
	}
}

// Job is one poll observation. ImageURL is set only once the job completed.
type Job struct {
	Status   enums.JobStatus
	ImageURL string
}

type submitRequest struct {
	Input submitInput `json:"input"`
}

type submitInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	Status string `json:"status"`
	Output struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"output"`
}

// Submit enqueues a generation job and returns the remote job id.
func (c *Client) Submit(ctx context.Context, prompt, negativePrompt string) (string, error) {
	if c.httpClient == nil || c.baseURL == "" {
		return "", fmt.Errorf("generation queue client is not configured")
	}

	payload, err := json.Marshal(submitRequest{Input: submitInput{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
	}})
	if err != nil {
		return "", fmt.Errorf("marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit generation job: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation queue returned status %d", resp.StatusCode)
	}

	var body submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("generation queue returned no job id")
	}

	return body.ID, nil
}

// Poll reads the current status of a job. Completed jobs carry the image URL;
// the queue has been seen returning it both as output.images[0].url and as
// output.image.url, so both shapes are accepted.
func (c *Client) Poll(ctx context.Context, jobID string) (Job, error) {
	if c.httpClient == nil || c.baseURL == "" {
		return Job{}, fmt.Errorf("generation queue client is not configured")
	}
	if jobID == "" {
		return Job{}, fmt.Errorf("empty job id")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+jobID, nil)
	if err != nil {
		return Job{}, fmt.Errorf("build status request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Job{}, fmt.Errorf("poll generation job: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Job{}, fmt.Errorf("generation queue returned status %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return Job{}, fmt.Errorf("decode status response: %w", err)
	}

	job := Job{Status: enums.JobStatus(body.Status)}
	if len(body.Output.Images) > 0 {
		job.ImageURL = body.Output.Images[0].URL
	} else {
		job.ImageURL = body.Output.Image.URL
	}

	return job, nil
}

// FetchImage downloads the finished image, refusing anything larger than the
// configured ceiling whether or not the server declares a Content-Length.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if c.fetchClient == nil {
		return nil, fmt.Errorf("generation queue client is not configured")
	}
	if imageURL == "" {
		return nil, fmt.Errorf("empty image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch generated image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > c.maxImageBytes {
		return nil, fmt.Errorf("generated image exceeds %d bytes", c.maxImageBytes)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read generated image: %w", err)
	}
	if int64(len(image)) > c.maxImageBytes {
		return nil, fmt.Errorf("generated image exceeds %d bytes", c.maxImageBytes)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("generated image is empty")
	}

	return image, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Key "+c.apiKey)
	}
}
