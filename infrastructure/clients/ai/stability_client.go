package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const stabilityTextToImageURL = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

// StabilityClient generates images via the Stability AI REST API.
type StabilityClient struct {
	apiKey     string
	httpClient *http.Client
	imageDir   string
}

func NewStabilityClient(apiKey, imageDir string) *StabilityClient {
	return &StabilityClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		imageDir:   imageDir,
	}
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	CfgScale    float64           `json:"cfg_scale"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Samples     int               `json:"samples"`
}

type stabilityPrompt struct {
	Text string `json:"text"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
	Message string `json:"message,omitempty"`
}

// GenerateImage runs a text-to-image generation and stores the first artifact
// under the upload directory. It returns the local file path.
func (c *StabilityClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("stability api key is not configured")
	}
	payload, err := json.Marshal(stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: prompt}},
		CfgScale:    7,
		Width:       1024,
		Height:      1024,
		Samples:     1,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stabilityTextToImageURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stability: status %d: %s", resp.StatusCode, out.Message)
	}
	if len(out.Artifacts) == 0 {
		return "", fmt.Errorf("stability: no artifacts returned")
	}

	raw, err := base64.StdEncoding.DecodeString(out.Artifacts[0].Base64)
	if err != nil {
		return "", fmt.Errorf("decode artifact: %w", err)
	}
	if err := os.MkdirAll(c.imageDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.imageDir, fmt.Sprintf("%s.png", uuid.New().String()))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
