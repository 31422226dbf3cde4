package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ai-tutor-backend/internal/config"
)

// CaptionClient talks to the image captioning sidecar. Captions are
// best effort: a failed request yields an empty caption and the page
// keeps its remaining content.
type CaptionClient struct {
	config     *config.Config
	httpClient *http.Client
	baseURL    string
}

// CaptionResponse represents the response from the caption service
type CaptionResponse struct {
	Success bool   `json:"success"`
	Caption string `json:"caption"`
	Error   string `json:"error,omitempty"`
}

// NewCaptionClient creates a new caption client
func NewCaptionClient(cfg *config.Config) *CaptionClient {
	baseURL := cfg.CaptionServiceURL
	if baseURL == "" {
		baseURL = "http://localhost:8002"
	}

	return &CaptionClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.CaptionTimeout) * time.Second,
		},
		baseURL: baseURL,
	}
}

// IsHealthy checks if the caption service is healthy
func (c *CaptionClient) IsHealthy(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// Caption describes one embedded image. Returns an empty string when
// the service is unavailable or returns nothing useful.
func (c *CaptionClient) Caption(ctx context.Context, imageData []byte, filename string) string {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		fmt.Printf("❌ Failed to create form file: %v\n", err)
		return ""
	}
	if _, err := io.Copy(fileWriter, bytes.NewReader(imageData)); err != nil {
		fmt.Printf("❌ Failed to copy image data: %v\n", err)
		return ""
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/caption", &buf)
	if err != nil {
		fmt.Printf("❌ Failed to create caption request: %v\n", err)
		return ""
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		fmt.Printf("⚠️ Caption request failed: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ Caption request failed with status %d: %s\n", resp.StatusCode, string(body))
		return ""
	}

	var capResp CaptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&capResp); err != nil {
		fmt.Printf("❌ Failed to decode caption response: %v\n", err)
		return ""
	}
	if !capResp.Success {
		fmt.Printf("❌ Captioning failed: %s\n", capResp.Error)
		return ""
	}

	return strings.TrimSpace(capResp.Caption)
}
