package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ai-tutor-backend/internal/config"
)

// OCRClient talks to the OCR sidecar service. The sidecar reads text
// from rendered page bitmaps; any failure degrades to an empty string
// because OCR is a fallback, never a requirement.
type OCRClient struct {
	config     *config.Config
	httpClient *http.Client
	baseURL    string
}

// OCRResponse represents the response from the OCR service
type OCRResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Device      string `json:"device"`
	Version     string `json:"version"`
}

// NewOCRClient creates a new OCR client
func NewOCRClient(cfg *config.Config) *OCRClient {
	baseURL := cfg.OCRServiceURL
	if baseURL == "" {
		baseURL = "http://localhost:8001"
	}

	return &OCRClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.OCRTimeout) * time.Second,
		},
		baseURL: baseURL,
	}
}

// IsHealthy checks if the OCR service is healthy
func (c *OCRClient) IsHealthy(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("OCR service unhealthy: status %d", resp.StatusCode)
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return false, fmt.Errorf("failed to decode health response: %w", err)
	}

	return healthResp.Status == "healthy" && healthResp.ModelLoaded, nil
}

// ExtractText runs OCR over one page bitmap. Returns the recognized
// text, or an empty string when the service is down or errors.
func (c *OCRClient) ExtractText(ctx context.Context, imageData []byte, filename string) string {
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

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ocr/extract", &buf)
	if err != nil {
		fmt.Printf("❌ Failed to create OCR request: %v\n", err)
		return ""
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		fmt.Printf("⚠️ OCR request failed: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("❌ OCR request failed with status %d: %s\n", resp.StatusCode, string(body))
		return ""
	}

	var ocrResp OCRResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		fmt.Printf("❌ Failed to decode OCR response: %v\n", err)
		return ""
	}
	if !ocrResp.Success {
		fmt.Printf("❌ OCR processing failed: %s\n", ocrResp.Error)
		return ""
	}

	fmt.Printf("📊 OCR Response: TextLen=%d\n", len(ocrResp.Text))
	return ocrResp.Text
}
