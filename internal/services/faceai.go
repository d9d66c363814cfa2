package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/utils"
)

// FaceAIClient talks to the external face recognition service. All biometric
// computation happens there; this side only ships images and vectors around.
type FaceAIClient interface {
	Embeddings(ctx context.Context, image string) (*EmbeddingResult, error)
	Compare(ctx context.Context, embedding1, embedding2 []float64) (*CompareResult, error)
}

type EmbeddingResult struct {
	Status    string         `json:"status"`
	Embedding []float64      `json:"embedding"`
	Quality   *QualityReport `json:"quality,omitempty"`
	FaceBox   []float64      `json:"face_box,omitempty"`
}

type QualityReport struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type CompareResult struct {
	Status       string  `json:"status"`
	IsSamePerson bool    `json:"is_same_person"`
	Confidence   float64 `json:"confidence"`
	Distance     float64 `json:"distance"`
	Threshold    float64 `json:"threshold"`
}

// FaceAIHTTPError is a non-2xx answer from the AI service.
type FaceAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *FaceAIHTTPError) Error() string {
	return fmt.Sprintf("face ai http %d: %s", e.StatusCode, e.Body)
}

// FaceAIStatusError is a 2xx answer whose payload status is not "success",
// e.g. no face found in the submitted image.
type FaceAIStatusError struct {
	Status  string
	Message string
}

func (e *FaceAIStatusError) Error() string {
	return fmt.Sprintf("face ai status %q: %s", e.Status, e.Message)
}

type faceAIClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	threshold  float64
	httpClient *http.Client
}

func NewFaceAIClient(log *logger.Logger) (FaceAIClient, error) {
	serviceLog := log.With("service", "FaceAIClient")

	baseURL := utils.GetEnv("AI_SERVICE_URL", "", log)
	if baseURL == "" {
		return nil, fmt.Errorf("AI_SERVICE_URL is not set")
	}
	apiKey := utils.GetEnv("AI_SERVICE_API_KEY", "", log)
	timeoutSec := utils.GetEnvAsInt("AI_SERVICE_TIMEOUT_SECONDS", 30, log)

	return &faceAIClient{
		log:        serviceLog,
		baseURL:    baseURL,
		apiKey:     apiKey,
		threshold:  0.7,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

func (c *faceAIClient) Embeddings(ctx context.Context, image string) (*EmbeddingResult, error) {
	var out EmbeddingResult
	body := map[string]any{"image": image}
	if err := c.post(ctx, "/api/face/recognition/embeddings", body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, &FaceAIStatusError{Status: out.Status, Message: "embedding extraction failed"}
	}
	return &out, nil
}

func (c *faceAIClient) Compare(ctx context.Context, embedding1, embedding2 []float64) (*CompareResult, error) {
	var out CompareResult
	body := map[string]any{
		"embedding1": embedding1,
		"embedding2": embedding2,
		"threshold":  c.threshold,
	}
	if err := c.post(ctx, "/api/face/recognition/compare", body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, &FaceAIStatusError{Status: out.Status, Message: "comparison failed"}
	}
	return &out, nil
}

func (c *faceAIClient) post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FaceAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("face ai decode error: %w", err)
	}
	return nil
}
