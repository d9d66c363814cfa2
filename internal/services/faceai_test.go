package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFaceAIClient(t *testing.T, handler http.Handler) FaceAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("AI_SERVICE_URL", srv.URL)
	t.Setenv("AI_SERVICE_API_KEY", "test-key")

	client, err := NewFaceAIClient(newTestLogger(t))
	if err != nil {
		t.Fatalf("NewFaceAIClient: %v", err)
	}
	return client
}

func TestFaceAIClientRequiresBaseURL(t *testing.T) {
	t.Setenv("AI_SERVICE_URL", "")
	if _, err := NewFaceAIClient(newTestLogger(t)); err == nil {
		t.Fatal("expected error when AI_SERVICE_URL is unset")
	}
}

func TestEmbeddingsRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	client := newTestFaceAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "success",
			"embedding": []float64{0.1, 0.2, 0.3},
			"quality":   map[string]any{"score": 0.92, "feedback": "good lighting"},
		})
	}))

	res, err := client.Embeddings(context.Background(), "base64-image-data")
	if err != nil {
		t.Fatalf("Embeddings: %v", err)
	}
	if gotPath != "/api/face/recognition/embeddings" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("X-API-Key = %q", gotKey)
	}
	if gotBody["image"] != "base64-image-data" {
		t.Fatalf("request body = %v", gotBody)
	}
	if len(res.Embedding) != 3 {
		t.Fatalf("embedding = %v", res.Embedding)
	}
	if res.Quality == nil || res.Quality.Score != 0.92 {
		t.Fatalf("quality = %+v", res.Quality)
	}
}

func TestCompareRequest(t *testing.T) {
	var gotBody map[string]any
	client := newTestFaceAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/face/recognition/compare" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "success",
			"is_same_person": true,
			"confidence":     0.95,
			"distance":       0.05,
			"threshold":      0.7,
		})
	}))

	res, err := client.Compare(context.Background(), []float64{1}, []float64{2})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !res.IsSamePerson || res.Confidence != 0.95 {
		t.Fatalf("result = %+v", res)
	}
	if gotBody["threshold"] != 0.7 {
		t.Fatalf("threshold sent = %v, want 0.7", gotBody["threshold"])
	}
	if _, ok := gotBody["embedding1"]; !ok {
		t.Fatalf("request body = %v, want embedding1", gotBody)
	}
}

func TestFaceAIStatusErrorOnNonSuccess(t *testing.T) {
	client := newTestFaceAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "no_face_detected"})
	}))

	_, err := client.Embeddings(context.Background(), "img")
	var statusErr *FaceAIStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want FaceAIStatusError", err)
	}
	if statusErr.Status != "no_face_detected" {
		t.Fatalf("status = %s", statusErr.Status)
	}
}

func TestFaceAIHTTPErrorOnServerFailure(t *testing.T) {
	client := newTestFaceAIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := client.Compare(context.Background(), []float64{1}, []float64{2})
	var httpErr *FaceAIHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want FaceAIHTTPError", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status code = %d", httpErr.StatusCode)
	}
}
