package vision_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"pictor/internal/services/vision"
)

func TestClassifyBatchNormalizesScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/classify" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Paths  []string `json:"paths"`
			Labels []string `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Paths) != 2 || len(req.Labels) != 3 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": [][]float64{
				{2.0, 1.0, 0.0},
				{0.0, 0.0, 5.0},
			},
		})
	}))
	defer server.Close()

	client := vision.NewClient(server.URL)
	scores, err := client.ClassifyBatch(context.Background(),
		[]string{"/a.jpg", "/b.jpg"}, []string{"car", "boat", "sign"})
	if err != nil {
		t.Fatalf("ClassifyBatch: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 result sets, got %d", len(scores))
	}

	for i, imageScores := range scores {
		var sum float64
		for _, s := range imageScores {
			if s.Value < 0 || s.Value > 1 {
				t.Fatalf("score out of range: %+v", s)
			}
			sum += s.Value
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("image %d scores sum to %v, want 1", i, sum)
		}
	}
	if scores[0][0].Label != "car" || scores[0][0].Value <= scores[0][1].Value {
		t.Fatalf("highest logit must keep highest probability: %+v", scores[0])
	}
	if scores[1][2].Value <= scores[1][0].Value {
		t.Fatalf("unexpected second image distribution: %+v", scores[1])
	}
}

func TestClassifyBatchShapeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": [][]float64{{1.0}}})
	}))
	defer server.Close()

	client := vision.NewClient(server.URL)
	_, err := client.ClassifyBatch(context.Background(),
		[]string{"/a.jpg", "/b.jpg"}, []string{"car"})
	if err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestClassifyBatchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := vision.NewClient(server.URL)
	_, err := client.ClassifyBatch(context.Background(), []string{"/a.jpg"}, []string{"car"})
	if err == nil {
		t.Fatal("expected error from 503 response")
	}
}

func TestClassifyBatchEmptyInput(t *testing.T) {
	client := vision.NewClient("http://127.0.0.1:1")
	scores, err := client.ClassifyBatch(context.Background(), nil, []string{"car"})
	if err != nil {
		t.Fatalf("empty batch must not call the backend: %v", err)
	}
	if scores != nil {
		t.Fatalf("expected nil scores, got %+v", scores)
	}
}

func TestReadTextTrimsFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ocr" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Path      string   `json:"path"`
			Languages []string `json:"languages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Languages) != 2 || req.Languages[0] != "en" || req.Languages[1] != "de" {
			t.Errorf("language set not forwarded: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"fragments": []string{"  42  ", "", "EXIT", "   "},
		})
	}))
	defer server.Close()

	client := vision.NewClient(server.URL)
	fragments, err := client.ReadText(context.Background(), "/a.jpg", []string{"en", "de"})
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	want := []string{"42", "EXIT"}
	if len(fragments) != len(want) {
		t.Fatalf("expected %v, got %v", want, fragments)
	}
	for i := range want {
		if fragments[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, fragments)
		}
	}
}

func TestWarmup(t *testing.T) {
	var warmed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/warmup" && r.Method == http.MethodPost {
			warmed = true
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := vision.NewClient(server.URL)
	if err := client.Warmup(context.Background()); err != nil {
		t.Fatalf("Warmup: %v", err)
	}
	if !warmed {
		t.Fatal("warmup endpoint was not called")
	}
}
