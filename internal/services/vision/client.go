// Package vision wraps the HTTP inference backend that hosts the semantic
// image classifier and the text recognizer. The backend returns raw per-label
// logits; this client normalizes them into a probability distribution so
// callers always see scores that sum to one per image.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "http://127.0.0.1:8421"
	defaultHTTPTimeout = 60 * time.Second
)

// Score is one label with its normalized probability for a single image.
type Score struct {
	Label string
	Value float64
}

// Client talks to the vision inference backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the vision client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient constructs a vision backend client.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Warmup asks the backend to load both models so the first batch does not
// pay the initialization cost.
func (c *Client) Warmup(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/v1/warmup", struct{}{}, &resp); err != nil {
		return fmt.Errorf("vision warmup: %w", err)
	}
	return nil
}

// ClassifyBatch scores every label against every image in one request and
// returns one normalized score list per input path, in input order.
func (c *Client) ClassifyBatch(ctx context.Context, paths, labels []string) ([][]Score, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if len(labels) == 0 {
		return nil, errors.New("vision classify: labels required")
	}

	request := classifyRequest{Paths: paths, Labels: labels}
	var response classifyResponse
	if err := c.post(ctx, "/v1/classify", request, &response); err != nil {
		return nil, fmt.Errorf("vision classify: %w", err)
	}
	if len(response.Results) != len(paths) {
		return nil, fmt.Errorf("vision classify: got %d results for %d images",
			len(response.Results), len(paths))
	}

	scores := make([][]Score, len(response.Results))
	for i, logits := range response.Results {
		if len(logits) != len(labels) {
			return nil, fmt.Errorf("vision classify: got %d scores for %d labels",
				len(logits), len(labels))
		}
		probs := softmax(logits)
		imageScores := make([]Score, len(labels))
		for j, label := range labels {
			imageScores[j] = Score{Label: label, Value: probs[j]}
		}
		scores[i] = imageScores
	}
	return scores, nil
}

// ReadText returns the text fragments the recognizer found in one image.
// Languages narrows the recognizer's alphabet; empty means backend default.
func (c *Client) ReadText(ctx context.Context, path string, languages []string) ([]string, error) {
	request := ocrRequest{Path: path, Languages: languages}
	var response ocrResponse
	if err := c.post(ctx, "/v1/ocr", request, &response); err != nil {
		return nil, fmt.Errorf("vision ocr: %w", err)
	}
	fragments := make([]string, 0, len(response.Fragments))
	for _, fragment := range response.Fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			fragments = append(fragments, trimmed)
		}
	}
	return fragments, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// softmax converts logits to a probability distribution, shifting by the max
// for numeric stability.
func softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

type classifyRequest struct {
	Paths  []string `json:"paths"`
	Labels []string `json:"labels"`
}

type classifyResponse struct {
	Results [][]float64 `json:"results"`
}

type ocrRequest struct {
	Path      string   `json:"path"`
	Languages []string `json:"languages,omitempty"`
}

type ocrResponse struct {
	Fragments []string `json:"fragments"`
}
