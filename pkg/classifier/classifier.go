package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"goodloop/pkg/config"
)

// Suggestion is what the external classifier guesses about an item image.
type Suggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Title      string  `json:"title,omitempty"`
	ClothType  string  `json:"cloth_type,omitempty"`
	Size       string  `json:"size,omitempty"`
	Color      string  `json:"color,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.ClassifierURL,
		apiKey:  cfg.ClassifierAPIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.ClassifierTimeoutMs) * time.Millisecond,
		},
	}
}

// Classify asks the classifier for a suggestion for the given image URL.
// Any failure (including timeout) returns an error; callers treat that as
// "no suggestion" rather than failing the submit.
func (c *Client) Classify(ctx context.Context, imageURL, hint string) (*Suggestion, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("classifier not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"image_url": imageURL,
		"hint":      hint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	return &suggestion, nil
}
