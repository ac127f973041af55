// Package classifier provides clients for HuggingFace-style inference
// endpoints that score a text and reply with a list (sometimes doubly
// nested) of label/score pairs. The raw payload is passed through untouched;
// shape tolerance lives in the analysis package.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClassifier implements domain.SentimentClassifier over HTTP.
type HTTPClassifier struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPClassifier creates a classifier client. An empty url yields an
// unavailable classifier; the analyzer then degrades to zero scores.
func NewHTTPClassifier(url, token string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClassifier) Available() bool {
	return c.url != ""
}

// Classify posts {"inputs": text} and returns the raw JSON reply.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("encoding classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading classifier response: %w", err)
	}

	return raw, nil
}
