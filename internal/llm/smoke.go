package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SmokeResult is the raw outcome of a smoke request
type SmokeResult struct {
	StatusCode int
	Body       string
}

// Smoke sends one bare chat completion request to baseURL and returns the
// status code and body untouched. It bypasses the SDK so the endpoint and
// key can be checked on their own; non-2xx statuses are not errors here.
func Smoke(ctx context.Context, httpClient *http.Client, baseURL, apiKey, model string) (*SmokeResult, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	payload, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": "Hello"},
		},
	})
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build smoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read smoke response: %w", err)
	}
	return &SmokeResult{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
