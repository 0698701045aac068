package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to a remote scaling oracle service.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the oracle at baseURL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type scaleRequest struct {
	Subject string `json:"subject"`
	Value   string `json:"value"`
}

type scaleResponse struct {
	ScaledScore *float64 `json:"scaled_score"`
	Error       string   `json:"error,omitempty"`
}

// Scale requests the scaled score for one value. A non-2xx status or an error
// payload comes back as an error; callers exclude the affected row.
func (c *HTTPClient) Scale(ctx context.Context, subject, value string) (float64, error) {
	payload, err := json.Marshal(scaleRequest{Subject: subject, Value: value})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/scale", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("oracle POST /api/v1/scale: %d %s", resp.StatusCode, string(body))
	}

	var out scaleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, err
	}
	if out.Error != "" {
		return 0, fmt.Errorf("oracle: %s", out.Error)
	}
	if out.ScaledScore == nil {
		return 0, fmt.Errorf("oracle: empty response for %s=%s", subject, value)
	}
	return *out.ScaledScore, nil
}
