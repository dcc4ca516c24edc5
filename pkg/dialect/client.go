// Package dialect calls the external dialect detection service.
package dialect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Detection is the service verdict for one text sample.
type Detection struct {
	IsMatch    bool    `json:"is_match"`
	Confidence float64 `json:"confidence"`
}

// Detector is implemented by anything that can classify a text sample.
type Detector interface {
	Detect(ctx context.Context, text string) (*Detection, error)
}

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a timeout-bounded client. A missed timeout must surface
// as an error, never hang a turn.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type detectRequest struct {
	Text string `json:"text"`
}

// Detect posts the text and returns the service verdict. Callers treat any
// error as "inconclusive", never as "confirmed".
func (c *Client) Detect(ctx context.Context, text string) (*Detection, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("dialect: service not configured")
	}

	jsonBody, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dialect: service error %d: %s", resp.StatusCode, string(body))
	}

	var detection Detection
	if err := json.Unmarshal(body, &detection); err != nil {
		return nil, err
	}
	return &detection, nil
}

var _ Detector = &Client{}
