// Package ranking talks to the external resume ranking service.
package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	rankPath = "/rank-resumes"
	pingPath = "/test"

	maxResponseBytes = 8 << 20
)

// Request is the payload sent to the ranking service. Resume identity is the
// position in Resumes.
type Request struct {
	JobDescription string   `json:"job_description"`
	Resumes        []string `json:"resumes"`
}

// RankedResume is one entry of the service's ordered result list.
type RankedResume struct {
	ResumeIndex     int     `json:"resume_index" yaml:"resume_index"`
	SimilarityScore float64 `json:"similarity_score" yaml:"similarity_score"`
}

// Response is the service's success payload.
type Response struct {
	RankedResumes []RankedResume `json:"ranked_resumes"`
}

// Client implements screener.Ranker over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the service rooted at baseURL. A zero
// timeout leaves the request bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ranking service url is required")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Rank issues exactly one request and returns the ranked list as received.
func (c *Client) Rank(ctx context.Context, in Request) (Response, error) {
	if in.Resumes == nil {
		in.Resumes = []string{}
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return Response{}, fmt.Errorf("ranking request encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rankPath, bytes.NewReader(payload))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return Response{}, fmt.Errorf("ranking request timeout: %w", err)
		}
		return Response{}, fmt.Errorf("ranking request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("ranking response read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, newStatusError(resp.StatusCode, body)
	}

	if err := validateResponse(body); err != nil {
		return Response{}, err
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{}, fmt.Errorf("ranking response parse: %w", err)
	}
	return parsed, nil
}

// Ping checks the service's liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pingPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ranking ping: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp.StatusCode, body)
	}
	return nil
}
