package resultsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"quiz-attempt-service/internal/domain"
)

// Config points the client at the results-recording REST API.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client posts attempt results and lists recorded ones. Failed calls are not
// retried; the caller decides whether to try again.
type Client struct {
	http *resty.Client
}

func New(cfg Config) *Client {
	h := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		h.SetAuthToken(cfg.Token)
	}
	return &Client{http: h}
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Results []domain.ResultRecord `json:"results"`
}

// RecordResult posts a submission; the API signals acceptance with success=true.
func (c *Client) RecordResult(ctx context.Context, submission domain.ResultSubmission) error {
	var out envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submission).
		SetResult(&out).
		SetError(&out).
		Post("/results")
	if err != nil {
		return fmt.Errorf("post result: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post result: %s%s", resp.Status(), suffix(out.Message))
	}
	if !out.Success {
		return fmt.Errorf("post result rejected%s", suffix(out.Message))
	}
	return nil
}

// ListResults fetches the recorded results of one user.
func (c *Client) ListResults(ctx context.Context, userID string) ([]domain.ResultRecord, error) {
	var out envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("userId", userID).
		SetResult(&out).
		SetError(&out).
		Get("/results")
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list results: %s%s", resp.Status(), suffix(out.Message))
	}
	if !out.Success {
		return nil, fmt.Errorf("list results rejected%s", suffix(out.Message))
	}
	return out.Results, nil
}

func suffix(msg string) string {
	if msg == "" {
		return ""
	}
	return ": " + msg
}
