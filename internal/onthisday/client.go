// Package onthisday fetches the Wikimedia "on this day" feed.
package onthisday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/matheuskafuri/timeportal/internal/facts"
)

const (
	DefaultBaseURL  = "https://api.wikimedia.org"
	DefaultLanguage = "en"

	feedPath     = "/feed/v1/wikipedia/{lang}/onthisday/all/{month}/{day}"
	maxErrorBody = 512
)

// NetworkError means the request never produced a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("requesting %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError means the server answered with a non-2xx status or a body that is
// not a feed.
type APIError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Language  string
	Timeout   time.Duration
	UserAgent string
}

// Client retrieves one day's feed per call. It never retries or caches.
type Client struct {
	http     *resty.Client
	language string
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{http: rc, language: opts.Language}
}

// FeedURL returns the URL FetchFeed requests for month and day.
func (c *Client) FeedURL(month, day string) string {
	return fmt.Sprintf("%s/feed/v1/wikipedia/%s/onthisday/all/%s/%s", c.http.BaseURL, c.language, month, day)
}

// FetchFeed retrieves the feed for a zero-padded month and day.
func (c *Client) FetchFeed(ctx context.Context, month, day string) (facts.RawFeed, error) {
	url := c.FeedURL(month, day)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"lang":  c.language,
			"month": month,
			"day":   day,
		}).
		Get(feedPath)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{URL: url, StatusCode: resp.StatusCode(), Body: string(body)}
	}

	var feed facts.RawFeed
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, &APIError{URL: url, StatusCode: resp.StatusCode(), Err: err}
	}
	if feed == nil {
		feed = facts.RawFeed{}
	}
	return feed, nil
}

// StatusCode extracts the HTTP status from an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
