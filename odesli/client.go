// Package odesli is a client for the Odesli (song.link) API, which maps a
// streaming link to the same song on other platforms.
package odesli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL     = "https://api.song.link/v1-alpha.1"
	DefaultUserCountry = "US"
)

// Client talks to the Odesli API. The zero value is not usable, use New.
type Client struct {
	baseURL     string
	userCountry string
	apiKey      string
	httpClient  *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the transport used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithAPIKey sends key with every request. Odesli works without one at a lower
// request allowance.
func WithAPIKey(key string) Option {
	return func(client *Client) {
		client.apiKey = key
	}
}

func New(baseURL, userCountry string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userCountry == "" {
		userCountry = DefaultUserCountry
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userCountry: userCountry,
		httpClient:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Links resolves target with a single request. A non-2xx answer is returned as
// a *StatusError carrying the status code and body.
func (c *Client) Links(ctx context.Context, target string) (*Response, error) {
	logger := log.WithFields(log.Fields{
		"module": "odesli",
		"method": "Links",
		"url":    target,
	})

	span := sentry.StartSpan(ctx, "odesli.links")
	span.Description = "Resolve link with Odesli"
	span.SetTag("user_country", c.userCountry)
	span.SetData("url", target)
	defer span.Finish()

	if target == "" {
		span.Status = sentry.SpanStatusInvalidArgument
		return nil, errors.New("url is required")
	}

	req, err := http.NewRequestWithContext(span.Context(), http.MethodGet, c.endpoint(target), nil)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, fmt.Errorf("building odesli request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Trace("requesting odesli")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Errorf("odesli request failed: %v", err)
		span.Status = sentry.SpanStatusUnavailable
		return nil, fmt.Errorf("requesting odesli: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, fmt.Errorf("reading odesli response: %w", err)
	}
	span.SetData("status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debugf("odesli returned status %d", resp.StatusCode)
		span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		logger.Errorf("could not decode odesli response: %v", err)
		span.Status = sentry.SpanStatusDataLoss
		return nil, fmt.Errorf("decoding odesli response: %w", err)
	}

	logger.Debugf("odesli returned %d platforms", len(out.LinksByPlatform))
	span.Status = sentry.SpanStatusOK
	return &out, nil
}

func (c *Client) endpoint(target string) string {
	q := url.Values{}
	q.Set("url", target)
	q.Set("userCountry", c.userCountry)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return c.baseURL + "/links?" + q.Encode()
}
