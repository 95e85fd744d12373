package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-headlines/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public NewsAPI v2 endpoint.
	DefaultBaseURL = "https://newsapi.org/v2"

	topHeadlinesPath = "/top-headlines"
	maxSnippetLen    = 512
	apiKeyParam      = "apiKey"
	redactedValue    = "REDACTED"
)

// Client fetches top headlines from a NewsAPI-compatible endpoint.
type Client struct {
	http    httpclient.Client
	baseURL string
	headers map[string]string
}

// NewClient builds a client against baseURL (DefaultBaseURL when empty).
func NewClient(http httpclient.Client, baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    http,
		baseURL: baseURL,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "samvad-headlines/1.0",
		},
	}
}

// Fetch performs one GET against the top-headlines endpoint. It never retries.
func (c *Client) Fetch(ctx context.Context, countryCode, apiKey string) (*Envelope, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	country := strings.ToLower(strings.TrimSpace(countryCode))
	if !isCountryCode(country) {
		return nil, ErrInvalidCountry
	}

	resp, err := c.http.Get(ctx, c.baseURL+topHeadlinesPath, map[string]string{
		"country":   country,
		apiKeyParam: apiKey,
	}, c.headers)
	if err != nil {
		return nil, &TransportError{Err: redactKey(err, apiKey)}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		httpErr := &HTTPError{StatusCode: code, Body: responseSnippet(body)}
		var env Envelope
		if json.Unmarshal(body, &env) == nil {
			httpErr.Code = env.Code
			httpErr.Message = env.Message
		}
		return nil, httpErr
	}

	return decodeEnvelope(body)
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{Err: err}
	}
	if strings.TrimSpace(env.Status) == "" {
		return nil, &ParseError{Err: errors.New("envelope has no status")}
	}
	return &env, nil
}

// redactKey masks the api key in the request URL carried by transport errors.
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		masked := *urlErr
		masked.URL = redactURL(urlErr.URL)
		err = &masked
	}
	if strings.Contains(err.Error(), apiKey) {
		return &redactedError{msg: strings.ReplaceAll(err.Error(), apiKey, redactedValue), err: err}
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has(apiKeyParam) {
		q.Set(apiKeyParam, redactedValue)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
