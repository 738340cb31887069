package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the Android auth host.
	DefaultBaseURL = "https://android.clients.google.com"
	// AuthPath is the path of the auth endpoint.
	AuthPath = "/auth"
	// DefaultUserAgent is the user agent sent by Play Services.
	DefaultUserAgent = "GoogleAuth/1.4"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the default number of retries.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the delay before the first retry.
	DefaultRetryDelay = time.Second

	maxResponseSize = 1 << 20
)

// Config holds the configuration for creating a new Client.
type Config struct {
	// BaseURL is the auth host. Defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout is the HTTP client timeout. Defaults to DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	// Zero means DefaultMaxRetries; a negative value disables retries.
	MaxRetries int
	// RetryDelay is the delay before the first retry. Defaults to
	// DefaultRetryDelay.
	RetryDelay time.Duration
	// RetryOn lists retryable status codes. Defaults to DefaultRetryOn.
	RetryOn []int
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// Logger receives request diagnostics. Defaults to a discarding logger.
	Logger logrus.FieldLogger
}

// Client posts form requests to the auth endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	retry      *RetryConfig
	log        logrus.FieldLogger
}

// NewClient creates a new Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retry := DefaultRetryConfig()
	switch {
	case cfg.MaxRetries < 0:
		retry.MaxRetries = 0
	case cfg.MaxRetries > 0:
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}
	if len(cfg.RetryOn) > 0 {
		retry.RetryableOn = RetryOnStatus(cfg.RetryOn)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	log := cfg.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		retry:      retry,
		log:        log,
	}, nil
}

// BaseURL returns the auth host the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostForm posts form to path and parses the Key=Value response. Transport
// failures and retryable status codes are retried with backoff; other
// non-2xx responses are returned as *APIError.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (Response, error) {
	endpoint := c.baseURL + path
	encoded := form.Encode()

	for attempt := 0; ; attempt++ {
		log := c.log.WithFields(logrus.Fields{"path": path, "attempt": attempt + 1})

		status, body, err := c.post(ctx, endpoint, encoded)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if !c.retry.CanRetry(attempt) {
				return nil, &NetworkError{Err: err, URL: endpoint, Attempt: attempt + 1}
			}
			log.WithError(err).Warn("auth request failed, retrying")
			if err := c.retry.Wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		log = log.WithField("status", status)
		if status >= 200 && status < 300 {
			log.Debug("auth request succeeded")
			return ParseResponse(body), nil
		}

		if c.retry.ShouldRetry(attempt, status) {
			log.Warn("auth request returned retryable status")
			if err := c.retry.Wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		apiErr := newAPIError(status, ParseResponse(body))
		log.WithField("code", apiErr.Code).Debug("auth request rejected")
		return nil, apiErr
	}
}

func (c *Client) post(ctx context.Context, endpoint, encoded string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
