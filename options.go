package gpsauth

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDeviceCountry = "us"
	defaultLanguage      = "en"
	defaultSDKVersion    = 17
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryOn    []int
	userAgent  string
	encrypter  *Encrypter
	logger     logrus.FieldLogger

	// Device identity sent with every request
	androidID     string
	deviceCountry string
	language      string
	sdkVersion    int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the auth host.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for auth calls. A negative count
// disables retries.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithEncrypter sets the Encrypter used by MasterLogin.
// Default: an Encrypter for GoogleDefaultKey
func WithEncrypter(enc *Encrypter) Option {
	return func(c *clientConfig) {
		c.encrypter = enc
	}
}

// WithLogger sets the logger for request diagnostics. Credentials and
// tokens are never logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAndroidID sets the 16 hex digit device ID.
// Default: a random ID generated by New
func WithAndroidID(id string) Option {
	return func(c *clientConfig) {
		c.androidID = id
	}
}

// WithDeviceCountry sets the device and operator country code.
// Default: "us"
func WithDeviceCountry(country string) Option {
	return func(c *clientConfig) {
		c.deviceCountry = country
	}
}

// WithLanguage sets the device language.
// Default: "en"
func WithLanguage(lang string) Option {
	return func(c *clientConfig) {
		c.language = lang
	}
}

// WithSDKVersion sets the Android SDK level.
// Default: 17
func WithSDKVersion(version int) Option {
	return func(c *clientConfig) {
		c.sdkVersion = version
	}
}
