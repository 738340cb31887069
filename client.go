package gpsauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vaultsandbox/gpsauth-go/internal/api"
)

// MasterToken is the long-lived token returned by a password login.
type MasterToken struct {
	Email string
	// Token is the aas_et/ master token.
	Token     string
	Services  []string
	FirstName string
	LastName  string
}

// OAuthToken is a service-scoped access token.
type OAuthToken struct {
	Token string
	// Expiry is zero when the server did not send one.
	Expiry time.Time
}

// Expired reports whether the token has an expiry in the past.
func (t *OAuthToken) Expired() bool {
	return !t.Expiry.IsZero() && time.Now().After(t.Expiry)
}

// ServiceRequest names the service and app a token is exchanged for.
type ServiceRequest struct {
	// Service is the scope, e.g. "oauth2:https://www.googleapis.com/auth/drive".
	Service string
	// App is the package name of the requesting app.
	App string
	// ClientSig is the SHA-1 of the app's signing certificate.
	ClientSig string
}

// Client performs logins against the Android auth endpoint.
type Client struct {
	apiClient *api.Client
	encrypter *Encrypter
	device    api.Device
	log       logrus.FieldLogger
}

// New creates a new Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		deviceCountry: defaultDeviceCountry,
		language:      defaultLanguage,
		sdkVersion:    defaultSDKVersion,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		cfg.logger = discard
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    cfg.baseURL,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.retries,
		RetryOn:    cfg.retryOn,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	enc := cfg.encrypter
	if enc == nil {
		if enc, err = defaultEncrypter(); err != nil {
			return nil, err
		}
	}

	androidID := cfg.androidID
	if androidID == "" {
		if androidID, err = newAndroidID(); err != nil {
			return nil, err
		}
	}

	return &Client{
		apiClient: apiClient,
		encrypter: enc,
		device: api.Device{
			AndroidID:       androidID,
			DeviceCountry:   cfg.deviceCountry,
			OperatorCountry: cfg.deviceCountry,
			Language:        cfg.language,
			SDKVersion:      cfg.sdkVersion,
		},
		log: cfg.logger,
	}, nil
}

// AndroidID returns the device ID sent with requests.
func (c *Client) AndroidID() string {
	return c.device.AndroidID
}

// Encrypter returns the Encrypter used by MasterLogin.
func (c *Client) Encrypter() *Encrypter {
	return c.encrypter
}

// MasterLogin signs in with email and password and returns a master token.
func (c *Client) MasterLogin(ctx context.Context, email, password string) (*MasterToken, error) {
	encrypted, err := c.encrypter.EncryptPassword(email, password)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"key_version": c.encrypter.KeyVersion().Name,
		"signature":   c.encrypter.Signature().String(),
	}).Debug("master login")

	resp, err := c.apiClient.MasterLogin(ctx, api.MasterLoginRequest{
		Email:             email,
		EncryptedPassword: encrypted,
		Device:            c.device,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	token := &MasterToken{
		Email:     email,
		Token:     resp.Get("Token"),
		FirstName: resp.Get("firstName"),
		LastName:  resp.Get("lastName"),
	}
	if services := resp.Get("services"); services != "" {
		token.Services = strings.Split(services, ",")
	}
	if respEmail := resp.Get("Email"); respEmail != "" {
		token.Email = respEmail
	}
	return token, nil
}

// ExchangeToken trades a master token for a token scoped to req.Service.
func (c *Client) ExchangeToken(ctx context.Context, email, masterToken string, req ServiceRequest) (*OAuthToken, error) {
	if masterToken == "" {
		return nil, fmt.Errorf("%w: empty master token", ErrInvalidCredential)
	}

	c.log.WithFields(logrus.Fields{
		"service": req.Service,
		"app":     req.App,
	}).Debug("token exchange")

	resp, err := c.apiClient.ExchangeToken(ctx, api.OAuthRequest{
		Email:       email,
		MasterToken: masterToken,
		Service:     req.Service,
		App:         req.App,
		ClientSig:   req.ClientSig,
		Device:      c.device,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	token := &OAuthToken{Token: resp.Get("Auth")}
	if raw := resp.Get("Expiry"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.log.WithField("expiry", raw).Debug("ignoring unparseable expiry")
		} else {
			token.Expiry = time.Unix(secs, 0)
		}
	}
	return token, nil
}

func newAndroidID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate android id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
