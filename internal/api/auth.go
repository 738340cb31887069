package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	// AccountType is sent with every auth request.
	AccountType = "HOSTED_OR_GOOGLE"
	// MasterService is the service requested by a master login.
	MasterService = "ac2dm"
	// PlayServicesSig is the SHA-1 of the Play Services signing certificate.
	PlayServicesSig = "38918a453d07199354f8b19af05ec6562ced5788"
)

// Device describes the Android device the requests claim to come from.
type Device struct {
	AndroidID       string
	DeviceCountry   string
	OperatorCountry string
	Language        string
	SDKVersion      int
}

func (d Device) apply(form url.Values) {
	form.Set("androidId", d.AndroidID)
	form.Set("device_country", d.DeviceCountry)
	form.Set("operatorCountry", d.OperatorCountry)
	form.Set("lang", d.Language)
	form.Set("sdk_version", strconv.Itoa(d.SDKVersion))
}

// MasterLoginRequest is a password login that yields a master token.
type MasterLoginRequest struct {
	Email string
	// EncryptedPassword is the URL-safe encrypted credential.
	EncryptedPassword string
	Device            Device
}

// Form renders the request as form values.
func (r MasterLoginRequest) Form() url.Values {
	form := url.Values{}
	form.Set("accountType", AccountType)
	form.Set("Email", r.Email)
	form.Set("has_permission", "1")
	form.Set("add_account", "1")
	form.Set("EncryptedPasswd", r.EncryptedPassword)
	form.Set("service", MasterService)
	form.Set("source", "android")
	form.Set("client_sig", PlayServicesSig)
	form.Set("callerSig", PlayServicesSig)
	form.Set("droidguard_results", "dummy123")
	r.Device.apply(form)
	return form
}

// OAuthRequest exchanges a master token for a service token.
type OAuthRequest struct {
	Email       string
	MasterToken string
	// Service is the OAuth scope string, e.g. "oauth2:https://www.googleapis.com/auth/userinfo.email".
	Service string
	// App is the requesting application's package name.
	App string
	// ClientSig is the SHA-1 of the app's signing certificate.
	ClientSig string
	Device    Device
}

// Form renders the request as form values.
func (r OAuthRequest) Form() url.Values {
	form := url.Values{}
	form.Set("accountType", AccountType)
	form.Set("Email", r.Email)
	form.Set("has_permission", "1")
	form.Set("EncryptedPasswd", r.MasterToken)
	form.Set("service", r.Service)
	form.Set("source", "android")
	form.Set("app", r.App)
	form.Set("client_sig", r.ClientSig)
	r.Device.apply(form)
	return form
}

// MasterLogin posts a master login and requires a Token field in the reply.
func (c *Client) MasterLogin(ctx context.Context, req MasterLoginRequest) (Response, error) {
	resp, err := c.PostForm(ctx, AuthPath, req.Form())
	if err != nil {
		return nil, err
	}
	if resp.Get("Token") == "" {
		return nil, fmt.Errorf("master login: %w", ErrMissingToken)
	}
	return resp, nil
}

// ExchangeToken posts an OAuth exchange and requires an Auth field in the
// reply.
func (c *Client) ExchangeToken(ctx context.Context, req OAuthRequest) (Response, error) {
	resp, err := c.PostForm(ctx, AuthPath, req.Form())
	if err != nil {
		return nil, err
	}
	if resp.Get("Auth") == "" {
		return nil, fmt.Errorf("token exchange: %w", ErrMissingToken)
	}
	return resp, nil
}
