package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), DefaultBaseURL)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.retry.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.retry.MaxRetries, DefaultMaxRetries)
	}
	if client.retry.BaseDelay != DefaultRetryDelay {
		t.Errorf("BaseDelay = %v, want %v", client.retry.BaseDelay, DefaultRetryDelay)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %s, want %s", client.userAgent, DefaultUserAgent)
	}
	if client.log == nil {
		t.Error("log is nil")
	}
}

func TestNewClient_CustomValues(t *testing.T) {
	customHTTPClient := &http.Client{Timeout: 60 * time.Second}

	client, err := NewClient(Config{
		BaseURL:    "https://custom.example.com/",
		HTTPClient: customHTTPClient,
		MaxRetries: 5,
		RetryDelay: 2 * time.Second,
		RetryOn:    []int{418},
		UserAgent:  "test-agent",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.BaseURL() != "https://custom.example.com" {
		t.Errorf("BaseURL() = %s, want trailing slash trimmed", client.BaseURL())
	}
	if client.httpClient != customHTTPClient {
		t.Error("httpClient not set correctly")
	}
	if client.retry.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", client.retry.MaxRetries)
	}
	if client.retry.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", client.retry.BaseDelay)
	}
	if !client.retry.RetryableOn(418) || client.retry.RetryableOn(503) {
		t.Error("RetryOn not applied")
	}
	if client.userAgent != "test-agent" {
		t.Errorf("userAgent = %s, want test-agent", client.userAgent)
	}
}

func TestNewClient_NegativeRetriesDisables(t *testing.T) {
	client, err := NewClient(Config{MaxRetries: -1})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", client.retry.MaxRetries)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, baseURL := range []string{"not a url", "/relative", "://missing"} {
		if _, err := NewClient(Config{BaseURL: baseURL}); err == nil {
			t.Errorf("NewClient(%q) expected error", baseURL)
		}
	}
}

func TestClient_PostForm_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != AuthPath {
			t.Errorf("path = %s, want %s", r.URL.Path, AuthPath)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s", got)
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %s, want %s", got, DefaultUserAgent)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("Email"); got != "user@example.com" {
			t.Errorf("Email = %s", got)
		}
		fmt.Fprint(w, "SID=abc\nToken=aas_et/xyz==\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	resp, err := client.PostForm(context.Background(), AuthPath, map[string][]string{"Email": {"user@example.com"}})
	if err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if resp.Get("Token") != "aas_et/xyz==" {
		t.Errorf("Token = %s, want aas_et/xyz==", resp.Get("Token"))
	}
	if resp.Get("SID") != "abc" {
		t.Errorf("SID = %s, want abc", resp.Get("SID"))
	}
}

func TestClient_PostForm_Retry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&attempts, 1)
		if count < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "Auth=ya29.token\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	resp, err := client.PostForm(context.Background(), AuthPath, nil)
	if err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if resp.Get("Auth") != "ya29.token" {
		t.Errorf("Auth = %s", resp.Get("Auth"))
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClient_PostForm_RetriesExhausted(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := NewClient(Config{
		BaseURL:    server.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})

	_, err := client.PostForm(context.Background(), AuthPath, nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("PostForm() error = %v, want ErrRateLimited", err)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClient_PostForm_NoRetryOnRejection(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Error=BadAuthentication\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})

	_, err := client.PostForm(context.Background(), AuthPath, nil)
	if !errors.Is(err, ErrBadAuthentication) {
		t.Fatalf("PostForm() error = %v, want ErrBadAuthentication", err)
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 403)", attempts)
	}
}

func TestClient_PostForm_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, _ := NewClient(Config{
		BaseURL:    baseURL,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})

	_, err := client.PostForm(context.Background(), AuthPath, nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("PostForm() error = %v, want *NetworkError", err)
	}
	if netErr.Attempt != 2 {
		t.Errorf("Attempt = %d, want 2", netErr.Attempt)
	}
	if netErr.URL != baseURL+AuthPath {
		t.Errorf("URL = %s, want %s", netErr.URL, baseURL+AuthPath)
	}
}

func TestClient_PostForm_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.PostForm(ctx, AuthPath, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PostForm() error = %v, want context.Canceled", err)
	}
}

func TestClient_PostForm_ErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		target     error
	}{
		{"bad authentication", 403, "Error=BadAuthentication\n", ErrBadAuthentication},
		{"needs browser", 403, "Error=NeedsBrowser\nUrl=https://accounts.google.com/x\n", ErrNeedsBrowser},
		{"captcha", 403, "Error=CaptchaRequired\nCaptchaToken=t\n", ErrCaptchaRequired},
		{"deleted", 403, "Error=AccountDeleted\n", ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client, _ := NewClient(Config{BaseURL: server.URL, MaxRetries: -1})

			_, err := client.PostForm(context.Background(), AuthPath, nil)
			if !errors.Is(err, tt.target) {
				t.Errorf("PostForm() error = %v, want %v", err, tt.target)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *APIError")
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestClient_MasterLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		want := map[string]string{
			"accountType":     AccountType,
			"Email":           "user@example.com",
			"EncryptedPasswd": "AFcb4KQ=",
			"service":         MasterService,
			"add_account":     "1",
			"androidId":       "0123456789abcdef",
			"sdk_version":     "17",
			"lang":            "en",
			"client_sig":      PlayServicesSig,
		}
		for key, value := range want {
			if got := r.PostForm.Get(key); got != value {
				t.Errorf("%s = %q, want %q", key, got, value)
			}
		}
		fmt.Fprint(w, "Token=aas_et/master\nfirstName=Ada\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	resp, err := client.MasterLogin(context.Background(), MasterLoginRequest{
		Email:             "user@example.com",
		EncryptedPassword: "AFcb4KQ=",
		Device: Device{
			AndroidID:  "0123456789abcdef",
			Language:   "en",
			SDKVersion: 17,
		},
	})
	if err != nil {
		t.Fatalf("MasterLogin() error = %v", err)
	}
	if resp.Get("Token") != "aas_et/master" {
		t.Errorf("Token = %s", resp.Get("Token"))
	}
}

func TestClient_MasterLogin_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "SID=abc\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	_, err := client.MasterLogin(context.Background(), MasterLoginRequest{Email: "user@example.com"})
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("MasterLogin() error = %v, want ErrMissingToken", err)
	}
}

func TestClient_ExchangeToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("EncryptedPasswd"); got != "aas_et/master" {
			t.Errorf("EncryptedPasswd = %s, want master token", got)
		}
		if got := r.PostForm.Get("service"); got != "oauth2:https://www.googleapis.com/auth/drive" {
			t.Errorf("service = %s", got)
		}
		if got := r.PostForm.Get("app"); got != "com.google.android.apps.docs" {
			t.Errorf("app = %s", got)
		}
		fmt.Fprint(w, "Auth=ya29.service\nExpiry=1700000000\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	resp, err := client.ExchangeToken(context.Background(), OAuthRequest{
		Email:       "user@example.com",
		MasterToken: "aas_et/master",
		Service:     "oauth2:https://www.googleapis.com/auth/drive",
		App:         "com.google.android.apps.docs",
		ClientSig:   PlayServicesSig,
	})
	if err != nil {
		t.Fatalf("ExchangeToken() error = %v", err)
	}
	if resp.Get("Auth") != "ya29.service" {
		t.Errorf("Auth = %s", resp.Get("Auth"))
	}
	if resp.Get("Expiry") != "1700000000" {
		t.Errorf("Expiry = %s", resp.Get("Expiry"))
	}
}

func TestClient_ExchangeToken_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "issueAdvice=auto\n")
	}))
	defer server.Close()

	client, _ := NewClient(Config{BaseURL: server.URL})

	_, err := client.ExchangeToken(context.Background(), OAuthRequest{Email: "user@example.com"})
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("ExchangeToken() error = %v, want ErrMissingToken", err)
	}
}

func TestParseResponse(t *testing.T) {
	body := []byte("SID=abc\r\nToken=aas_et/AKpp==\n\nmalformed\n=noKey\nservices=mail,talk\n")
	resp := ParseResponse(body)

	tests := map[string]string{
		"SID":      "abc",
		"Token":    "aas_et/AKpp==",
		"services": "mail,talk",
	}
	for key, want := range tests {
		if got := resp.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
	if len(resp) != len(tests) {
		t.Errorf("len = %d, want %d", len(resp), len(tests))
	}
	if resp.Get("missing") != "" {
		t.Error("Get() of absent key should be empty")
	}
}

func ExampleParseResponse() {
	resp := ParseResponse([]byte("Auth=ya29.token\nExpiry=1700000000\n"))
	fmt.Println(resp.Get("Auth"))
	fmt.Println(resp.Get("Expiry"))
	// Output:
	// ya29.token
	// 1700000000
}
