package auth

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxIdentityBody = 1 << 20

// ErrNoSession is returned when the identity service answers without a session.
var ErrNoSession = errors.New("identity service returned no session")

// IdentityUser is the subset of the identity-service user this application reads.
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentitySession is a successful password sign-in.
type IdentitySession struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	User         IdentityUser `json:"user"`
}

// IdentityProvider is the external system of record for credentials.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*IdentitySession, error)
	SignUp(ctx context.Context, email, password string) error
	GetUser(ctx context.Context, accessToken string) (*IdentityUser, error)
}

// APIError is a non-2xx answer from the identity service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity service %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("identity service %d: %s", e.StatusCode, e.Message)
}

// SupabaseConfig holds configuration for the Supabase auth client.
type SupabaseConfig struct {
	URL       string
	APIKey    string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// SupabaseClient talks to the Supabase GoTrue REST API.
type SupabaseClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ IdentityProvider = (*SupabaseClient)(nil)

// NewSupabaseClient creates a client for the project at cfg.URL.
func NewSupabaseClient(cfg SupabaseConfig) *SupabaseClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &SupabaseClient{
		baseURL: strings.TrimRight(cfg.URL, "/") + "/auth/v1",
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn verifies email and password and returns the identity session.
func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*IdentitySession, error) {
	body, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var sess IdentitySession
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if sess.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// SignUp creates an account. Email confirmation, if enabled, is handled by the service.
func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/signup", "", credentials{Email: email, Password: password})
	return err
}

// GetUser checks that accessToken still names a live identity session.
func (c *SupabaseClient) GetUser(ctx context.Context, accessToken string) (*IdentityUser, error) {
	body, err := c.do(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user IdentityUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &user, nil
}

func (c *SupabaseClient) do(ctx context.Context, method, path, bearer string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIdentityBody))
	if err != nil {
		return nil, fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// parseAPIError understands both GoTrue error shapes:
// {"error","error_description"} and {"code","error_code","msg"}.
func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Code = payload.ErrorCode
	if apiErr.Code == "" {
		apiErr.Code = payload.Error
	}
	for _, m := range []string{payload.ErrorDescription, payload.Msg, payload.Message} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	return apiErr
}
