package issuer

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
)

const defaultTimeout = 15 * time.Second

// maxBodyBytes bounds how much of an issuer response is read. Identity
// payloads are small; anything larger is malformed.
const maxBodyBytes = 1 << 20

var (
	// ErrUnreachable is returned when the issuer could not be reached or
	// answered with a server-side failure (5xx).
	ErrUnreachable = errors.New("issuer unreachable")
	// ErrMalformed is returned when an issuer response could not be decoded
	// into the expected payload, or decoded into an incomplete one.
	ErrMalformed = errors.New("malformed issuer response")
)

// StatusError carries a non-2xx issuer status together with the
// server-provided message, when one was present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("issuer returned status %d", e.Status)
	}
	return fmt.Sprintf("issuer returned status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is a [StatusError] with the given status code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// Config locates the issuer endpoints.
type Config struct {
	BaseURL      string
	LoginPath    string
	RegisterPath string
	LogoutPath   string
	ProfilePath  string
	// RefreshPath is empty when the issuer exposes no refresh endpoint.
	RefreshPath string
	Timeout     time.Duration
}

// Client defines a public type used by authgate APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds an issuer client. When httpClient is nil a default client
// with the configured timeout is used.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("issuer base URL required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
	}, nil
}

// User is the identity payload as the issuer serializes it.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Validate rejects incomplete identity payloads. A user record without an ID
// or email cannot drive a session.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: user payload missing id", ErrMalformed)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: user payload missing email", ErrMalformed)
	}
	return nil
}

// AuthResponse is the payload returned by login, register, and refresh.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// errorBody covers the message shapes issuer error responses use.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authCall(ctx, c.cfg.LoginPath, creds, "")
}

// Register creates an account and returns a token and identity, mirroring
// login.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	return c.authCall(ctx, c.cfg.RegisterPath, reg, "")
}

// Refresh exchanges the current token for a fresh one. Returns ErrUnreachable
// wrapped when no refresh endpoint is configured; callers gate on
// configuration before calling.
func (c *Client) Refresh(ctx context.Context, token string) (*AuthResponse, error) {
	if c.cfg.RefreshPath == "" {
		return nil, errors.New("refresh endpoint not configured")
	}
	return c.authCall(ctx, c.cfg.RefreshPath, struct{}{}, token)
}

// Logout notifies the issuer that the session ended. Best-effort by contract:
// the caller has already cleared local state before this runs.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodPost, c.cfg.LogoutPath, nil, token)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return c.statusError(resp)
}

// Profile fetches the identity behind token.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.cfg.ProfilePath, nil, token)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var user User
	if err := decodeBody(resp, &user); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) authCall(ctx context.Context, path string, payload any, token string) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, body, token)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeBody(resp, &auth); err != nil {
		return nil, err
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("%w: auth payload missing token", ErrMalformed)
	}
	if err := auth.User.Validate(); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return resp, nil
}

// checkStatus maps non-2xx responses: 5xx is a transport-class failure, 4xx
// carries the server message as a StatusError.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}
	return c.statusError(resp)
}

func (c *Client) statusError(resp *http.Response) error {
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = json.Unmarshal(data, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Detail
	}
	if msg == "" {
		msg = eb.Error
	}
	return &StatusError{
		Status:  resp.StatusCode,
		Message: msg,
	}
}

func decodeBody(resp *http.Response, v any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
}
