package apiclient

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

	authgate "github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/credential"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second

	maxBodyBytes = 4 << 20
)

// Session is the slice of the engine the client depends on: credential
// lookup, forced expiry, optional silent refresh, and metrics.
type Session interface {
	Credentials() credential.Store
	ForceExpire(reason string)
	RefreshCredential(ctx context.Context) error
	Metric(id authgate.MetricID)
}

// Client defines a public type used by authgate APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	baseURL string
	session Session
	http    *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New builds an authenticated API client rooted at baseURL.
func New(baseURL string, session Session, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api base URL required")
	}
	if session == nil {
		return nil, errors.New("session required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	return c, nil
}

// Do performs one authenticated call and returns the decoded-ready response
// body. The contract, in order:
//
//  1. No stored credential: [authgate.ErrNotAuthenticated], zero network
//     calls, no state transition.
//  2. 2xx: body returned.
//  3. 401: one silent refresh-and-retry when the session supports it; a
//     rejection that survives the retry (or 403) forces expiry exactly once
//     and returns [authgate.ErrAuthenticationFailed].
//  4. Other 4xx: [*authgate.RequestError] with the server message. Not a
//     session concern; no transition.
//  5. Network failure or 5xx: [authgate.ErrTransport]. Retryable; no
//     transition.
func (c *Client) Do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	cred, ok := c.session.Credentials().Get()
	if !ok || cred.Token == "" {
		return nil, authgate.ErrNotAuthenticated
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	status, respBody, err := c.doOnce(ctx, method, path, body, cred.Token)
	if err != nil {
		c.session.Metric(authgate.MetricAPITransportError)
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if c.refreshAndRetry(ctx) {
			if fresh, ok := c.session.Credentials().Get(); ok {
				status, respBody, err = c.doOnce(ctx, method, path, body, fresh.Token)
				if err != nil {
					c.session.Metric(authgate.MetricAPITransportError)
					return nil, err
				}
			}
		}
	}

	switch {
	case status >= 200 && status < 300:
		return respBody, nil

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Exactly one forced expiry per failed call. The engine's state gate
		// absorbs concurrent calls racing here.
		c.session.ForceExpire(fmt.Sprintf("credential rejected with status %d", status))
		c.session.Metric(authgate.MetricAPIAuthFailure)
		return nil, fmt.Errorf("%w: status %d", authgate.ErrAuthenticationFailed, status)

	case status >= 500:
		c.session.Metric(authgate.MetricAPITransportError)
		return nil, fmt.Errorf("%w: status %d", authgate.ErrTransport, status)

	default:
		c.session.Metric(authgate.MetricAPIRequestError)
		return nil, &authgate.RequestError{
			Status:  status,
			Message: serverMessage(respBody),
		}
	}
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", authgate.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", authgate.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", authgate.ErrTransport, err)
	}

	return resp.StatusCode, data, nil
}

// refreshAndRetry attempts the single silent refresh. False means the caller
// proceeds to forced expiry: refresh disabled, no credential, or the issuer
// refused.
func (c *Client) refreshAndRetry(ctx context.Context) bool {
	err := c.session.RefreshCredential(ctx)
	return err == nil
}

func serverMessage(body []byte) string {
	var eb struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	switch {
	case eb.Message != "":
		return eb.Message
	case eb.Detail != "":
		return eb.Detail
	default:
		return eb.Error
	}
}
