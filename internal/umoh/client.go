// Package umoh is a typed client for the Umoh admin HTTP API. All responses
// share an envelope with a status block and a results array; the client
// unwraps the envelope and transparently re-authenticates when the access
// token is missing or expired.
package umoh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Backend status codes that mean the access token must be (re)acquired.
const (
	codeAuthRequired = 4010
	codeAuthExpired  = 4013
)

// APIError is a non-success status block returned by the backend.
type APIError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("umoh: api error %d: %s (http %d)", e.Code, e.Message, e.HTTPStatus)
}

// IsAuthError reports whether err is an APIError carrying one of the
// authentication status codes.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.Code == codeAuthRequired || apiErr.Code == codeAuthExpired)
}

type envelope struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results json.RawMessage `json:"results"`
}

// TokenHolder stores the current access token. It is safe for concurrent
// use and injectable so tests can preload or observe the token.
type TokenHolder struct {
	mu    sync.Mutex
	token string
}

// Get returns the current token, which may be empty before first login.
func (h *TokenHolder) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

// Set replaces the current token.
func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

// Client talks to the Umoh backend on behalf of a fixed admin account.
type Client struct {
	baseURL string
	userID  string
	userPW  string
	tokens  *TokenHolder
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenHolder uses an externally owned token holder.
func WithTokenHolder(h *TokenHolder) Option {
	return func(c *Client) { c.tokens = h }
}

// NewClient returns a client for the backend at baseURL authenticating as
// the given account. No network call is made until the first request.
func NewClient(baseURL, userID, userPW string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		userID:  userID,
		userPW:  userPW,
		tokens:  &TokenHolder{},
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request and decodes the envelope. It returns the raw
// results array on success and an *APIError when the status code is not
// the backend's success code.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("umoh: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("umoh: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("umoh: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("umoh: %s %s: decode response (http %d): %w", method, path, resp.StatusCode, err)
	}
	if env.Status.Code != 200 {
		return nil, &APIError{
			Code:       env.Status.Code,
			Message:    env.Status.Message,
			HTTPStatus: resp.StatusCode,
		}
	}
	return env.Results, nil
}

// call runs do and, on an authentication error, logs in once and retries
// the request a single time.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	results, err := c.do(ctx, method, path, query, body)
	if err == nil || !IsAuthError(err) {
		return results, err
	}
	log.Printf("umoh: access token rejected, logging in again: %v", err)
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, query, body)
}

type loginResult struct {
	AccessToken string `json:"accessToken"`
}

// Login authenticates with the configured account and stores the returned
// access token for subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	results, err := c.do(ctx, http.MethodPost, "/v2/auth/login", nil, map[string]string{
		"email":    c.userID,
		"password": c.userPW,
	})
	if err != nil {
		return fmt.Errorf("umoh: login: %w", err)
	}
	var res loginResult
	if err := decodeFirst(results, &res); err != nil {
		return fmt.Errorf("umoh: login: %w", err)
	}
	c.tokens.Set(res.AccessToken)
	return nil
}

// decodeFirst unmarshals the first element of a results array into out.
func decodeFirst(results json.RawMessage, out interface{}) error {
	var items []json.RawMessage
	if err := json.Unmarshal(results, &items); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("empty results")
	}
	return json.Unmarshal(items[0], out)
}

// GetSpace fetches a space by handle.
func (c *Client) GetSpace(ctx context.Context, handle string) (*Space, error) {
	results, err := c.call(ctx, http.MethodGet, "/v2/space/"+url.PathEscape(handle), nil, nil)
	if err != nil {
		return nil, err
	}
	var space Space
	if err := decodeFirst(results, &space); err != nil {
		return nil, fmt.Errorf("umoh: get space %s: %w", handle, err)
	}
	return &space, nil
}

// UpdateSpace writes a space back by handle. Server-owned fields are
// stripped before sending.
func (c *Client) UpdateSpace(ctx context.Context, handle string, space Space) error {
	_, err := c.call(ctx, http.MethodPut, "/v2/space/"+url.PathEscape(handle), nil, space.UpdateParams())
	return err
}

type hostsResult struct {
	Hosts []Host `json:"hosts"`
}

// GetHosts fetches the host list of a space.
func (c *Client) GetHosts(ctx context.Context, handle string) ([]Host, error) {
	results, err := c.call(ctx, http.MethodGet, "/v2/space/"+url.PathEscape(handle)+"/host", nil, nil)
	if err != nil {
		return nil, err
	}
	var res hostsResult
	if err := decodeFirst(results, &res); err != nil {
		return nil, fmt.Errorf("umoh: get hosts of %s: %w", handle, err)
	}
	return res.Hosts, nil
}

// UpdateHosts replaces the host list of a space.
func (c *Client) UpdateHosts(ctx context.Context, handle string, hosts []Host) error {
	_, err := c.call(ctx, http.MethodPatch, "/v2/space/"+url.PathEscape(handle)+"/host", nil, map[string]interface{}{
		"hosts": hosts,
	})
	return err
}

// GetEngagingByReaction previews the reaction-driven engagement event of a
// space without sending anything.
func (c *Client) GetEngagingByReaction(ctx context.Context, handle string) (*EngagingEvent, error) {
	return c.getEngaging(ctx, handle, "reaction", nil)
}

// GetEngagingByScrap previews the scrap-driven engagement event of a space
// for profiles scrapped within the last day days (0 means today).
func (c *Client) GetEngagingByScrap(ctx context.Context, handle string, day int) (*EngagingEvent, error) {
	query := url.Values{"day": {fmt.Sprint(day)}}
	return c.getEngaging(ctx, handle, "scrap", query)
}

func (c *Client) getEngaging(ctx context.Context, handle, kind string, query url.Values) (*EngagingEvent, error) {
	results, err := c.call(ctx, http.MethodGet, "/v2/admin/space/"+url.PathEscape(handle)+"/popular/"+kind, query, nil)
	if err != nil {
		return nil, err
	}
	var event EngagingEvent
	if err := decodeFirst(results, &event); err != nil {
		return nil, fmt.Errorf("umoh: get %s engaging of %s: %w", kind, handle, err)
	}
	return &event, nil
}

// SendEngagingByReaction sends the reaction-driven engagement notification
// to the guests of a space.
func (c *Client) SendEngagingByReaction(ctx context.Context, handle string) error {
	_, err := c.call(ctx, http.MethodPost, "/v2/admin/space/"+url.PathEscape(handle)+"/popular/reaction", nil, nil)
	return err
}

// SendEngagingByScrap sends the scrap-driven engagement notification for
// the given day window.
func (c *Client) SendEngagingByScrap(ctx context.Context, handle string, day int) error {
	query := url.Values{"day": {fmt.Sprint(day)}}
	_, err := c.call(ctx, http.MethodPost, "/v2/admin/space/"+url.PathEscape(handle)+"/popular/scrap", query, nil)
	return err
}

// SignUpAndCreateProfile creates an account and a space profile in one
// call.
func (c *Client) SignUpAndCreateProfile(ctx context.Context, req SignUpAndCreateProfileRequest) error {
	_, err := c.call(ctx, http.MethodPost, "/v2/space/profile/signup", nil, req)
	return err
}

// SendDailyReport asks the backend to mail the daily report of a space to
// the given address.
func (c *Client) SendDailyReport(ctx context.Context, handle, email string) error {
	query := url.Values{"email": {email}}
	_, err := c.call(ctx, http.MethodGet, "/v2/admin/space/"+url.PathEscape(handle)+"/daily", query, nil)
	return err
}
