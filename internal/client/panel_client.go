package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/alsxui/provisioning-gateway/internal/config"
	"github.com/alsxui/provisioning-gateway/internal/errs"
	"github.com/alsxui/provisioning-gateway/internal/metrics"
)

// PanelClient calls the 3x-ui panel management API. Authenticated calls go
// through a PanelSession so one gateway invocation logs in at most once.
type PanelClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	cache *sessionCache // nil when session caching is disabled
}

// PanelSession is one authenticated conversation with the panel, bound to
// the cookie of a single login. Callers open one session per unit of work
// and route every panel call through it.
type PanelSession interface {
	GetInbound(ctx context.Context, inboundID int) (*Inbound, error)
	AddClient(ctx context.Context, inboundID int, record PanelClientRecord) (json.RawMessage, error)
	UpdateClient(ctx context.Context, inboundID int, record PanelClientRecord) error
}

// NewPanelClient creates a new panel API client.
func NewPanelClient(cfg config.PanelConfig) *PanelClient {
	c := &PanelClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if cfg.SessionTTL > 0 {
		c.cache = newSessionCache(cfg.SessionTTL)
	}
	return c
}

// Login authenticates against the panel and returns the session cookie
// truncated to its name=value pair (cookie attributes discarded).
func (c *PanelClient) Login(ctx context.Context) (string, error) {
	body, err := json.Marshal(LoginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PanelRequestsTotal.WithLabelValues("login", "error").Inc()
		return "", fmt.Errorf("login: %v: %w", err, errs.ErrPanel)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		metrics.PanelRequestsTotal.WithLabelValues("login", "failure").Inc()
		return "", fmt.Errorf("login failed: %d %s: %w", resp.StatusCode, string(respBody), errs.ErrPanel)
	}

	cookie := strings.SplitN(resp.Header.Get("Set-Cookie"), ";", 2)[0]
	if cookie == "" {
		metrics.PanelRequestsTotal.WithLabelValues("login", "failure").Inc()
		return "", fmt.Errorf("login response carries no session cookie: %w", errs.ErrPanel)
	}

	metrics.PanelRequestsTotal.WithLabelValues("login", "success").Inc()
	return cookie, nil
}

// Ping verifies that the panel is healthy: a login round trip returned 2xx.
func (c *PanelClient) Ping(ctx context.Context) error {
	_, err := c.Login(ctx)
	return err
}

// NewSession establishes the session cookie for one invocation. The cookie
// comes from the cache when caching is enabled and the cached entry is still
// fresh; otherwise it comes from one login.
func (c *PanelClient) NewSession(ctx context.Context) (PanelSession, error) {
	cookie, cached, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	return &panelSession{client: c, cookie: cookie, cached: cached}, nil
}

// panelSession carries the cookie for one invocation. Not safe for
// concurrent use; each invocation gets its own.
type panelSession struct {
	client *PanelClient
	cookie string
	cached bool
}

// GetInbound fetches an inbound and its embedded client list.
func (s *panelSession) GetInbound(ctx context.Context, inboundID int) (*Inbound, error) {
	status, body, err := s.do(ctx, "get_inbound", http.MethodGet, fmt.Sprintf("/panel/api/inbounds/get/%d", inboundID), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get inbound %d failed: %d %s: %w", inboundID, status, string(body), errs.ErrPanel)
	}

	var result struct {
		Success bool    `json:"success"`
		Msg     string  `json:"msg"`
		Obj     Inbound `json:"obj"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode inbound %d: %v: %w", inboundID, err, errs.ErrPanel)
	}
	return &result.Obj, nil
}

// AddClient creates one client record on the target inbound and returns the
// panel's raw creation response.
func (s *panelSession) AddClient(ctx context.Context, inboundID int, record PanelClientRecord) (json.RawMessage, error) {
	payload, err := newClientPayload(inboundID, record)
	if err != nil {
		return nil, fmt.Errorf("marshal client settings: %w", err)
	}

	status, body, err := s.do(ctx, "add_client", http.MethodPost, "/panel/api/inbounds/addClient", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("addClient failed: %d %s: %w", status, string(body), errs.ErrPanel)
	}

	log.Printf("[PanelClient] client added on inbound %d", inboundID)
	return rawJSON(body), nil
}

// UpdateClient replaces one client's settings on the inbound. Used for the
// subscription-id backfill.
func (s *panelSession) UpdateClient(ctx context.Context, inboundID int, record PanelClientRecord) error {
	payload, err := newClientPayload(inboundID, record)
	if err != nil {
		return fmt.Errorf("marshal client settings: %w", err)
	}

	status, body, err := s.do(ctx, "update_client", http.MethodPost, "/panel/api/inbounds/updateClient/", payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("updateClient failed: %d %s: %w", status, string(body), errs.ErrPanel)
	}

	log.Printf("[PanelClient] client updated on inbound %d", inboundID)
	return nil
}

// do performs one authenticated panel call with the session's cookie. A 401
// on a cached cookie invalidates the cache, refreshes the session with one
// login, and retries exactly once; later calls on the same session reuse the
// refreshed cookie.
func (s *panelSession) do(ctx context.Context, call, method, path string, payload any) (int, []byte, error) {
	status, body, err := s.client.doOnce(ctx, call, method, path, payload, s.cookie)
	if err == nil && status == http.StatusUnauthorized && s.cached {
		s.client.cache.invalidate()
		cookie, _, err := s.client.session(ctx)
		if err != nil {
			return 0, nil, err
		}
		s.cookie, s.cached = cookie, false
		return s.client.doOnce(ctx, call, method, path, payload, s.cookie)
	}
	return status, body, err
}

func (c *PanelClient) doOnce(ctx context.Context, call, method, path string, payload any, cookie string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cookie", cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PanelRequestsTotal.WithLabelValues(call, "error").Inc()
		return 0, nil, fmt.Errorf("%s: %v: %w", call, err, errs.ErrPanel)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.PanelRequestsTotal.WithLabelValues(call, "error").Inc()
		return 0, nil, fmt.Errorf("%s: read response: %v: %w", call, err, errs.ErrPanel)
	}

	if resp.StatusCode == http.StatusOK {
		metrics.PanelRequestsTotal.WithLabelValues(call, "success").Inc()
	} else {
		metrics.PanelRequestsTotal.WithLabelValues(call, "failure").Inc()
	}
	return resp.StatusCode, respBody, nil
}

// session returns a valid session cookie and whether it came from the cache.
func (c *PanelClient) session(ctx context.Context) (string, bool, error) {
	if c.cache != nil {
		if cookie, ok := c.cache.get(); ok {
			return cookie, true, nil
		}
	}
	cookie, err := c.Login(ctx)
	if err != nil {
		return "", false, err
	}
	if c.cache != nil {
		c.cache.put(cookie)
	}
	return cookie, false, nil
}

// rawJSON passes a panel response body through when it is valid JSON and
// wraps it otherwise, so callers always receive a JSON value.
func rawJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": string(body)})
	return wrapped
}
