package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenStore        // used when the request context carries none
	Transport http.RoundTripper // tests inject one
	Logger    *zap.Logger
}

// Client talks JSON to the content API. It never retries.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	tokens  TokenStore
	log     *zap.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", opts.BaseURL, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		baseURL: strings.TrimRight(base, "/"),
		timeout: timeout,
		tokens:  opts.Tokens,
		log:     log,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Do sends one request. in is JSON-encoded when non-nil; out receives the
// decoded body when non-nil. A 401 clears the stored token before the
// *HTTPError is returned.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	fullURL := c.resolve(path)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("api: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	store := c.store(ctx)
	if store != nil {
		token, err := store.Token(ctx)
		if err != nil {
			c.log.Warn("reading auth token failed", zap.Error(err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Method: method, URL: fullURL, Timeout: c.timeout}
		}
		return &NetworkError{Method: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Method: method, URL: fullURL, Timeout: c.timeout}
		}
		return &NetworkError{Method: method, URL: fullURL, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && store != nil {
		if err := store.ClearToken(ctx); err != nil {
			c.log.Warn("clearing auth token failed", zap.Error(err))
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) store(ctx context.Context) TokenStore {
	if s := tokenStoreFrom(ctx); s != nil {
		return s
	}
	return c.tokens
}

func (c *Client) resolve(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
