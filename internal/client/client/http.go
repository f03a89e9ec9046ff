package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

const (
	loginPath   = "/users/login/"
	refreshPath = "/users/token/refresh/"

	requestIDHeader = "X-Request-ID"
)

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenStore
	log     logging.Logger
	newID   func() string

	// refreshMu serializes token refreshes so concurrent 401s trigger one.
	refreshMu sync.Mutex
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithTracing wraps the transport so every call becomes an OpenTelemetry
// client span.
func WithTracing() Option {
	return func(c *HTTPClient) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = otelhttp.NewTransport(base)
		c.http = &hc
	}
}

func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		log:     logging.Nop(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenStore attaches the session after construction; the session itself
// needs a client to log in, so the two are wired in two steps.
func (c *HTTPClient) SetTokenStore(ts TokenStore) {
	c.tokens = ts
}

type encodedBody struct {
	data        []byte
	contentType string
}

func encodeBody(body any) (*encodedBody, error) {
	if body == nil {
		return nil, nil
	}

	if mp, ok := body.(*Multipart); ok {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range mp.Fields {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, err
			}
		}
		for _, f := range mp.Files {
			part, err := w.CreateFormFile(f.Field, f.FileName)
			if err != nil {
				return nil, err
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, fmt.Errorf("read %s: %w", f.FileName, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return &encodedBody{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &encodedBody{data: data, contentType: "application/json"}, nil
}

// Do sends req and decodes a successful response body into out (when out is
// non-nil and the body is non-empty). A 401 on an authenticated call
// triggers one token refresh and one replay.
func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	body, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	var access string
	if !req.Anonymous && c.tokens != nil {
		access = c.tokens.Tokens().Access
	}

	resp, err := c.send(ctx, req, body, access)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous && c.tokens != nil {
		drain(resp)
		fresh, err := c.refreshAfter(ctx, access)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, req, body, fresh)
		if err != nil {
			return err
		}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, resp.Body)
	}
	return decode(resp.Body, out)
}

func (c *HTTPClient) send(ctx context.Context, req Request, body *encodedBody, access string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body.data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", body.contentType)
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	requestID := c.newID()
	httpReq.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		cancel()
		c.log.Warn(ctx, "request failed", "method", method, "path", req.Path, "request_id", requestID,
			"duration", elapsed, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request finished", "method", method, "path", req.Path, "request_id", requestID,
		"status", resp.StatusCode, "duration", elapsed)

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// refreshAfter rotates the tokens unless another call already did so since
// staleAccess was read. It returns the access token to retry with.
func (c *HTTPClient) refreshAfter(ctx context.Context, staleAccess string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.tokens.Tokens()
	if current.Access != "" && current.Access != staleAccess {
		return current.Access, nil
	}
	if current.Refresh == "" {
		c.tokens.Expire(ctx)
		return "", ErrUnauthorized
	}

	pair, err := c.RefreshTokens(ctx, current.Refresh)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.log.Info(ctx, "refresh token rejected, ending session", "status", apiErr.Status)
			c.tokens.Expire(ctx)
			return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return "", err
	}

	if err := c.tokens.ReplaceTokens(ctx, pair); err != nil {
		return "", err
	}
	return pair.Access, nil
}

func (c *HTTPClient) Login(ctx context.Context, phone, password string) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      loginPath,
		Body:      map[string]string{"phone_number": phone, "password": password},
		Anonymous: true,
	}, &pair)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return models.TokenPair{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return models.TokenPair{}, err
	}
	if pair.Access == "" {
		return models.TokenPair{}, errors.New("login response has no access token")
	}
	return pair, nil
}

// RefreshTokens exchanges a refresh token for a new pair. When the backend
// does not rotate the refresh token, the old one is kept.
func (c *HTTPClient) RefreshTokens(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      refreshPath,
		Body:      map[string]string{"refresh": refresh},
		Anonymous: true,
	}, &pair)
	if err != nil {
		return models.TokenPair{}, err
	}
	if pair.Access == "" {
		return models.TokenPair{}, errors.New("refresh response has no access token")
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return pair, nil
}

func decode(body io.Reader, out any) error {
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// cancelOnClose releases the per-request timeout once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
