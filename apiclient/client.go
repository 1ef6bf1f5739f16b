// Package apiclient is the HTTP request pipeline of the admin client:
// it attaches bearer credentials to outgoing requests, detects
// authorization failures, runs at most one token refresh at a time and
// replays the requests that waited on it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pawbook/go-admin-client/internal/config"
)

// Session is the slice of the session manager the pipeline needs.
type Session interface {
	IsAuthenticated() bool
	AccessToken() string
	Refresh(ctx context.Context) bool
}

// Navigator abstracts the route collaborator the pipeline redirects
// through when a session expires mid-flight.
type Navigator interface {
	CurrentRouteName() string
	Redirect(name string)
}

const loginRouteName = "login"

// Client issues JSON requests against the platform API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         zerolog.Logger
	appVersion     string
	appEnv         string
	refreshTimeout time.Duration

	session   Session
	navigator Navigator
	gate      refreshGate
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNavigator wires the navigation collaborator used for the
// session-expired redirect.
func WithNavigator(navigator Navigator) ClientOption {
	return func(c *Client) {
		c.navigator = navigator
	}
}

func New(cfg config.Config, logger zerolog.Logger, options ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.GetAPIBaseURL(), "/"),
		httpClient:     &http.Client{Timeout: cfg.GetRequestTimeout()},
		logger:         logger,
		appVersion:     cfg.GetAppVersion(),
		appEnv:         cfg.GetEnv(),
		refreshTimeout: cfg.GetRefreshTimeout(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SetSession wires the session manager. Wiring happens after construction
// because the auth API that the session manager calls is itself built on
// this client.
func (c *Client) SetSession(session Session) {
	c.session = session
}

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header

	rawBody     []byte
	contentType string
	noAuth      bool
	retried     bool
}

type Option func(*Request)

// WithQuery sets the query string parameters.
func WithQuery(query url.Values) Option {
	return func(r *Request) {
		r.Query = query
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// WithoutAuth sends the request outside the authorization pipeline: no
// bearer header and no refresh on 401. The login and refresh endpoints
// use this so a failing refresh can never recurse into itself.
func WithoutAuth() Option {
	return func(r *Request) {
		r.noAuth = true
	}
}

func (c *Client) Get(ctx context.Context, path string, out any, options ...Option) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path}, out, options...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, options ...Option) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out, options...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, options ...Option) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out, options...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, options ...Option) error {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out, options...)
}

func (c *Client) Delete(ctx context.Context, path string, out any, options ...Option) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out, options...)
}

// Upload posts a file as multipart form data. The encoded body is kept in
// memory so the request can be replayed after a token refresh.
func (c *Client) Upload(ctx context.Context, path, fieldName, fileName string, file io.Reader, out any, options ...Option) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return errors.Wrap(err, "[Client.Upload] create form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return errors.Wrap(err, "[Client.Upload] copy")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "[Client.Upload] close writer")
	}

	req := &Request{
		Method:      http.MethodPost,
		Path:        path,
		rawBody:     buf.Bytes(),
		contentType: writer.FormDataContentType(),
	}
	return c.Do(ctx, req, out, options...)
}

// Do sends the request and decodes a 2xx JSON body into out. Every
// failure surfaces as *APIError. A 401 on a request that has not been
// retried yet triggers the shared refresh and one replay with the new
// token; a second 401 passes through as a final authentication failure.
func (c *Client) Do(ctx context.Context, req *Request, out any, options ...Option) error {
	for _, opt := range options {
		opt(req)
	}

	bodyBytes := req.rawBody
	if req.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return errors.Wrap(err, "[Client.Do] marshal body")
		}
	}

	for {
		status, respBody, err := c.send(ctx, req, bodyBytes)
		if err != nil {
			if ctx.Err() != nil {
				return newCancelledError(ctx.Err())
			}
			c.logger.Error().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
			return newNetworkError(err)
		}

		if status < http.StatusBadRequest {
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return &APIError{
						Message: "Failed to decode response",
						Code:    CodeUnknownError,
						Status:  status,
						Details: err.Error(),
					}
				}
			}
			return nil
		}

		if status == http.StatusUnauthorized && !req.noAuth && !req.retried && c.session != nil {
			// Mark before the refresh settles so a second 401 on the
			// replayed request cannot loop.
			req.retried = true

			newToken, refreshErr := c.awaitRefresh(ctx)
			if refreshErr != nil {
				if ctx.Err() != nil {
					return newCancelledError(ctx.Err())
				}
				c.handleAuthenticationFailure()
				return newAuthenticationError(status)
			}

			c.logger.Debug().Str("path", req.Path).Msg("replaying request with refreshed token")
			if req.Header == nil {
				req.Header = http.Header{}
			}
			req.Header.Set("Authorization", "Bearer "+newToken)
			continue
		}

		if status == http.StatusUnauthorized && !req.noAuth {
			c.handleAuthenticationFailure()
			return newAuthenticationError(status)
		}

		return errorFromResponse(status, respBody)
	}
}

// send performs one HTTP round trip.
func (c *Client) send(ctx context.Context, req *Request, bodyBytes []byte) (int, []byte, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, req.Query.Encode())
	}

	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] build request")
	}

	contentType := req.contentType
	if contentType == "" {
		contentType = "application/json"
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", "req_"+uuid.NewString())
	httpReq.Header.Set("X-Client-Version", c.appVersion)
	httpReq.Header.Set("X-Client-Environment", c.appEnv)
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	if !req.noAuth && httpReq.Header.Get("Authorization") == "" &&
		c.session != nil && c.session.IsAuthenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	}

	c.logRequest(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] read body")
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("method", req.Method).
		Str("url", fullURL).
		Msg("api response")

	return resp.StatusCode, respBody, nil
}

func (c *Client) logRequest(req *http.Request) {
	event := c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", req.Header.Get("X-Request-ID"))
	// Never log the credential itself.
	if req.Header.Get("Authorization") != "" {
		event = event.Str("authorization", "Bearer ***")
	}
	event.Msg("api request")
}

// handleAuthenticationFailure performs the session-expired side effect:
// the session manager already cleared itself when the refresh failed, so
// only the redirect remains, skipped when already on the login view.
func (c *Client) handleAuthenticationFailure() {
	c.logger.Warn().Msg("authentication failed, redirecting to login")
	if c.navigator == nil {
		return
	}
	if c.navigator.CurrentRouteName() != loginRouteName {
		c.navigator.Redirect(loginRouteName)
	}
}
