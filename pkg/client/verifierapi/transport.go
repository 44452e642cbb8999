/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/internal/logfields"
)

var logger = log.New("verifier-api-client")

const (
	// DefaultTimeout bounds every call unless overridden per request.
	DefaultTimeout = 30 * time.Second

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// ErrorKind sub-classifies a failed request.
type ErrorKind string

const (
	// NetworkError transport failed before a response was obtained.
	NetworkError ErrorKind = "NETWORK_ERROR"
	// TimeoutError the internal timeout or the caller's context fired first.
	TimeoutError ErrorKind = "TIMEOUT_ERROR"
	// HTTPError a response arrived with a non-2xx status.
	HTTPError ErrorKind = "HTTP_ERROR"
	// ValidationError the body failed JSON decoding or schema validation.
	ValidationError ErrorKind = "VALIDATION_ERROR"
)

// Metadata captures response facts independent of body validation outcome.
type Metadata struct {
	Status     int
	StatusText string
	Headers    http.Header
	URL        string
	OK         bool
}

// Response pairs decoded data with its metadata.
type Response[T any] struct {
	Data     T
	Metadata Metadata
}

// RequestError is the single error kind thrown by the transport. Metadata is
// nil when no response was obtained; Body carries the response text captured
// for diagnostics on HTTP errors.
type RequestError struct {
	Kind     ErrorKind
	Metadata *Metadata
	Body     string
	Err      error
}

func (e *RequestError) Error() string {
	if e.Metadata != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Metadata.Status, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// TransportConfig configures the transport explicitly. There are no hidden
// module-level defaults beyond the documented zero-value fallbacks.
type TransportConfig struct {
	// HTTPClient to execute requests with. Defaults to a plain &http.Client{}.
	HTTPClient *http.Client
	// Timeout bounds each call. Defaults to DefaultTimeout (30s).
	Timeout time.Duration
	// DefaultHeaders are sent on every request; per-call headers win on conflict.
	DefaultHeaders map[string]string
	// EnableLogging turns on per-request debug logging.
	EnableLogging bool
}

// Transport performs JSON HTTP calls with a typed failure taxonomy.
type Transport struct {
	httpClient     *http.Client
	timeout        time.Duration
	defaultHeaders map[string]string
	enableLogging  bool
}

func NewTransport(cfg *TransportConfig) *Transport {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Transport{
		httpClient:     httpClient,
		timeout:        timeout,
		defaultHeaders: cfg.DefaultHeaders,
		enableLogging:  cfg.EnableLogging,
	}
}

type callOpts struct {
	headers map[string]string
	timeout time.Duration
}

type CallOpt func(opts *callOpts)

// WithHeaders merges headers over the transport defaults for one call.
func WithHeaders(headers map[string]string) CallOpt {
	return func(opts *callOpts) {
		opts.headers = headers
	}
}

// WithTimeout overrides the transport timeout for one call.
func WithTimeout(timeout time.Duration) CallOpt {
	return func(opts *callOpts) {
		opts.timeout = timeout
	}
}

// Get performs a GET against baseURL+path and decodes the body into T.
func Get[T any](ctx context.Context, t *Transport, baseURL, path string,
	query url.Values, opts ...CallOpt) (*Response[T], error) {
	requestURL, err := joinURL(baseURL, path)
	if err != nil {
		return nil, &RequestError{Kind: ValidationError, Err: err}
	}

	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	return do[T](ctx, t, http.MethodGet, requestURL, nil, opts...)
}

// Post performs a POST against baseURL+path and decodes the body into T.
// String, byte and form payloads pass through unmodified; anything else is
// serialized to JSON.
func Post[T any](ctx context.Context, t *Transport, baseURL, path string,
	body interface{}, opts ...CallOpt) (*Response[T], error) {
	requestURL, err := joinURL(baseURL, path)
	if err != nil {
		return nil, &RequestError{Kind: ValidationError, Err: err}
	}

	return do[T](ctx, t, http.MethodPost, requestURL, body, opts...)
}

//nolint:funlen,gocyclo
func do[T any](ctx context.Context, t *Transport, method, requestURL string,
	body interface{}, opts ...CallOpt) (*Response[T], error) {
	options := &callOpts{timeout: t.timeout}

	for _, opt := range opts {
		opt(options)
	}

	// The caller's ctx and the internal timeout compose: first to fire wins.
	ctx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, &RequestError{Kind: ValidationError, Err: fmt.Errorf("encode request body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, &RequestError{Kind: NetworkError, Err: err}
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range t.defaultHeaders {
		req.Header.Set(k, v)
	}

	for k, v := range options.headers {
		req.Header.Set(k, v)
	}

	if t.enableLogging {
		logger.Debug("request begin", logfields.WithURL(requestURL))
	}

	resp, err := t.httpClient.Do(req) //nolint:bodyclose // closed below
	if err != nil {
		if ctx.Err() != nil {
			return nil, &RequestError{Kind: TimeoutError, Err: err}
		}

		return nil, &RequestError{Kind: NetworkError, Err: err}
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			logger.Warn("close response body", log.WithError(errClose))
		}
	}()

	metadata := &Metadata{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    resp.Header,
		URL:        resp.Request.URL.String(),
		OK:         resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices,
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Kind: NetworkError, Metadata: metadata, Err: fmt.Errorf("read response body: %w", err)}
	}

	if t.enableLogging {
		logger.Debug("request end", logfields.WithURL(requestURL), logfields.WithHTTPStatus(resp.StatusCode))
	}

	if !metadata.OK {
		return nil, &RequestError{
			Kind:     HTTPError,
			Metadata: metadata,
			Body:     string(bodyBytes),
			Err:      fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}

	var data T

	if len(bodyBytes) > 0 {
		if err = json.Unmarshal(bodyBytes, &data); err != nil {
			return nil, &RequestError{
				Kind:     ValidationError,
				Metadata: metadata,
				Body:     string(bodyBytes),
				Err:      fmt.Errorf("parse response JSON: %w", err),
			}
		}
	}

	if err = validateResponse(&data); err != nil {
		return nil, &RequestError{
			Kind:     ValidationError,
			Metadata: metadata,
			Body:     string(bodyBytes),
			Err:      fmt.Errorf("response schema validation: %w", err),
		}
	}

	return &Response[T]{Data: data, Metadata: *metadata}, nil
}

//nolint:gochecknoglobals
var validate = validator.New()

type validatable interface {
	Validate() error
}

func validateResponse(data interface{}) error {
	if v, ok := data.(validatable); ok {
		return v.Validate()
	}

	if err := validate.Struct(data); err != nil {
		var invalidErr *validator.InvalidValidationError
		if errors.As(err, &invalidErr) {
			// non-struct payloads have no tags to check
			return nil
		}

		return err
	}

	return nil
}

func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), contentTypeForm, nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}

		return bytes.NewReader(encoded), contentTypeJSON, nil
	}
}

func joinURL(baseURL, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("base url %q has no scheme or host", baseURL)
	}

	return strings.TrimSuffix(parsed.String(), "/") + "/" + strings.TrimPrefix(path, "/"), nil
}
