package v1

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
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://atomlift.technuob.com"
	DefaultTimeout = 30 * time.Second

	RequestIDHeader = "X-Request-ID"
)

// TokenSource hands the transport the stored bearer token. The transport only ever reads it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// StaticToken is a fixed token, e.g. a service account's. Empty means logged out.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, bool) {
	return string(t), t != ""
}

type Response struct {
	StatusCode int
	Data       []byte
	RequestID  string
}

// Transport handles low-level HTTP and authentication
type Transport struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Log        zerolog.Logger

	newRequestID func() string
}

type Option func(*Transport)

func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.HTTPClient = c }
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.HTTPClient.Timeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) { t.Log = log }
}

// NewTransport creates a transport with base URL and a token source. tokens may be nil for a
// client that only calls the public login/OTP endpoints.
func NewTransport(baseURL string, tokens TokenSource, opts ...Option) *Transport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := &Transport{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Tokens:       tokens,
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		Log:          zerolog.Nop(),
		newRequestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// helper: build full URL with query params, skipping empty values
func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// token fails with AuthRequiredError when nothing is stored, so no request is ever sent unauthenticated.
func (t *Transport) token(ctx context.Context, operation string) (string, error) {
	if t.Tokens == nil {
		return "", &AuthRequiredError{Operation: operation}
	}
	token, ok := t.Tokens.Token(ctx)
	if !ok || token == "" {
		return "", &AuthRequiredError{Operation: operation}
	}
	return token, nil
}

// Get sends an authenticated GET request
func (t *Transport) Get(ctx context.Context, path string, query map[string]string, fallback string) (*Response, error) {
	return t.send(ctx, http.MethodGet, path, query, nil, true, fallback)
}

// Post sends an authenticated POST request with JSON body
func (t *Transport) Post(ctx context.Context, path string, data any, fallback string) (*Response, error) {
	return t.send(ctx, http.MethodPost, path, nil, data, true, fallback)
}

// Put sends an authenticated PUT request with JSON body
func (t *Transport) Put(ctx context.Context, path string, data any, fallback string) (*Response, error) {
	return t.send(ctx, http.MethodPut, path, nil, data, true, fallback)
}

// Delete sends an authenticated DELETE request
func (t *Transport) Delete(ctx context.Context, path string, fallback string) (*Response, error) {
	return t.send(ctx, http.MethodDelete, path, nil, nil, true, fallback)
}

// PostPublic sends a POST without the Authorization header (login and OTP endpoints).
func (t *Transport) PostPublic(ctx context.Context, path string, data any, fallback string) (*Response, error) {
	return t.send(ctx, http.MethodPost, path, nil, data, false, fallback)
}

func (t *Transport) send(ctx context.Context, method, path string, query map[string]string, data any, auth bool, fallback string) (*Response, error) {
	token := ""
	if auth {
		var err error
		if token, err = t.token(ctx, fallback); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.buildURL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	return t.do(req, path, fallback)
}

// Upload is one file part of a multipart request.
type Upload struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// PostMultipart sends an authenticated multipart/form-data POST. Empty fields are left out.
// Content-Type comes from the multipart writer so the boundary is always right.
func (t *Transport) PostMultipart(ctx context.Context, path string, fields map[string]string, files []Upload, fallback string) (*Response, error) {
	token, err := t.token(ctx, fallback)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, f := range files {
		if f.Content == nil {
			continue
		}
		part, err := writer.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.FieldName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("copy form file %s: %w", f.FieldName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.buildURL(path, nil), &buf)
	if err != nil {
		return nil, fmt.Errorf("build POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+token)

	return t.do(req, path, fallback)
}

func (t *Transport) do(req *http.Request, path, fallback string) (*Response, error) {
	requestID := t.newRequestID()
	req.Header.Set(RequestIDHeader, requestID)

	log := t.Log.With().Str("endpoint", path).Str("method", req.Method).Str("request_id", requestID).Logger()

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("request failed")
		return nil, &APIError{Message: errorMessage(nil, fallback), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("read response body")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, fallback)}
		log.Info().Int("status", resp.StatusCode).Str("error", apiErr.Message).Msg("backend returned an error")
		return nil, apiErr
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(data)).Msg("request completed")
	return &Response{StatusCode: resp.StatusCode, Data: data, RequestID: requestID}, nil
}

// decode unmarshals a successful body. A malformed body becomes an APIError carrying fallback.
func decode[T any](resp *Response, fallback string) (T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
	}
	return out, nil
}
