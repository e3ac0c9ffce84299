package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/omnisum/internal/logging"
)

const (
	// DefaultBaseURL is where the backend listens when run locally.
	DefaultBaseURL = "http://127.0.0.1:5000"
	// DefaultTimeout bounds every request. Model inference is slow, and the
	// transport timeout is the only timeout a dispatch has.
	DefaultTimeout = 2 * time.Minute
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 256 << 20
)

// Client talks to one backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger logging.Logger
	newID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient uses a copy of hc as the underlying client. hc itself is
// never modified; the copy gets a cookie jar when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(c *Client) { c.newID = gen }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: logging.Discard,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// resolve turns a backend path, or an absolute URL returned by the backend,
// into a request URL.
func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	target := *c.base
	target.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(u.Path, "/")
	target.RawQuery = u.RawQuery
	return target.String(), nil
}

// formPart is one field of a multipart body. A part with a filename is sent
// as a file.
type formPart struct {
	field       string
	filename    string
	contentType string
	body        io.Reader
}

func filePart(field string, a *Artifact) formPart {
	return formPart{field: field, filename: a.Name, contentType: a.ContentType, body: a.Reader()}
}

func valuePart(field, value string) formPart {
	return formPart{field: field, body: strings.NewReader(value)}
}

func encodeMultipart(parts []formPart) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		var (
			dst io.Writer
			err error
		)
		if p.filename != "" {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
			ct := p.contentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
			dst, err = w.CreatePart(h)
		} else {
			dst, err = w.CreateFormField(p.field)
		}
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(dst, p.body); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) postMultipart(ctx context.Context, op, path string, parts ...formPart) ([]byte, error) {
	body, contentType, err := encodeMultipart(parts)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding form: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, contentType, body)
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, "application/json", bytes.NewReader(body))
}

// do sends one request and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, op, method, ref, contentType string, body io.Reader) ([]byte, error) {
	target, err := c.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newID()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	c.logger.Debug("backend request",
		logging.String("op", op),
		logging.String("method", method),
		logging.String("url", target),
		logging.String("request_id", reqID),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}
	c.logger.Debug("backend response",
		logging.String("op", op),
		logging.Int("status", resp.StatusCode),
		logging.Int("bytes", len(data)),
		logging.Float64("seconds", time.Since(start).Seconds()),
		logging.String("request_id", reqID),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(op, resp.StatusCode, data)
	}
	return data, nil
}

func decode(op string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Op: op, Cause: err}
	}
	return nil
}
