package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// ServerErrorMessage is the body reported for transport-level failures.
const ServerErrorMessage = "Server error"

const defaultServiceName = "HttpClient"

var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	ServiceName string
	Methods     []string
	Timeout     time.Duration
	Logger      Logger
}

// Client is a JSON client bound to a base URL and a fixed set of permitted verbs.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	client      *resty.Client
	baseURL     string
	serviceName string
	methods     []string
	log         Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("base url is empty")
	}

	name := strings.TrimSpace(opts.ServiceName)
	if name == "" {
		name = defaultServiceName
	}

	methods, err := normalizeMethods(opts.Methods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}

	return &Client{
		client:      newRestyBaseClient(opts.Timeout),
		baseURL:     base,
		serviceName: name,
		methods:     methods,
		log:         log,
	}, nil
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a resty.Client using go-json for encoding.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetJSONMarshaler(json.Marshal)
	c.SetJSONUnmarshaler(json.Unmarshal)
	return c
}

func normalizeMethods(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one http method is required")
	}
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !slices.Contains(supportedMethods, m) {
			return nil, fmt.Errorf("unsupported http method %q", m)
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ServiceName returns the name used in logs and configuration errors.
func (c *Client) ServiceName() string { return c.serviceName }

// Methods returns a copy of the permitted verbs.
func (c *Client) Methods() []string { return slices.Clone(c.methods) }

// VerifyMethod fails with *MethodNotAllowedError when method is not permitted.
func (c *Client) VerifyMethod(method string) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if slices.Contains(c.methods, method) {
		return nil
	}
	return &MethodNotAllowedError{
		Service: c.serviceName,
		Method:  method,
		Allowed: c.Methods(),
	}
}

// URL joins the base URL, the resource path and an optional raw query string.
func (c *Client) URL(path, search string) string {
	path = strings.TrimSpace(path)
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	full := c.baseURL + path

	search = strings.TrimLeft(strings.TrimSpace(search), "?&")
	if search == "" {
		return full
	}
	if strings.Contains(full, "?") {
		return full + "&" + search
	}
	return full + "?" + search
}

// Do dispatches req. The only error returned is a method-guard error, raised
// before any network activity. Network failures and non-JSON bodies are
// reported as a Response with status 500 and Failure set.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	if err := c.VerifyMethod(method); err != nil {
		return Response{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if req.Authorization != "" {
		r.SetHeader("Authorization", req.Authorization)
	}
	if req.Payload != nil {
		r.SetBody(req.Payload)
	}

	fullURL := c.URL(req.Path, req.Search)
	resp, err := r.Execute(method, fullURL)
	if err != nil {
		c.log.ErrorObj("http request failed", "http_error", map[string]any{
			"service": c.serviceName,
			"method":  method,
			"path":    req.Path,
			"error":   err.Error(),
		})
		return failure(), nil
	}

	body := resp.Body()
	if !json.Valid(body) {
		c.log.ErrorObj("http response is not json", "http_error", map[string]any{
			"service": c.serviceName,
			"method":  method,
			"path":    req.Path,
			"status":  resp.StatusCode(),
			"body":    bodySnippet(body),
		})
		return failure(), nil
	}

	c.log.DebugObj("http request completed", "http_exchange", map[string]any{
		"service": c.serviceName,
		"method":  method,
		"path":    req.Path,
		"status":  resp.StatusCode(),
		"took_ms": resp.Time().Milliseconds(),
	})
	return Response{Status: resp.StatusCode(), Body: body}, nil
}

// Get performs a read-only request; the method of req is ignored.
func (c *Client) Get(ctx context.Context, req Request) (Response, error) {
	req.Method = http.MethodGet
	return c.Do(ctx, req)
}

func failure() Response {
	return Response{Status: http.StatusInternalServerError, Failure: ServerErrorMessage}
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
