package platform

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/webskin/iiot-go-cli/internal/casing"
	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

const apiProjects = "/api/v1/projects/"

// Service names, used as the first path segment below the project
const (
	serviceAssets      = "assets"
	serviceEvents      = "events"
	serviceFiles       = "files"
	serviceCoordinator = "coordinator"
	serviceMetrics     = "metrics"
)

// Client represents a platform HTTP client
type Client struct {
	http   *resty.Client
	config *Config
	logger hclog.Logger
}

// APIError represents a structured API error with status code and message
// This allows callers to inspect the status code without parsing error strings
type APIError struct {
	StatusCode int    // HTTP status code
	Message    string // Error message from the API
	RawBody    string // Raw response body for debugging
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// NewClient creates a new platform client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Copy so later changes to the caller's config do not leak in
	configCopy := *config

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(configCopy.BaseURL, "/")).
		SetTimeout(time.Duration(configCopy.Timeout) * time.Second).
		SetAuthToken(configCopy.Token).
		SetHeader("Accept", "application/json")

	if configCopy.InsecureSkipVerify {
		httpClient.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	c := &Client{
		http:   httpClient,
		config: &configCopy,
		logger: hclog.NewNullLogger(),
	}

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logExchange(resp)
		return nil
	})

	return c, nil
}

// SetLogger sets the logger used for request/response tracing
func (c *Client) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c.logger = logger
}

// NewLogger returns the logger the CLI uses: debug level on stderr when
// verbose, silent otherwise
func NewLogger(verbose bool) hclog.Logger {
	if !verbose {
		return hclog.NewNullLogger()
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "iiot",
		Level: hclog.Debug,
	})
}

// RedactedValue replaces secrets in logs and verbose output
const RedactedValue = "[REDACTED]"

// sensitiveHeaders are redacted when logging
var sensitiveHeaders = map[string]bool{
	"authorization":    true,
	"cookie":           true,
	"set-cookie":       true,
	"x-api-key":        true,
	"www-authenticate": true,
}

// logExchange logs one request/response pair with sensitive headers redacted
func (c *Client) logExchange(resp *resty.Response) {
	if !c.logger.IsDebug() || resp.Request == nil || resp.Request.RawRequest == nil {
		return
	}
	req := resp.Request.RawRequest

	target := req.URL.Path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	c.logger.Debug("HTTP request",
		"method", req.Method,
		"url", target,
		"headers", redactHeaders(req.Header),
	)
	c.logger.Debug("HTTP response",
		"status", resp.Status(),
		"duration", resp.Time().String(),
		"body_size", len(resp.Body()),
	)
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if sensitiveHeaders[strings.ToLower(key)] {
			out[key] = RedactedValue
			continue
		}
		out[key] = strings.Join(values, ",")
	}
	return out
}

// handleError parses error responses from the API and returns a structured APIError
func (c *Client) handleError(resp *resty.Response) error {
	rawBody := string(resp.Body())

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    errResp.Error.Message,
			RawBody:    rawBody,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    rawBody,
		RawBody:    rawBody,
	}
}

// buildPath constructs a URL path with properly escaped segments
func buildPath(segments ...string) string {
	var escaped []string
	for _, seg := range segments {
		if seg != "" {
			escaped = append(escaped, url.PathEscape(seg))
		}
	}
	return strings.Join(escaped, "/")
}

// servicePath returns the path of a resource of a service in the configured project
func (c *Client) servicePath(service string, segments ...string) string {
	return apiProjects + buildPath(append([]string{c.config.Project, service}, segments...)...)
}

// ============================================================================
// WIRE SHAPING
// ============================================================================

// toWire turns a request value into a snake_case object ready to send.
// A nil value yields an empty object.
func toWire(v interface{}, opts ...casing.Option) (*casing.Object, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToEncodeRequest, err)
	}
	var obj casing.Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToEncodeRequest, err)
	}
	return casing.Snake.Object(&obj, opts...), nil
}

// userDataKey holds user-defined data whose keys are never renamed
const userDataKey = "metadata"

// fromWire camelCases a response object. A top-level metadata object is
// user data and comes back with its keys as stored.
func fromWire(obj *casing.Object) *casing.Object {
	out := casing.Camel.Object(obj)
	if userData, ok := obj.Get(userDataKey); ok {
		out.Set(userDataKey, userData)
	}
	return out
}

// toQuery flattens a filter struct into snake_case query parameters.
// Nested values are skipped.
func toQuery(filter interface{}) (map[string]string, error) {
	obj, err := toWire(filter)
	if err != nil {
		return nil, err
	}
	params := make(map[string]string, obj.Len())
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		switch v := value.(type) {
		case nil, *casing.Object, []interface{}:
			continue
		case string:
			params[key] = v
		default:
			params[key] = fmt.Sprint(v)
		}
	}
	return params, nil
}

// ============================================================================
// REQUEST PLUMBING
// ============================================================================

// do sends a request and returns the raw body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body interface{}, failMsg string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}

	if !resp.IsSuccess() {
		return nil, c.handleError(resp)
	}

	return resp.Body(), nil
}

// fetchObject sends a request and returns the camelCased response object
func (c *Client) fetchObject(ctx context.Context, method, path string, query map[string]string, body interface{}, failMsg string) (*casing.Object, error) {
	raw, err := c.do(ctx, method, path, query, body, failMsg)
	if err != nil {
		return nil, err
	}

	var obj casing.Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToDecodeResponse, err)
	}
	return fromWire(&obj), nil
}

// fetchPage lists a resource and returns the normalised page with
// camelCased records
func (c *Client) fetchPage(ctx context.Context, path string, filter interface{}, failMsg string) (paging.Page[*casing.Object], error) {
	query, err := toQuery(filter)
	if err != nil {
		return paging.Page[*casing.Object]{}, err
	}

	raw, err := c.do(ctx, http.MethodGet, path, query, nil, failMsg)
	if err != nil {
		return paging.Page[*casing.Object]{}, err
	}

	var serverPage paging.ServerPage[*casing.Object]
	if err := json.Unmarshal(raw, &serverPage); err != nil {
		return paging.Page[*casing.Object]{}, fmt.Errorf("%s: %w", errmsg.MsgFailedToDecodeResponse, err)
	}

	page := paging.FormatPaginatedDataFromServer(serverPage)
	for i, record := range page.Records {
		page.Records[i] = fromWire(record)
	}
	return page, nil
}

// mapPage applies mapper to each record of a page
func mapPage[T any](page paging.Page[*casing.Object], mapper Mapper[T]) (paging.Page[T], error) {
	out, err := paging.MapRecords(page, func(record *casing.Object) (T, error) {
		return mapper(record)
	})
	if err != nil {
		return paging.Page[T]{}, fmt.Errorf("%s: %w", errmsg.MsgFailedToDecodeResponse, err)
	}
	return out, nil
}

// mapObject applies mapper to a single response object
func mapObject[T any](obj *casing.Object, mapper Mapper[T]) (T, error) {
	out, err := mapper(obj)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", errmsg.MsgFailedToDecodeResponse, err)
	}
	return out, nil
}
