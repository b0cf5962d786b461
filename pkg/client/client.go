// Package client talks to the HTTP collaborator: it lists records for the data
// table and registers users for the form. Failures come back as *apperr.Error
// so callers can show the fixed message for their kind.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/internal/apicontract"
	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/table"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger attaches a logger. Request bodies are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContract overrides the embedded collaborator contract.
func WithContract(contract *apicontract.Contract) Option {
	return func(c *Client) {
		c.contract = contract
	}
}

// Client is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	contract *apicontract.Contract
}

var _ form.Submitter = (*Client)(nil)

// New returns a client for the collaborator at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must be http or https", baseURL)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.contract == nil {
		contract, err := apicontract.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("client: %w", err)
		}
		c.contract = contract
	}
	return c, nil
}

func (c *Client) operationPath(id, fallback string) string {
	if op, ok := c.contract.Operation(id); ok && op.Path != "" {
		return op.Path
	}
	return fallback
}

// ListRecords fetches one page of records from endpoint, or the contract's
// list path when endpoint is empty.
func (c *Client) ListRecords(ctx context.Context, endpoint string, q table.Query) (table.Page, error) {
	if endpoint == "" {
		endpoint = c.operationPath(apicontract.ListUsers, "/api/users")
	}
	target, err := c.resolve(endpoint, encodeQuery(q))
	if err != nil {
		return table.Page{}, err
	}

	raw, status, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return table.Page{}, err
	}
	if status < 200 || status > 299 {
		return table.Page{}, c.statusError(status, raw)
	}
	return decodePage(raw, q)
}

// Records adapts ListRecords for endpoint to a table.Fetcher.
func (c *Client) Records(endpoint string) table.Fetcher {
	return table.FetchFunc(func(ctx context.Context, q table.Query) (table.Page, error) {
		return c.ListRecords(ctx, endpoint, q)
	})
}

// Register creates a user. The body is checked against the contract before
// anything is sent.
func (c *Client) Register(ctx context.Context, reg form.Registration) (form.User, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return form.User{}, apperr.New(apperr.KindValidation, fmt.Errorf("client: encode registration: %w", err))
	}
	if err := c.contract.ValidateBody(apicontract.CreateUser, body); err != nil {
		var bodyErr *apicontract.BodyError
		field := ""
		if errors.As(err, &bodyErr) {
			field = bodyErr.Field
		}
		return form.User{}, &apperr.Error{Kind: apperr.KindValidation, Field: field, Err: err}
	}

	target, err := c.resolve(c.operationPath(apicontract.CreateUser, "/api/users"), nil)
	if err != nil {
		return form.User{}, err
	}
	raw, status, err := c.do(ctx, http.MethodPost, target, body)
	if err != nil {
		return form.User{}, err
	}
	if status < 200 || status > 299 {
		return form.User{}, c.statusError(status, raw)
	}
	return decodeUser(raw)
}

func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", apperr.New(apperr.KindNetwork, fmt.Errorf("client: parse endpoint %q: %w", endpoint, err))
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		merged := u.Query()
		for k, v := range query {
			merged[k] = v
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) ([]byte, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, apperr.New(apperr.KindNetwork, fmt.Errorf("client: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := apperr.Classify(err)
		c.logger.Debug("client: request failed",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.String("kind", string(kind)),
		)
		return nil, 0, apperr.New(kind, fmt.Errorf("client: %s %s: %w", method, req.URL.Path, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, apperr.New(apperr.Classify(err), fmt.Errorf("client: read body: %w", err))
	}
	c.logger.Debug("client: request completed",
		zap.String("method", method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	return raw, resp.StatusCode, nil
}

// statusError builds the classified error for a non-2xx response. Server
// messages are stripped of markup before they can reach a view.
func (c *Client) statusError(status int, raw []byte) error {
	var payload apperr.Payload
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &payload) != nil {
		return apperr.FromStatus(status, nil)
	}

	payload.Message = validation.SanitizeHTML(payload.Message)
	for field, msgs := range payload.ValidationErrors {
		clean := make([]string, 0, len(msgs))
		for _, msg := range msgs {
			clean = append(clean, validation.SanitizeHTML(msg))
		}
		payload.ValidationErrors[field] = clean
	}
	return apperr.FromStatus(status, &payload)
}

func encodeQuery(q table.Query) url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Sort.Active() {
		values.Set("sortBy", q.Sort.Column)
		dir := q.Sort.Direction
		if dir == "" {
			dir = table.Ascending
		}
		values.Set("sortDirection", string(dir))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return values
}
