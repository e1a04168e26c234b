// Package backendapi is the client for the academic backend that owns the
// non-block, non-CSR schedule rows. This service never stores schedules
// itself; every read and every mutation goes through this client.
package backendapi

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

	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultResource is the backend path segment for this schedule kind.
const DefaultResource = "non-blok-non-csr"

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("backend: not found")

// Config configures a Client.
type Config struct {
	BaseURL  string
	Resource string
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration
}

// Client calls the backend REST API.
type Client struct {
	base     *url.URL
	resource string
	hc       *http.Client
	log      *zap.Logger
}

// New builds a Client. The bearer token, when configured, is attached by an
// oauth2 transport.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url: unsupported scheme %q", base.Scheme)
	}
	resource := strings.Trim(cfg.Resource, "/")
	if resource == "" {
		resource = DefaultResource
	}

	hc := &http.Client{}
	if cfg.Token != "" {
		hc = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	hc.Timeout = cfg.Timeout

	return &Client{base: base, resource: resource, hc: hc, log: logger}, nil
}

// BatchData fetches everything the schedule page of one course needs.
func (c *Client) BatchData(ctx context.Context, kode string) (*BatchData, error) {
	var out BatchData
	if err := c.do(ctx, "batch_data", http.MethodGet, c.path(kode, "batch-data"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores one schedule row.
func (c *Client) Create(ctx context.Context, kode string, p Payload) error {
	return c.do(ctx, "create", http.MethodPost, c.path("jadwal", kode), p, nil)
}

// Update replaces the schedule row with the given id.
func (c *Client) Update(ctx context.Context, kode string, id int64, p Payload) error {
	return c.do(ctx, "update", http.MethodPut, c.path("jadwal", kode, strconv.FormatInt(id, 10)), p, nil)
}

// Delete removes the schedule row with the given id.
func (c *Client) Delete(ctx context.Context, kode string, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, c.path("jadwal", kode, strconv.FormatInt(id, 10)), nil, nil)
}

// Import submits a batch of rows. The backend accepts or rejects the whole
// batch; a rejection carrying a message list is returned as *ValidationError.
func (c *Client) Import(ctx context.Context, kode string, rows []Payload) (*ImportResult, error) {
	if rows == nil {
		rows = []Payload{}
	}
	var res ImportResult
	err := c.do(ctx, "import", http.MethodPost, c.path("jadwal", kode, "import"), importRequest{Data: rows}, &res)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &ValidationError{Status: http.StatusOK, Errors: res.Errors, Message: res.Message}
	}
	return &res, nil
}

// Ping checks that the backend answers at all. Any status below 500 counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) path(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, c.resource)
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return c.base.String() + "/" + strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	start := time.Now()
	defer func() {
		metrics.BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.BackendCalls.WithLabelValues(op, "error").Inc()
		c.log.Warn("backend call failed", zap.String("op", op), zap.String("url", target), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		metrics.BackendCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeFailure(resp.StatusCode, raw)
		outcome := "error"
		var ve *ValidationError
		if errors.As(apiErr, &ve) {
			outcome = "invalid"
		}
		metrics.BackendCalls.WithLabelValues(op, outcome).Inc()
		c.log.Info("backend rejected call",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.Error(apiErr))
		return apiErr
	}

	metrics.BackendCalls.WithLabelValues(op, "ok").Inc()
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// decodeFailure turns a non-2xx response into ErrNotFound, *ValidationError
// or *APIError.
func decodeFailure(status int, raw []byte) error {
	var body failureBody
	_ = json.Unmarshal(raw, &body)

	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, body.text())
	}
	if status == http.StatusUnprocessableEntity {
		return &ValidationError{Status: status, Errors: body.list(), Message: body.Message}
	}
	msg := body.text()
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &APIError{Status: status, Message: msg}
}
