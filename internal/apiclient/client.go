package apiclient

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
	"sync/atomic"
	"time"

	"hrms-lite/internal/shared/apperror"
	"hrms-lite/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=mock
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type httpClient struct {
	baseURL string
	http    *http.Client
	sf      *singleflight.Group
	writes  atomic.Uint64
	logger  *zap.Logger
}

func New(cfg Config, logger ...*zap.Logger) Client {
	l := zap.L().Named("apiclient")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("apiclient")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (c *httpClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	// Identical reads already in flight share one round trip, but never one
	// that started before the latest write. The shared call is detached from
	// the first caller's cancellation; each caller stops waiting on its own.
	key := strconv.FormatUint(c.writes.Load(), 10) + " " + target
	ch := c.sf.DoChan(key, func() (any, error) {
		return c.do(context.WithoutCancel(ctx), http.MethodGet, path, target, nil)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		if res.Shared {
			contextutil.GetLogger(ctx, c.logger).Debug("backend read coalesced", zap.String("url", target))
		}
		return decode(res.Val.([]byte), out)
	}
}

func (c *httpClient) Post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	raw, err := c.write(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *httpClient) Delete(ctx context.Context, path string) error {
	_, err := c.write(ctx, http.MethodDelete, path, nil)
	return err
}

// write sends a mutation. Reads issued after it returns, even a rejected one,
// start a fresh round trip.
func (c *httpClient) write(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	defer c.writes.Add(1)
	return c.do(ctx, method, path, c.baseURL+path, payload)
}

func (c *httpClient) do(ctx context.Context, method, path, target string, payload []byte) ([]byte, error) {
	log := contextutil.GetLogger(ctx, c.logger)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.Header.Set(requestIDHeader, rid)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, apperror.ErrBackendUnavailable.Message, http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Reading the backend response failed", http.StatusBadGateway)
	}

	log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperror.UpstreamError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       raw,
		}
	}
	return raw, nil
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Wrap(err, apperror.CodeUpstream, "The backend returned an unreadable response", http.StatusBadGateway)
	}
	return nil
}
