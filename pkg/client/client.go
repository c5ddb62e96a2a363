// Package client calls a remote scryptd service and falls back to local
// derivation when the service is unreachable.
//
// A Client is Online until a remote call fails at the transport level. It
// then stays Offline for min(MaxBackoff, consecutiveErrors*BackoffIncrement),
// sending every call straight to the local worker pool. The first call after
// the deadline tries the remote again; one success resets the error count.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ssargent/scryptd/pkg/dispatch"
	"github.com/ssargent/scryptd/pkg/hasher"
	"github.com/ssargent/scryptd/pkg/params"
	"github.com/ssargent/scryptd/pkg/wire"
)

// Default transport and backoff settings
const (
	DefaultConnectTimeout   = 2 * time.Second
	DefaultHeaderTimeout    = 5 * time.Second
	DefaultBodyTimeout      = 5 * time.Second
	DefaultBackoffIncrement = 5 * time.Second
	DefaultMaxBackoff       = 300 * time.Second

	maxResponseSize = 1 << 20
)

// Config holds configuration for a Client
type Config struct {
	// Endpoint is the service base URL, e.g. https://10.0.0.5:8080. Empty
	// means local derivation only.
	Endpoint string

	// FallbackWorkers bounds local derivation. dispatch.AutoWorkers sizes it
	// from the CPU count; 0 disables the fallback.
	FallbackWorkers    int
	MinFallbackWorkers int

	ConnectTimeout time.Duration
	HeaderTimeout  time.Duration
	BodyTimeout    time.Duration

	BackoffIncrement time.Duration
	MaxBackoff       time.Duration

	TLSConfig *tls.Config
}

// DefaultConfig returns a configuration with an automatically sized fallback pool
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:         endpoint,
		FallbackWorkers:  dispatch.AutoWorkers,
		ConnectTimeout:   DefaultConnectTimeout,
		HeaderTimeout:    DefaultHeaderTimeout,
		BodyTimeout:      DefaultBodyTimeout,
		BackoffIncrement: DefaultBackoffIncrement,
		MaxBackoff:       DefaultMaxBackoff,
	}
}

// AvailabilityState is a snapshot of a client's backoff accounting
type AvailabilityState struct {
	ConsecutiveErrors int
	OfflineUntil      time.Time
}

// Client routes each call to the remote service or the local fallback pool.
// It is safe for concurrent use; calls are not serialized, but each remote
// attempt updates the shared backoff state exactly once under mu.
type Client struct {
	endpoint         string
	http             *http.Client
	bodyTimeout      time.Duration
	backoffIncrement time.Duration
	maxBackoff       time.Duration
	fallback         *dispatch.Dispatcher
	logger           *slog.Logger
	now              func() time.Time

	mu    sync.Mutex
	state AvailabilityState
}

// New creates a client. Zero durations in config take their defaults.
func New(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig(config.Endpoint)
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = def.ConnectTimeout
	}
	if config.HeaderTimeout <= 0 {
		config.HeaderTimeout = def.HeaderTimeout
	}
	if config.BodyTimeout <= 0 {
		config.BodyTimeout = def.BodyTimeout
	}
	if config.BackoffIncrement <= 0 {
		config.BackoffIncrement = def.BackoffIncrement
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = def.MaxBackoff
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.HeaderTimeout,
		TLSClientConfig:       config.TLSConfig,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}

	c := &Client{
		endpoint:         strings.TrimRight(config.Endpoint, "/"),
		http:             &http.Client{Transport: transport},
		bodyTimeout:      config.BodyTimeout,
		backoffIncrement: config.BackoffIncrement,
		maxBackoff:       config.MaxBackoff,
		logger:           logger,
		now:              time.Now,
	}

	if config.FallbackWorkers != 0 {
		c.fallback = dispatch.New(hasher.New(), dispatch.Config{
			MinWorkers: config.MinFallbackWorkers,
			MaxWorkers: config.FallbackWorkers,
		}, logger)
	}

	return c
}

// Hash derives an encoded record for data, remotely when possible
func (c *Client) Hash(ctx context.Context, data string, p params.ScryptParams) ([]byte, error) {
	if err := params.Validate(data, p); err != nil {
		return nil, err
	}

	return route(ctx, c, "hash",
		func(ctx context.Context) ([]byte, error) {
			raw, err := c.post(ctx, "/hash", wire.HashRequest{Data: data, ScryptParams: p})
			if err != nil {
				return nil, err
			}
			var encoded string
			if err := json.Unmarshal(raw, &encoded); err != nil {
				return nil, fmt.Errorf("%w: hash result is not a string", ErrTransport)
			}
			record, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("%w: hash result is not base64", ErrTransport)
			}
			return record, nil
		},
		func(ctx context.Context) ([]byte, error) {
			return c.fallback.Hash(ctx, data, p)
		})
}

// Compare reports whether data matches the encoded record, remotely when possible
func (c *Client) Compare(ctx context.Context, data string, encoded []byte) (bool, error) {
	if err := params.ValidateData(data); err != nil {
		return false, err
	}

	return route(ctx, c, "compare",
		func(ctx context.Context) (bool, error) {
			raw, err := c.post(ctx, "/compare", wire.CompareRequest{
				Data: data,
				Hash: base64.StdEncoding.EncodeToString(encoded),
			})
			if err != nil {
				return false, err
			}
			var match bool
			if err := json.Unmarshal(raw, &match); err != nil {
				return false, fmt.Errorf("%w: compare result is not a boolean", ErrTransport)
			}
			return match, nil
		},
		func(ctx context.Context) (bool, error) {
			return c.fallback.Compare(ctx, data, encoded)
		})
}

// Availability returns a copy of the backoff state
func (c *Client) Availability() AvailabilityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close releases the fallback pool and idle connections. Safe to call more than once.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	if c.fallback != nil {
		return c.fallback.Close()
	}
	return nil
}

// route tries remote unless the client is offline, then falls back to
// local. Only transport failures reach the fallback; a service reply with
// an error is returned as is.
func route[T any](ctx context.Context, c *Client, op string, remote, local func(context.Context) (T, error)) (T, error) {
	var remoteErr error

	switch {
	case c.endpoint == "":
		remoteErr = ErrServiceOffline
	case !c.online():
		remoteErr = ErrServiceOffline
		c.logger.Debug("service offline, skipping remote", "op", op)
	default:
		v, err := remote(ctx)
		if err == nil || !errors.Is(err, ErrTransport) {
			c.recordSuccess()
			return v, err
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		state := c.recordFailure()
		c.logger.Warn("remote call failed",
			"op", op,
			"error", err,
			"consecutive_errors", state.ConsecutiveErrors,
			"offline_until", state.OfflineUntil)
		remoteErr = err
	}

	if c.fallback == nil {
		var zero T
		return zero, remoteErr
	}
	return local(ctx)
}

func (c *Client) online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().After(c.state.OfflineUntil)
}

func (c *Client) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ConsecutiveErrors = 0
	c.state.OfflineUntil = time.Time{}
}

func (c *Client) recordFailure() AvailabilityState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.ConsecutiveErrors++
	backoff := time.Duration(c.state.ConsecutiveErrors) * c.backoffIncrement
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	c.state.OfflineUntil = c.now().Add(backoff)
	return c.state
}

// post sends body as JSON and returns the result field of the reply. Any
// failure to obtain a well-formed 200 reply wraps ErrTransport.
func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	bodyTimer := time.AfterFunc(c.bodyTimeout, cancel)
	defer bodyTimer.Stop()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var out wire.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if out.Error != "" {
		return nil, wire.Error(out.Error)
	}
	if len(out.Result) == 0 {
		return nil, fmt.Errorf("%w: reply has no result", ErrTransport)
	}
	return out.Result, nil
}
