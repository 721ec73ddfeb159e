// Package upstream fetches resolved media URLs from the video CDN.
package upstream

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/domain/repository"
)

// DefaultUserAgent is sent with every upstream request; some CDNs reject
// requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const maxRedirects = 10

// ClientConfig holds configuration for the upstream media client.
type ClientConfig struct {
	UserAgent string
	// ProbeTimeout bounds the whole HEAD size probe.
	ProbeTimeout time.Duration
	// ConnectTimeout bounds dialing and waiting for response headers.
	// The body of a streaming GET has no total deadline.
	ConnectTimeout time.Duration
	// AllowedHosts limits where redirects may lead. Empty allows any host.
	AllowedHosts []string
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		UserAgent:      DefaultUserAgent,
		ProbeTimeout:   5 * time.Second,
		ConnectTimeout: 30 * time.Second,
	}
}

// Client implements repository.MediaSource using resty.
type Client struct {
	resty        *resty.Client
	probeTimeout time.Duration
}

// Compile-time verification that Client implements repository.MediaSource.
var _ repository.MediaSource = (*Client)(nil)

// NewClient creates a new upstream media client.
func NewClient(cfg ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaults.ConnectTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ConnectTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		// Relay bytes exactly as served so Content-Length stays accurate.
		DisableCompression: true,
	}

	rc := resty.New().
		SetTransport(transport).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRedirectPolicy(redirectPolicy(cfg.AllowedHosts))

	return &Client{
		resty:        rc,
		probeTimeout: cfg.ProbeTimeout,
	}
}

func redirectPolicy(allowed []string) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if !model.HostAllowed(req.URL.Hostname(), allowed) {
			return fmt.Errorf("%w: redirect to %s", model.ErrMediaHostNotAllowed, req.URL.Hostname())
		}
		return nil
	})
}

// Probe issues a HEAD request and returns the advertised Content-Length.
// Redirects are followed. A missing or unparseable length yields 0.
func (c *Client) Probe(ctx context.Context, mediaURL string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	resp, err := c.resty.R().SetContext(ctx).Head(mediaURL)
	if err != nil {
		return 0, fmt.Errorf("%w: head: %v", repository.ErrUpstreamUnavailable, err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("%w: head: %s", repository.ErrUpstreamStatus, resp.Status())
	}

	if raw := resp.Header().Get("Content-Length"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	if resp.RawResponse != nil && resp.RawResponse.ContentLength > 0 {
		return resp.RawResponse.ContentLength, nil
	}
	return 0, nil
}

// Open starts a streaming GET. The returned body must be closed by the caller.
// Cancelling ctx aborts the transfer.
func (c *Client) Open(ctx context.Context, mediaURL string) (*repository.MediaStream, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(mediaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUpstreamUnavailable, err)
	}

	body := resp.RawBody()
	if !resp.IsSuccess() {
		if body != nil {
			_ = body.Close() // Best effort; the status is what matters
		}
		return nil, fmt.Errorf("%w: %s", repository.ErrUpstreamStatus, resp.Status())
	}

	contentLength := int64(-1)
	if resp.RawResponse != nil {
		contentLength = resp.RawResponse.ContentLength
	}

	return &repository.MediaStream{
		Body:          body,
		ContentLength: contentLength,
		ContentType:   resp.Header().Get("Content-Type"),
	}, nil
}
