package mexc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"mexc-connector/internal/config"
)

var log = logrus.WithField("component", "mexc")

// Client is the entry point for both product lines. Spot and Futures share one
// transport and one set of credentials; both are safe for concurrent use.
type Client struct {
	cfg       config.MexcConfig
	builder   *RequestBuilder
	transport Transport

	Spot    *Spot
	Futures *Futures
}

type Option func(*clientOptions)

type clientOptions struct {
	transport Transport
	now       func() time.Time
}

// WithTransport replaces the resty transport.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithClock fixes the time source used for signing timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.now = now }
}

func NewClient(cfg config.MexcConfig, opts ...Option) *Client {
	o := clientOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		o.transport = NewRestyTransport(timeout, cfg.ProxyURL)
	}

	creds := Credentials{
		APIKey:    cfg.APIKey,
		APISecret: cfg.SecretKey,
		WebToken:  cfg.WebToken,
	}

	c := &Client{
		cfg:       cfg,
		builder:   NewRequestBuilder(creds, cfg.SpotBaseURL, cfg.FuturesBaseURL, cfg.WebBaseURL, cfg.RecvWindowMs, o.now),
		transport: o.transport,
	}
	c.Spot = &Spot{c: c}
	c.Futures = &Futures{c: c}
	return c
}

// do builds, signs and sends one request.
func (c *Client) do(ctx context.Context, ep Endpoint, params *Params, body []byte, pathArgs ...string) (*Response, error) {
	req, err := c.builder.Build(ep, params, body, pathArgs...)
	if err != nil {
		return nil, err
	}
	return c.transport.Send(ctx, req)
}
