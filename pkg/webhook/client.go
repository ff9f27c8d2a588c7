// Package webhook delivers ledger events to an external HTTP endpoint.
// Delivery is best-effort: a circuit breaker keeps a dead endpoint from
// tying up the caller, and an unconfigured client silently drops events.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

func (c *Client) LoggerComponent() string {
	return "Webhook.Client"
}

func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}

	for _, o := range opts {
		o(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: c.LoggerComponent(),
	})
	c.logger = c.logger.With().Str("component", c.LoggerComponent()).Logger()

	return c, nil
}

type ClientOption func(*Client)

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Notify posts the event. A no-op when no endpoint is configured.
func (c *Client) Notify(ctx context.Context, e *Event) error {
	if !c.Enabled() {
		return nil
	}

	l := c.logger.With().
		Str("kind", e.Kind).
		Str("transaction_id", e.TransactionID).
		Logger()

	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "event encode")
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(err, "request build")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "request send")
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, errors.Errorf("endpoint replied %d", resp.StatusCode)
		}

		return nil, nil
	})
	if err != nil {
		l.Debug().Err(err).Msg("Delivery failed")
		return err
	}

	l.Debug().Msg("Delivered")

	return nil
}
