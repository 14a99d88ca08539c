package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client.
type Client struct {
	zbc.Client
	requestTimeout time.Duration
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	RequestTimeout         time.Duration
	Retry                  RetryConfig
}

// Connect creates the Zeebe client and waits until the gateway answers a
// topology request, retrying per cfg.Retry.
func Connect(ctx context.Context, cfg ClientConfig, notify RetryNotify) (*Client, error) {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig
	}

	zc, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{Client: zc, requestTimeout: cfg.RequestTimeout}
	err = Retry(ctx, cfg.Retry, "zeebe topology", func(ctx context.Context) error {
		if err := c.Ping(ctx); err != nil {
			if !IsTransient(err) {
				return Permanent(err)
			}
			return err
		}
		return nil
	}, notify)
	if err != nil {
		zc.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe gateway at %s: %w", cfg.GatewayAddress, err)
	}
	return c, nil
}

// Ping sends a topology request.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
