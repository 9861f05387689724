// Package smsgateway delivers caregiver notifications through an HTTP
// messaging gateway that exposes separate SMS and voice call endpoints.
package smsgateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tomasbasham/shiftfanout"
)

// Ensure Channel implements [shiftfanout.DeliveryChannel].
var _ shiftfanout.DeliveryChannel = (*Channel)(nil)

// ErrUnsupportedTier is returned for tiers the gateway has no endpoint for.
var ErrUnsupportedTier = errors.New("unsupported notification tier")

// Config holds the gateway connection settings.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Channel is a [shiftfanout.DeliveryChannel] backed by the gateway's REST API.
// Transport level retries are left to the HTTP client.
type Channel struct {
	client *resty.Client
	paths  map[shiftfanout.Tier]string
	logger *zap.Logger
}

// New creates a gateway [Channel].
func New(cfg Config, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Channel{
		client: client,
		paths: map[shiftfanout.Tier]string{
			shiftfanout.Tiers.SMS:   "/v1/messages",
			shiftfanout.Tiers.Voice: "/v1/calls",
		},
		logger: logger,
	}
}

// Send implements [shiftfanout.DeliveryChannel].
func (c *Channel) Send(ctx context.Context, tier shiftfanout.Tier, address, message string) error {
	path, ok := c.paths[tier]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedTier, tier)
	}

	var (
		result  sendResponse
		failure errorResponse
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sendRequest{To: address, Body: message}).
		SetResult(&result).
		SetError(&failure).
		Post(path)
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", tier, address, err)
	}

	if resp.IsError() {
		c.logger.Warn("Gateway rejected notification",
			zap.Stringer("tier", tier),
			zap.String("to", address),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("error", failure.Error),
		)
		return fmt.Errorf("send %s to %s: gateway returned %d: %s", tier, address, resp.StatusCode(), failure.Error)
	}

	c.logger.Debug("Notification accepted by gateway",
		zap.Stringer("tier", tier),
		zap.String("to", address),
		zap.String("message_id", result.ID),
		zap.String("status", result.Status),
	)
	return nil
}
