// Package redisevents publishes shift lifecycle events to a Redis stream so
// that other services can follow fanout, escalation and claim activity.
package redisevents

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tomasbasham/shiftfanout"
)

// Ensure Publisher implements [shiftfanout.MetricsHook].
var _ shiftfanout.MetricsHook = (*Publisher)(nil)

// DefaultStream is the stream events are appended to when none is configured.
const DefaultStream = "shiftfanout:events"

// Event types written to the "event" field of each stream entry.
const (
	EventFanout          = "fanout"
	EventClaim           = "claim"
	EventClaimRejected   = "claim_rejected"
	EventEscalate        = "escalate"
	EventDeliveryFailure = "delivery_failure"
)

// Publisher is a [shiftfanout.MetricsHook] that appends every lifecycle event
// to a capped Redis stream. Publishing failures are logged and dropped; they
// never affect the shift itself.
type Publisher struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a [Publisher] writing to stream, capped at roughly maxLen
// entries. A maxLen of zero leaves the stream uncapped.
func New(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:  client,
		stream:  stream,
		maxLen:  maxLen,
		timeout: 2 * time.Second,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Publisher) OnFanout(shift shiftfanout.Shift, contacted []string) {
	p.publish(EventFanout, shift, map[string]interface{}{
		"tier":      shiftfanout.Tiers.SMS.String(),
		"contacted": encodeIDs(contacted),
	})
}

func (p *Publisher) OnClaim(shift shiftfanout.Shift, caregiverID string, won bool) {
	event := EventClaim
	if !won {
		event = EventClaimRejected
	}
	p.publish(event, shift, map[string]interface{}{
		"caregiver_id":       caregiverID,
		"assigned_caregiver": shift.AssignedCaregiver,
	})
}

func (p *Publisher) OnEscalate(shift shiftfanout.Shift, from, to shiftfanout.Tier, contacted []string) {
	p.publish(EventEscalate, shift, map[string]interface{}{
		"from":      from.String(),
		"tier":      to.String(),
		"contacted": encodeIDs(contacted),
	})
}

func (p *Publisher) OnDeliveryFailure(shift shiftfanout.Shift, err *shiftfanout.DeliveryError) {
	p.publish(EventDeliveryFailure, shift, map[string]interface{}{
		"tier":         err.Tier.String(),
		"caregiver_id": err.CaregiverID,
		"error":        err.Err.Error(),
	})
}

func (p *Publisher) publish(event string, shift shiftfanout.Shift, values map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	values["event"] = event
	values["shift_id"] = shift.ID
	values["status"] = string(shift.Status)
	values["round"] = strconv.Itoa(shift.FanoutRound)
	values["timestamp"] = strconv.FormatInt(p.now().Unix(), 10)

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		p.logger.Warn("Failed to publish shift event",
			zap.String("event", event),
			zap.String("shift_id", shift.ID),
			zap.String("stream", p.stream),
			zap.Error(err),
		)
	}
}

func encodeIDs(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}
