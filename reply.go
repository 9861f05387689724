package shiftfanout

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReplyOutcome is what handling an inbound reply did.
type ReplyOutcome string

const (
	ReplyClaimed        ReplyOutcome = "claimed"
	ReplyAlreadyClaimed ReplyOutcome = "already-claimed"
	ReplyDeclined       ReplyOutcome = "declined"
	ReplyNotUnderstood  ReplyOutcome = "not-understood"
)

var replyMessages = map[ReplyOutcome]string{
	ReplyClaimed:        "Shift successfully claimed",
	ReplyAlreadyClaimed: "Shift already claimed",
	ReplyDeclined:       "Caregiver declined the shift",
	ReplyNotUnderstood:  "Message not understood",
}

// Message returns the human readable text for the outcome.
func (o ReplyOutcome) Message() string {
	return replyMessages[o]
}

// InboundMessage is a caregiver's reply to a notification.
type InboundMessage struct {
	From    string `json:"from_number"`
	ShiftID string `json:"shift_id"`
	Body    string `json:"body"`
}

// ReplyResult is the outcome of [Engine.HandleReply].
type ReplyResult struct {
	Outcome ReplyOutcome `json:"outcome"`
	Intent  Intent       `json:"intent"`
	Message string       `json:"message"`
	Shift   Shift        `json:"shift"`
}

// HandleReply classifies a caregiver's reply and acts on it. An acceptance
// claims the shift; a decline or an unintelligible reply changes nothing. A
// classifier failure is treated as an unintelligible reply.
func (e *Engine) HandleReply(ctx context.Context, msg InboundMessage) (ReplyResult, error) {
	caregiver, ok := e.caregiverByAddress(msg.From)
	if !ok {
		return ReplyResult{}, fmt.Errorf("reply from %s: %w", msg.From, ErrCaregiverNotFound)
	}

	shift, ok := e.shifts.Get(msg.ShiftID)
	if !ok {
		return ReplyResult{}, fmt.Errorf("reply from %s: %w", msg.From, ErrShiftNotFound)
	}

	intent, err := e.classifier.Classify(ctx, msg.Body)
	if err != nil {
		e.logger.Warn("Reply classification failed",
			zap.String("shift_id", msg.ShiftID),
			zap.String("caregiver_id", caregiver.ID),
			zap.Error(err),
		)
		intent = Intents.Unknown
	}

	var outcome ReplyOutcome
	switch intent {
	case Intents.Accept:
		res, err := e.Claim(ctx, msg.ShiftID, caregiver.ID)
		if err != nil {
			return ReplyResult{}, err
		}
		shift = res.Shift
		outcome = ReplyAlreadyClaimed
		if res.Success {
			outcome = ReplyClaimed
		}
	case Intents.Decline:
		outcome = ReplyDeclined
	default:
		outcome = ReplyNotUnderstood
	}

	e.logger.Debug("Reply handled",
		zap.String("shift_id", msg.ShiftID),
		zap.String("caregiver_id", caregiver.ID),
		zap.Stringer("intent", intent),
		zap.String("outcome", string(outcome)),
	)

	return ReplyResult{
		Outcome: outcome,
		Intent:  intent,
		Message: outcome.Message(),
		Shift:   shift.Clone(),
	}, nil
}

func (e *Engine) caregiverByAddress(address string) (Caregiver, bool) {
	for _, c := range e.caregivers.All() {
		if c.Address == address {
			return c, true
		}
	}
	return Caregiver{}, false
}
