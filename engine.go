package shiftfanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// FanoutStatus describes what a call to [Engine.StartFanout] did.
type FanoutStatus string

const (
	FanoutStarted        FanoutStatus = "started"
	FanoutAlreadyClaimed FanoutStatus = "already-claimed"
	FanoutAlreadyStarted FanoutStatus = "already-fanned-out"
)

// FanoutResult is the outcome of [Engine.StartFanout].
type FanoutResult struct {
	Status FanoutStatus `json:"status"`
	Shift  Shift        `json:"shift"`
}

// ClaimResult is the outcome of [Engine.Claim]. Success is true only for the
// single call that moved the shift to claimed.
type ClaimResult struct {
	Success bool  `json:"success"`
	Shift   Shift `json:"shift"`
}

// Engine drives shifts through fanout, escalation and claim.
//
// Every transition on a shift takes that shift's lock for its read-check-write
// sequence, so fanout, escalation and claims on one shift are linearizable
// while distinct shifts proceed in parallel. Notifications for a round are
// delivered while the lock is held; a claim arriving mid-round waits for the
// round to be recorded.
type Engine struct {
	shifts     RecordStore[string, Shift]
	caregivers RecordStore[string, Caregiver]
	locks      LockRegistry[string]

	dispatcher *Dispatcher
	scheduler  *Scheduler
	classifier Classifier
	metrics    MetricsHook

	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// New creates a new [Engine] over the given stores, delivering notifications
// through channel.
func New(shifts RecordStore[string, Shift], caregivers RecordStore[string, Caregiver], channel DeliveryChannel, opts ...Option) *Engine {
	o := newOptions(opts)

	e := &Engine{
		shifts:     shifts,
		caregivers: caregivers,
		dispatcher: newDispatcher(caregivers, channel, o),
		classifier: o.Classifier,
		metrics:    o.Metrics,
		delay:      o.EscalationDelay,
		now:        o.Clock,
		logger:     o.Logger,
	}
	e.scheduler = NewScheduler(e.escalationDue, o.Logger)
	return e
}

// StartFanout sends the SMS round for an open shift that has not been fanned
// out yet, then arms its escalation. On a claimed or already fanned out shift
// it changes nothing and reports the current state.
//
// If a delivery fails the round is abandoned: caregivers reached so far stay
// recorded, the round is not advanced and no escalation is armed. Calling
// StartFanout again resumes with the caregivers that were not reached.
func (e *Engine) StartFanout(ctx context.Context, shiftID string) (FanoutResult, error) {
	if err := e.Health(); err != nil {
		return FanoutResult{}, err
	}

	release := e.locks.Acquire(shiftID)

	shift, ok := e.shifts.Get(shiftID)
	if !ok {
		release()
		return FanoutResult{}, fmt.Errorf("start fanout for %s: %w", shiftID, ErrShiftNotFound)
	}
	if shift.Claimed() {
		release()
		return FanoutResult{Status: FanoutAlreadyClaimed, Shift: shift.Clone()}, nil
	}
	if shift.FanoutRound >= Tiers.SMS.Round() {
		release()
		return FanoutResult{Status: FanoutAlreadyStarted, Shift: shift.Clone()}, nil
	}

	started := e.now()
	shift, contacted, err := e.dispatcher.Dispatch(ctx, Tiers.SMS, shift)
	if err != nil {
		e.shifts.Put(shiftID, shift)
		release()
		e.deliveryFailed(shift, err)
		return FanoutResult{}, fmt.Errorf("start fanout for %s: %w", shiftID, err)
	}

	shift.FanoutRound = Tiers.SMS.Round()
	shift.FanoutStartedAt = started
	e.shifts.Put(shiftID, shift)
	release()

	// The escalation delay runs from the start of fanout, not from the end of
	// delivery.
	delay := max(0, e.delay-e.now().Sub(started))
	if !e.scheduler.Arm(shiftID, delay) {
		e.logger.Warn("Escalation not armed",
			zap.String("shift_id", shiftID),
		)
	}

	e.logger.Info("Fanout started",
		zap.String("shift_id", shiftID),
		zap.String("role", shift.RoleRequired),
		zap.Int("contacted", len(contacted)),
		zap.Duration("escalation_in", delay),
	)

	if e.metrics != nil {
		e.metrics.OnFanout(shift.Clone(), contacted)
	}

	return FanoutResult{Status: FanoutStarted, Shift: shift.Clone()}, nil
}

// Claim assigns the shift to the caregiver if it is still open. Exactly one
// caller ever receives Success for a shift; every later claim, including a
// repeat by the winner, reports false alongside the unchanged shift.
func (e *Engine) Claim(ctx context.Context, shiftID, caregiverID string) (ClaimResult, error) {
	if err := ctx.Err(); err != nil {
		return ClaimResult{}, err
	}
	if _, ok := e.caregivers.Get(caregiverID); !ok {
		return ClaimResult{}, fmt.Errorf("claim %s by %s: %w", shiftID, caregiverID, ErrCaregiverNotFound)
	}

	release := e.locks.Acquire(shiftID)

	shift, ok := e.shifts.Get(shiftID)
	if !ok {
		release()
		return ClaimResult{}, fmt.Errorf("claim %s by %s: %w", shiftID, caregiverID, ErrShiftNotFound)
	}

	won := !shift.Claimed()
	if won {
		shift.Status = StatusClaimed
		shift.AssignedCaregiver = caregiverID
		shift.ClaimedAt = e.now()
		e.shifts.Put(shiftID, shift)
	}
	release()

	if won {
		e.logger.Info("Shift claimed",
			zap.String("shift_id", shiftID),
			zap.String("caregiver_id", caregiverID),
			zap.Int("round", shift.FanoutRound),
		)
	} else {
		e.logger.Debug("Claim rejected, shift already claimed",
			zap.String("shift_id", shiftID),
			zap.String("caregiver_id", caregiverID),
			zap.String("assigned_caregiver", shift.AssignedCaregiver),
		)
	}

	if e.metrics != nil {
		e.metrics.OnClaim(shift.Clone(), caregiverID, won)
	}

	return ClaimResult{Success: won, Shift: shift.Clone()}, nil
}

// Escalate sends the voice round for a shift that is still open and in the
// SMS round, and reports whether the round advanced. A missing shift, a
// claimed shift, or a shift in any other round is left untouched. It is
// normally invoked by the escalation timer armed in StartFanout.
func (e *Engine) Escalate(ctx context.Context, shiftID string) (Shift, bool, error) {
	release := e.locks.Acquire(shiftID)

	shift, ok := e.shifts.Get(shiftID)
	if !ok {
		release()
		return Shift{}, false, nil
	}
	if shift.Claimed() || shift.FanoutRound != Tiers.SMS.Round() {
		release()
		return shift.Clone(), false, nil
	}

	shift, contacted, err := e.dispatcher.Dispatch(ctx, Tiers.Voice, shift)
	if err != nil {
		e.shifts.Put(shiftID, shift)
		release()
		e.deliveryFailed(shift, err)
		return shift.Clone(), false, fmt.Errorf("escalate %s: %w", shiftID, err)
	}

	shift.FanoutRound = Tiers.Voice.Round()
	e.shifts.Put(shiftID, shift)
	release()

	e.logger.Info("Shift escalated",
		zap.String("shift_id", shiftID),
		zap.Stringer("tier", Tiers.Voice),
		zap.Int("contacted", len(contacted)),
	)

	if e.metrics != nil {
		e.metrics.OnEscalate(shift.Clone(), Tiers.SMS, Tiers.Voice, contacted)
	}

	return shift.Clone(), true, nil
}

func (e *Engine) escalationDue(ctx context.Context, shiftID string) {
	shift, escalated, err := e.Escalate(ctx, shiftID)
	if err != nil {
		e.logger.Error("Escalation failed",
			zap.String("shift_id", shiftID),
			zap.Error(err),
		)
		return
	}
	if !escalated {
		e.logger.Debug("Escalation skipped",
			zap.String("shift_id", shiftID),
			zap.String("status", string(shift.Status)),
			zap.Int("round", shift.FanoutRound),
		)
	}
}

func (e *Engine) deliveryFailed(shift Shift, err error) {
	e.logger.Error("Fanout round aborted",
		zap.String("shift_id", shift.ID),
		zap.Int("round", shift.FanoutRound),
		zap.Error(err),
	)

	var derr *DeliveryError
	if e.metrics != nil && errors.As(err, &derr) {
		e.metrics.OnDeliveryFailure(shift.Clone(), derr)
	}
}

// Shift returns a snapshot of the shift.
func (e *Engine) Shift(shiftID string) (Shift, error) {
	shift, ok := e.shifts.Get(shiftID)
	if !ok {
		return Shift{}, fmt.Errorf("get %s: %w", shiftID, ErrShiftNotFound)
	}
	return shift.Clone(), nil
}

// PendingEscalations returns the number of escalation timers still running.
func (e *Engine) PendingEscalations() int {
	return e.scheduler.Pending()
}

// Health returns nil while the engine accepts new fanouts.
func (e *Engine) Health() error {
	if e.scheduler.Closed() {
		return ErrClosed
	}
	return nil
}

// Close stops pending escalation timers and waits for running escalations to
// finish. Claims remain possible after Close; new fanouts do not.
func (e *Engine) Close() {
	e.scheduler.Close()
}
