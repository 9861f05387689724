package shiftfanout

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryChannel transmits a message to a caregiver's address on a tier.
// Send must not return until the delivery has either succeeded or failed.
type DeliveryChannel interface {
	Send(ctx context.Context, tier Tier, address, message string) error
}

// ChannelFunc is an adapter to allow the use of ordinary functions as a
// [DeliveryChannel].
type ChannelFunc func(ctx context.Context, tier Tier, address, message string) error

// Send calls f(ctx, tier, address, message).
func (f ChannelFunc) Send(ctx context.Context, tier Tier, address, message string) error {
	return f(ctx, tier, address, message)
}

// DefaultMessage is the [MessageFormatter] used when none is configured.
func DefaultMessage(tier Tier, shift Shift) string {
	if tier == Tiers.Voice {
		return fmt.Sprintf("Urgent: the %s shift %s is still unfilled. Reply YES to claim it.", shift.RoleRequired, shift.ID)
	}
	return fmt.Sprintf("A %s shift %s is available. Reply YES to claim or NO to decline.", shift.RoleRequired, shift.ID)
}

// Dispatcher notifies the caregivers eligible for a shift on a single tier.
type Dispatcher struct {
	caregivers RecordStore[string, Caregiver]
	channel    DeliveryChannel
	format     MessageFormatter
	now        func() time.Time
	logger     *zap.Logger
}

// NewDispatcher creates a [Dispatcher] drawing candidates from caregivers and
// delivering through channel. Only the logger, clock and formatter options
// apply.
func NewDispatcher(caregivers RecordStore[string, Caregiver], channel DeliveryChannel, opts ...Option) *Dispatcher {
	return newDispatcher(caregivers, channel, newOptions(opts))
}

func newDispatcher(caregivers RecordStore[string, Caregiver], channel DeliveryChannel, o *Options) *Dispatcher {
	return &Dispatcher{
		caregivers: caregivers,
		channel:    channel,
		format:     o.Formatter,
		now:        o.Clock,
		logger:     o.Logger,
	}
}

// Eligible returns the caregivers whose role exactly matches the shift's
// required role, ordered by identifier.
func (d *Dispatcher) Eligible(shift Shift) []Caregiver {
	var eligible []Caregiver
	for _, c := range d.caregivers.All() {
		if c.Role == shift.RoleRequired {
			eligible = append(eligible, c)
		}
	}
	slices.SortFunc(eligible, func(a, b Caregiver) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return eligible
}

// Dispatch sends the tier's notification to every eligible caregiver not yet
// notified on that tier, recording each successful delivery on the returned
// shift. It stops at the first failed delivery and returns a [*DeliveryError]
// alongside the shift as it stood after the last success.
func (d *Dispatcher) Dispatch(ctx context.Context, tier Tier, shift Shift) (Shift, []string, error) {
	message := d.format(tier, shift)

	var contacted []string
	for _, c := range d.Eligible(shift) {
		if shift.NotifiedOn(tier, c.ID) {
			continue
		}

		if err := d.channel.Send(ctx, tier, c.Address, message); err != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("shift_id", shift.ID),
				zap.String("caregiver_id", c.ID),
				zap.Stringer("tier", tier),
				zap.Error(err),
			)
			return shift, contacted, &DeliveryError{
				ShiftID:     shift.ID,
				CaregiverID: c.ID,
				Tier:        tier,
				Err:         err,
			}
		}

		shift = shift.recordContact(Notification{
			ID:          uuid.NewString(),
			CaregiverID: c.ID,
			Tier:        tier,
			SentAt:      d.now(),
		})
		contacted = append(contacted, c.ID)
	}

	d.logger.Debug("Notifications dispatched",
		zap.String("shift_id", shift.ID),
		zap.Stringer("tier", tier),
		zap.Strings("contacted", contacted),
	)
	return shift, contacted, nil
}
