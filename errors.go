package shiftfanout

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup failure.
	ErrNotFound = errors.New("not found")

	ErrShiftNotFound     = fmt.Errorf("shift %w", ErrNotFound)
	ErrCaregiverNotFound = fmt.Errorf("caregiver %w", ErrNotFound)

	// ErrClosed is returned once the engine's scheduler has been closed.
	ErrClosed = errors.New("engine closed")
)

// DeliveryError reports a delivery channel failure for one candidate. The
// remainder of that round is abandoned; contacts made before the failure are
// kept.
type DeliveryError struct {
	ShiftID     string
	CaregiverID string
	Tier        Tier
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s notification for shift %s to caregiver %s: %v",
		e.Tier, e.ShiftID, e.CaregiverID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
