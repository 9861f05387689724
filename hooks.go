package shiftfanout

// MetricsHook defines hooks for monitoring fanout, claim, escalation and
// delivery failure events. Hooks run after the shift lock has been released
// and receive a copy of the shift.
type MetricsHook interface {
	OnFanout(shift Shift, contacted []string)
	OnClaim(shift Shift, caregiverID string, won bool)
	OnEscalate(shift Shift, from, to Tier, contacted []string)
	OnDeliveryFailure(shift Shift, err *DeliveryError)
}

type multiHook []MetricsHook

// MultiHook returns a [MetricsHook] that calls each of hooks in order. Nil
// hooks are skipped.
func MultiHook(hooks ...MetricsHook) MetricsHook {
	var m multiHook
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multiHook) OnFanout(shift Shift, contacted []string) {
	for _, h := range m {
		h.OnFanout(shift.Clone(), contacted)
	}
}

func (m multiHook) OnClaim(shift Shift, caregiverID string, won bool) {
	for _, h := range m {
		h.OnClaim(shift.Clone(), caregiverID, won)
	}
}

func (m multiHook) OnEscalate(shift Shift, from, to Tier, contacted []string) {
	for _, h := range m {
		h.OnEscalate(shift.Clone(), from, to, contacted)
	}
}

func (m multiHook) OnDeliveryFailure(shift Shift, err *DeliveryError) {
	for _, h := range m {
		h.OnDeliveryFailure(shift.Clone(), err)
	}
}
