// Package shiftfanout matches open shifts to eligible caregivers by notifying
// candidates in successive escalation tiers and granting the shift to
// whichever caregiver claims it first.
//
// Starting a fanout sends a low-urgency notification to every caregiver whose
// role matches the shift, then arms an escalation timer. If the shift is still
// open when the timer fires, the same candidates are contacted again on a
// higher-urgency tier. Claims are serialised per shift, so exactly one
// caregiver ever observes a successful claim no matter how many reply at once.
//
// Every state transition is guarded by the shift's current status and fanout
// round, making repeated fanout requests, late escalations and duplicate
// replies harmless no-ops rather than errors.
package shiftfanout
