package shiftfanout

import (
	"slices"
	"time"
)

// Status is the lifecycle state of a [Shift]. It only ever moves from
// [StatusOpen] to [StatusClaimed].
type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
)

// Caregiver is a candidate worker. Caregivers are loaded once and never
// mutated by the engine.
type Caregiver struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	Address string `json:"phone"`
}

// Notification records a single successful delivery to a caregiver.
type Notification struct {
	ID          string    `json:"id"`
	CaregiverID string    `json:"caregiver_id"`
	Tier        Tier      `json:"tier"`
	SentAt      time.Time `json:"sent_at"`
}

// Shift is a unit of work open for claiming until exactly one caregiver
// claims it.
type Shift struct {
	ID                string `json:"id"`
	RoleRequired      string `json:"role_required"`
	Status            Status `json:"status"`
	AssignedCaregiver string `json:"assigned_caregiver,omitempty"`

	// FanoutRound is 0 before fanout, 1 once the SMS tier went out and 2 after
	// escalation to voice.
	FanoutRound int `json:"fanout_round"`

	// Contacted holds every caregiver notified in any round, in order of
	// first contact. Membership only grows.
	Contacted     []string       `json:"contacted"`
	Notifications []Notification `json:"notifications,omitempty"`

	FanoutStartedAt time.Time `json:"fanout_started_at,omitzero"`
	ClaimedAt       time.Time `json:"claimed_at,omitzero"`
}

// Clone returns a deep copy of the shift.
func (s Shift) Clone() Shift {
	s.Contacted = slices.Clone(s.Contacted)
	s.Notifications = slices.Clone(s.Notifications)
	return s
}

// Claimed reports whether the shift has been assigned.
func (s Shift) Claimed() bool {
	return s.Status == StatusClaimed
}

// WasContacted reports whether the caregiver has been notified in any round.
func (s Shift) WasContacted(caregiverID string) bool {
	return slices.Contains(s.Contacted, caregiverID)
}

// NotifiedOn reports whether the caregiver has already been notified on the
// given tier.
func (s Shift) NotifiedOn(tier Tier, caregiverID string) bool {
	return slices.ContainsFunc(s.Notifications, func(n Notification) bool {
		return n.Tier == tier && n.CaregiverID == caregiverID
	})
}

// ContactedOn returns the caregivers notified on the given tier, in the
// order they were reached.
func (s Shift) ContactedOn(tier Tier) []string {
	var ids []string
	for _, n := range s.Notifications {
		if n.Tier == tier {
			ids = append(ids, n.CaregiverID)
		}
	}
	return ids
}

// recordContact returns a copy of s with the notification appended. Stored
// slices are never appended to in place.
func (s Shift) recordContact(n Notification) Shift {
	s.Notifications = append(slices.Clone(s.Notifications), n)
	if !slices.Contains(s.Contacted, n.CaregiverID) {
		s.Contacted = append(slices.Clone(s.Contacted), n.CaregiverID)
	}
	return s
}
