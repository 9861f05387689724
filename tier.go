package shiftfanout

import "fmt"

// Tier represents the urgency of a notification round and selects the
// delivery channel used to reach caregivers.
type Tier struct {
	tier
}

// ParseTier creates a new [Tier] from the given value. Fanout rounds map onto
// tiers, so an int is read as a round number.
func ParseTier(t any) Tier {
	switch v := t.(type) {
	case Tier:
		return v
	case string:
		return Tier{stringToTier(v)}
	case fmt.Stringer:
		return Tier{stringToTier(v.String())}
	case int:
		return Tier{tier(v)}
	case int64:
		return Tier{tier(int(v))}
	default:
		return Tier{tierUnknown}
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Tier) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*t = ParseTier(s)
	return nil
}

// Round returns the fanout round a notification on this tier belongs to.
func (t Tier) Round() int {
	if !t.IsValid() {
		return 0
	}
	return int(t.tier)
}

// Tiers may be used to reference a [Tier] value by name.
var Tiers = tierContainer{
	Unknown: Tier{tierUnknown},
	SMS:     Tier{tierSMS},
	Voice:   Tier{tierVoice},
}

// All returns all deliverable tiers in escalation order.
func (c tierContainer) All() []Tier {
	return []Tier{c.SMS, c.Voice}
}

type tier int

const (
	tierUnknown tier = 0
	tierSMS     tier = 1
	tierVoice   tier = 2
)

var (
	strTierMap = map[tier]string{
		tierUnknown: "unknown",
		tierSMS:     "sms",
		tierVoice:   "voice",
	}

	typeTierMap = map[string]tier{
		"unknown": tierUnknown,
		"sms":     tierSMS,
		"voice":   tierVoice,
	}
)

func (t tier) String() string {
	if s, ok := strTierMap[t]; ok {
		return s
	}
	return strTierMap[tierUnknown]
}

func (t tier) IsValid() bool {
	return t == tierSMS || t == tierVoice
}

func stringToTier(s string) tier {
	if v, ok := typeTierMap[s]; ok {
		return v
	}
	return tierUnknown
}

type tierContainer struct {
	Unknown Tier
	SMS     Tier
	Voice   Tier
}
