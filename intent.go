package shiftfanout

import (
	"context"
	"strings"
	"unicode"
)

// Intent is the classified meaning of a caregiver's free-text reply.
type Intent struct {
	intent
}

// ParseIntent creates a new [Intent] from the given value. Anything that is
// not a recognised intent name is [Intents].Unknown.
func ParseIntent(i any) Intent {
	switch v := i.(type) {
	case Intent:
		return v
	case string:
		return Intent{stringToIntent(strings.ToUpper(v))}
	default:
		return Intent{intentUnknown}
	}
}

func (i Intent) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *Intent) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*i = ParseIntent(s)
	return nil
}

// Intents may be used to reference an [Intent] value by name.
var Intents = intentContainer{
	Unknown: Intent{intentUnknown},
	Accept:  Intent{intentAccept},
	Decline: Intent{intentDecline},
}

// All returns all possible intents.
func (c intentContainer) All() []Intent {
	return []Intent{c.Unknown, c.Accept, c.Decline}
}

type intent int

const (
	intentUnknown intent = iota
	intentAccept
	intentDecline
)

var (
	strIntentMap = map[intent]string{
		intentUnknown: "UNKNOWN",
		intentAccept:  "ACCEPT",
		intentDecline: "DECLINE",
	}

	typeIntentMap = map[string]intent{
		"UNKNOWN": intentUnknown,
		"ACCEPT":  intentAccept,
		"DECLINE": intentDecline,
	}
)

func (i intent) String() string {
	if s, ok := strIntentMap[i]; ok {
		return s
	}
	return strIntentMap[intentUnknown]
}

func stringToIntent(s string) intent {
	if v, ok := typeIntentMap[s]; ok {
		return v
	}
	return intentUnknown
}

type intentContainer struct {
	Unknown Intent
	Accept  Intent
	Decline Intent
}

// Classifier maps a free-text reply onto an [Intent]. Implementations may call
// out to remote services; an error is treated the same as [Intents].Unknown.
type Classifier interface {
	Classify(ctx context.Context, body string) (Intent, error)
}

// ClassifierFunc is an adapter to allow the use of ordinary functions as a
// [Classifier].
type ClassifierFunc func(ctx context.Context, body string) (Intent, error)

// Classify calls f(ctx, body).
func (f ClassifierFunc) Classify(ctx context.Context, body string) (Intent, error) {
	return f(ctx, body)
}

var (
	declineWords = map[string]bool{
		"no": true, "nope": true, "decline": true, "declined": true,
		"cannot": true, "cant": true, "can't": true, "unavailable": true, "pass": true,
	}
	acceptWords = map[string]bool{
		"yes": true, "y": true, "yeah": true, "yep": true, "accept": true,
		"accepted": true, "ok": true, "okay": true, "sure": true, "claim": true,
	}
)

// KeywordClassifier is the fallback [Classifier]. It looks for well-known
// accept and decline words; a decline word wins over an accept word so that
// "yes, I cannot" is never read as an acceptance.
type KeywordClassifier struct{}

// Classify implements [Classifier].
func (KeywordClassifier) Classify(_ context.Context, body string) (Intent, error) {
	words := strings.FieldsFunc(strings.ToLower(body), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	accepted := false
	for _, w := range words {
		if declineWords[w] {
			return Intents.Decline, nil
		}
		if acceptWords[w] {
			accepted = true
		}
	}
	if accepted {
		return Intents.Accept, nil
	}
	return Intents.Unknown, nil
}
