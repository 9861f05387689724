package shiftfanout

import (
	"time"

	"go.uber.org/zap"
)

// DefaultEscalationDelay is how long a shift may stay unclaimed after the SMS
// round before caregivers are called.
const DefaultEscalationDelay = 15 * time.Minute

// MessageFormatter renders the notification text sent on a tier.
type MessageFormatter func(tier Tier, shift Shift) string

// Options holds configuration options for the [Engine].
type Options struct {
	EscalationDelay time.Duration
	Logger          *zap.Logger
	Metrics         MetricsHook
	Classifier      Classifier
	Clock           func() time.Time
	Formatter       MessageFormatter
}

// Option is a function that configures [Options].
type Option func(*Options)

// WithEscalationDelay sets how long after fanout starts an unclaimed shift is
// escalated to the voice tier.
func WithEscalationDelay(d time.Duration) Option {
	return func(o *Options) {
		o.EscalationDelay = d
	}
}

// WithLogger sets the logger for the [Engine].
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetricsHook sets the metrics hook for the [Engine].
func WithMetricsHook(hook MetricsHook) Option {
	return func(o *Options) {
		o.Metrics = hook
	}
}

// WithClassifier sets the classifier used to interpret inbound replies.
func WithClassifier(c Classifier) Option {
	return func(o *Options) {
		o.Classifier = c
	}
}

// WithClock sets the time source used to stamp notifications and claims.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithMessageFormatter overrides the notification text.
func WithMessageFormatter(f MessageFormatter) Option {
	return func(o *Options) {
		o.Formatter = f
	}
}

func newOptions(opts []Option) *Options {
	o := &Options{
		EscalationDelay: DefaultEscalationDelay,
		Logger:          zap.NewNop(),
		Classifier:      KeywordClassifier{},
		Clock:           time.Now,
		Formatter:       DefaultMessage,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Formatter == nil {
		o.Formatter = DefaultMessage
	}
	if o.Classifier == nil {
		o.Classifier = KeywordClassifier{}
	}
	return o
}
