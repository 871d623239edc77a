package brackets

import (
	"math/rand"
	"time"
)

// DefaultRetryLimit is the number of rejected draws a rank group tolerates
// before it is declared exhausted.
const DefaultRetryLimit = 5

// Source is the randomness the Swiss generator draws players from.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

type generatorOptions struct {
	retryLimit int
	escalate   bool
	source     Source
	observer   Observer
}

type Option func(*generatorOptions)

func defaultOptions() generatorOptions {
	return generatorOptions{
		retryLimit: DefaultRetryLimit,
		escalate:   true,
		observer:   NopObserver{},
	}
}

func buildOptions(opts []Option) generatorOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.retryLimit <= 0 {
		o.retryLimit = DefaultRetryLimit
	}
	if o.source == nil {
		o.source = NewSource(time.Now().UnixNano())
	}
	if o.observer == nil {
		o.observer = NopObserver{}
	}
	return o
}

// WithRetryLimit sets how many rematch draws a group may reject in a row.
func WithRetryLimit(n int) Option {
	return func(o *generatorOptions) { o.retryLimit = n }
}

// WithEscalation controls whether an exhausted group hands its unpaired
// players down to the next lower rank group instead of failing.
func WithEscalation(enabled bool) Option {
	return func(o *generatorOptions) { o.escalate = enabled }
}

func WithSource(src Source) Option {
	return func(o *generatorOptions) { o.source = src }
}

func WithSeed(seed int64) Option {
	return func(o *generatorOptions) { o.source = NewSource(seed) }
}

func WithObserver(obs Observer) Option {
	return func(o *generatorOptions) { o.observer = obs }
}
