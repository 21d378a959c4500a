package repository

import (
	"time"

	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
)

type options struct {
	now func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithClock sets the clock used for timestamps and open-only filtering.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) evaluator() eligibility.Evaluator {
	return eligibility.Evaluator{Now: o.now}
}
