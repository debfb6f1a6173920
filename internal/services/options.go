// Package services contains the store's business logic. UserService handles
// accounts and credentials, PredictionService handles classification
// history. Every public operation runs in its own transaction.
package services

import "time"

type options struct {
	now func() time.Time
}

// Option customizes a service.
type Option func(*options)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
