// Package report sends recovered failures to an external error tracker.
// Enhancement fallbacks and per-endpoint processing errors never fail a job,
// so this is the only place they become visible outside the logs.
package report

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter records errors that were handled locally but are still worth
// tracking. Implementations must be safe for concurrent use.
type Reporter interface {
	CaptureError(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// Nop discards everything. Used when no DSN is configured.
type Nop struct{}

func (Nop) CaptureError(error, map[string]string) {}

func (Nop) Flush(time.Duration) {}

// Sentry forwards captured errors to Sentry.
type Sentry struct{}

// NewSentry initializes the global Sentry client.
func NewSentry(dsn, environment string) (*Sentry, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &Sentry{}, nil
}

func (*Sentry) CaptureError(err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func (*Sentry) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
