// Package notify runs commands and publishes messages at prayer times.
package notify

import (
	"context"
	"time"

	"go.ngs.io/praytimes/internal/domain"
)

// Notification describes one firing.
type Notification struct {
	Prayer domain.Prayer
	// Event is the calculated event time.
	Event time.Time
	// At is Event shifted by the job offset.
	At time.Time
	// Diff is the job offset in seconds.
	Diff int
	// Formatted is At rendered with the configured format and zone.
	Formatted string
}

// Notifier delivers notifications.
type Notifier interface {
	// Name labels the notifier in logs and metrics.
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// Job fires Notifier at Prayer shifted by Offset.
type Job struct {
	Prayer   domain.Prayer
	Offset   time.Duration
	Notifier Notifier
}

// Clock abstracts time for the scheduler.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}
