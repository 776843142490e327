package notify

import (
	"context"
	"errors"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/metrics"
	"go.ngs.io/praytimes/internal/usecase"
)

// Errors returned by Run.
var (
	ErrNoJobs   = errors.New("no jobs to schedule")
	ErrNoEvents = errors.New("no scheduled event occurs within a year")
)

// planHorizon bounds how far before its calendar date a firing can occur:
// event hours span roughly -1..+2 days around the date and offsets are
// expected within a day.
const planHorizon = 72 * time.Hour

type firing struct {
	job *Job
	n   Notification
}

// Scheduler fires jobs at the event times of consecutive days.
type Scheduler struct {
	calc      *domain.Calculator
	loc       domain.Location
	jobs      []Job
	formatter *usecase.Formatter
	clock     Clock

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler. formatter renders the TIME value handed
// to notifiers.
func NewScheduler(calc *domain.Calculator, loc domain.Location, jobs []Job, formatter *usecase.Formatter) *Scheduler {
	return &Scheduler{
		calc:      calc,
		loc:       loc,
		jobs:      jobs,
		formatter: formatter,
		clock:     RealClock,
	}
}

// WithClock replaces the wall clock.
func (s *Scheduler) WithClock(c Clock) *Scheduler {
	s.clock = c
	return s
}

// Run plans yesterday, today and then each following day, firing every job
// whose shifted time is still ahead. It returns when ctx is canceled, after
// in-flight notifications finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		return ErrNoJobs
	}
	defer s.wg.Wait()

	start := domain.DateOf(s.clock.Now().UTC()).Prev()
	next, stop := iter.Pull2(domain.Days(s.calc, s.loc, start))
	defer stop()

	var pending []firing
	planned := start.Prev()

	for {
		// Plan every day that could hold a firing before the earliest
		// pending one.
		empty := 0
		for len(pending) == 0 || !planned.Next().Midnight().Add(-planHorizon).After(pending[0].n.At) {
			if empty > 366 {
				return ErrNoEvents
			}
			date, times, ok := next()
			if !ok {
				return nil
			}
			planned = date
			pending = s.plan(pending, date, times)
			if len(pending) == 0 {
				empty++
			}
		}

		f := pending[0]
		pending = pending[1:]

		wait := f.n.At.Sub(s.clock.Now())
		log.Debug().
			Str("prayer", f.n.Prayer.String()).
			Time("at", f.n.At).
			Dur("wait", wait).
			Str("notifier", f.job.Notifier.Name()).
			Msg("waiting for next notification")

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(wait):
		}

		s.fire(ctx, f)
	}
}

// plan appends the firings of one day that are still in the future and
// keeps the slice sorted.
func (s *Scheduler) plan(pending []firing, date domain.CalendarDate, times domain.Times) []firing {
	now := s.clock.Now()
	added := 0
	for i := range s.jobs {
		job := &s.jobs[i]
		event := times.Get(job.Prayer)
		if event == nil {
			continue
		}
		at := event.Add(job.Offset)
		if !at.After(now) {
			continue
		}
		pending = append(pending, firing{
			job: job,
			n: Notification{
				Prayer:    job.Prayer,
				Event:     *event,
				At:        at,
				Diff:      int(job.Offset / time.Second),
				Formatted: s.formatter.Format(at),
			},
		})
		added++
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].n.At.Before(pending[j].n.At) })
	log.Info().Str("date", date.String()).Int("scheduled", added).Msg("planned day")
	return pending
}

func (s *Scheduler) fire(ctx context.Context, f firing) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		name := f.job.Notifier.Name()
		if err := f.job.Notifier.Notify(ctx, f.n); err != nil {
			metrics.NotificationsTotal.WithLabelValues(name, "error").Inc()
			log.Error().Err(err).
				Str("prayer", f.n.Prayer.String()).
				Str("notifier", name).
				Msg("notification failed")
			return
		}
		metrics.NotificationsTotal.WithLabelValues(name, "ok").Inc()
		log.Info().
			Str("prayer", f.n.Prayer.String()).
			Str("notifier", name).
			Str("time", f.n.Formatted).
			Msg("notification sent")
	}()
}
