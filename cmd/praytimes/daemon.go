package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/config"
	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/notify"
	"go.ngs.io/praytimes/internal/usecase"
)

func runDaemon(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage: praytimes daemon <config>")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one config file is required")
	}

	f, err := config.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := f.ValidateDaemon(); err != nil {
		return err
	}

	jobs := shellJobs(f.Commands)
	if f.MQTT != nil {
		notifier, disconnect, err := notify.ConnectMQTT(notify.MQTTOptions{
			Broker:      f.MQTT.Broker,
			ClientID:    f.MQTT.ClientID,
			Username:    f.MQTT.Username,
			Password:    f.MQTT.Password,
			TopicPrefix: f.MQTT.TopicPrefix,
		})
		if err != nil {
			return err
		}
		defer disconnect()
		jobs = append(jobs, mqttJobs(notifier, f.MQTT.TimeDiff)...)
	}

	scheduler, err := newScheduler(f, jobs)
	if err != nil {
		return err
	}

	log.Info().Int("jobs", len(jobs)).Msg("daemon started")
	if err := scheduler.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("daemon stopped")
	return nil
}

func shellJobs(commands []config.Command) []notify.Job {
	jobs := make([]notify.Job, 0, len(commands))
	for _, c := range commands {
		jobs = append(jobs, notify.Job{
			Prayer:   c.Praytime,
			Offset:   c.Offset(),
			Notifier: notify.NewShellNotifier(c.Cmd),
		})
	}
	return jobs
}

// mqttJobs publishes every event.
func mqttJobs(n notify.Notifier, diffSeconds int) []notify.Job {
	jobs := make([]notify.Job, 0, len(domain.Prayers))
	for _, p := range domain.Prayers {
		jobs = append(jobs, notify.Job{
			Prayer:   p,
			Offset:   time.Duration(diffSeconds) * time.Second,
			Notifier: n,
		})
	}
	return jobs
}

func newScheduler(f *config.File, jobs []notify.Job) (*notify.Scheduler, error) {
	params, err := f.Parameters.Resolve()
	if err != nil {
		return nil, err
	}
	var tune domain.TuneOffsets
	if f.Tune != nil {
		tune = *f.Tune
	}

	loc, err := newCalculationUseCase().ResolveLocation(f.Location)
	if err != nil {
		return nil, err
	}

	zone, err := f.DisplayZone().Location()
	if err != nil {
		return nil, err
	}
	format := f.Format
	if format == "" {
		format = usecase.ClockFormat
	}
	formatter, err := usecase.NewFormatter(format, zone)
	if err != nil {
		return nil, err
	}

	return notify.NewScheduler(domain.NewCalculator(params, tune), loc, jobs, formatter), nil
}
