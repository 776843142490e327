package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"go.ngs.io/praytimes/internal/config"
	"go.ngs.io/praytimes/internal/usecase"
)

func runNext(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("next", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON or YAML configuration file (required)")
	format := fs.String("format", "", "strftime format (default: %T)")
	nowStr := fs.String("now", "", "Reference time as RFC3339 (default: now)")
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *configPath == "" {
		return errors.New("-config is required")
	}

	f, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var now time.Time
	if *nowStr != "" {
		if now, err = time.Parse(time.RFC3339, *nowStr); err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
	}

	req := f.NextRequest(now)
	if *format != "" {
		req.Format = *format
	}
	if req.Format == "" {
		req.Format = usecase.ClockFormat
	}

	next, ok, err := newCalculationUseCase().Next(ctx, req)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no upcoming event")
	}
	fmt.Fprintf(stdout, "%s: %s\n", next.Prayer, next.Time)
	return nil
}
