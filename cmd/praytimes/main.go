// Package main provides the praytimes command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/adapter/store/elevation"
	"go.ngs.io/praytimes/internal/logging"
	"go.ngs.io/praytimes/internal/usecase"
)

const version = "0.1.0"

// command is one subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer) error
}

func commands() []command {
	return []command{
		{"calculate", "Print the times of one day", runCalculate},
		{"next", "Print the next event", runNext},
		{"daemon", "Run commands at prayer times", runDaemon},
		{"methods", "List calculation methods", runMethods},
		{"token", "Sign an API token for profile writes", runToken},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "-help", "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "-version", "--version", "version":
		fmt.Fprintf(stdout, "praytimes version %s\n", version)
		return 0
	}

	if err := logging.SetupWriter(stderr, getEnv("LOG_LEVEL", "warn"), getEnv("LOG_FORMAT", "console")); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	for _, c := range commands() {
		if c.name != args[0] {
			continue
		}
		if err := c.run(ctx, args[1:], stdout); err != nil {
			fmt.Fprintf(stderr, "praytimes %s: %v\n", c.name, err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "praytimes: unknown command %q\n\n", args[0])
	printUsage(stderr)
	return 2
}

// newCalculationUseCase builds a use case with the optional terrain and
// geoid stores named in the environment.
func newCalculationUseCase() *usecase.CalculationUseCase {
	var elev usecase.ElevationStore
	if path := os.Getenv("ELEVATION_GEBCO_PATH"); path != "" {
		log.Debug().Str("path", path).Msg("using terrain elevation")
		elev = elevation.NewLocalStore(path)
	}
	uc := usecase.NewCalculationUseCase(elev, nil)
	if path := os.Getenv("GEOID_EGM2008_PATH"); path != "" {
		uc.WithGeoid(elevation.NewGeoidStore(path))
	}
	return uc
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Prayer times calculator v%s\n\n", version)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  praytimes <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'praytimes <command> -help' for the flags of a command.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ENVIRONMENT VARIABLES:")
	fmt.Fprintln(w, "  LOG_LEVEL               Log level (default: warn)")
	fmt.Fprintln(w, "  LOG_FORMAT              console or json (default: console)")
	fmt.Fprintln(w, "  ELEVATION_GEBCO_PATH    GEBCO NetCDF file for missing elevations (optional)")
	fmt.Fprintln(w, "  GEOID_EGM2008_PATH      EGM2008 NetCDF file for ellipsoidal elevations (optional)")
	fmt.Fprintln(w, "  JWT_SECRET              Secret used by 'token'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  praytimes calculate -method Tehran -lat 35.6892 -lon 51.389 -elevation 1190")
	fmt.Fprintln(w, "  praytimes calculate -config praytimes.yaml -date 2024-03-20 -json")
	fmt.Fprintln(w, "  praytimes next -config praytimes.json")
	fmt.Fprintln(w, "  praytimes daemon praytimes.json")
}
