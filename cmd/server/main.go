// Package main provides the prayer times HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/adapter/cache"
	"go.ngs.io/praytimes/internal/adapter/store/elevation"
	"go.ngs.io/praytimes/internal/adapter/store/profile"
	"go.ngs.io/praytimes/internal/config"
	httpHandler "go.ngs.io/praytimes/internal/http"
	"go.ngs.io/praytimes/internal/logging"
	"go.ngs.io/praytimes/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("praytimes-server version %s\n", version)
		return
	}

	env, err := config.LoadEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	if err := logging.Setup(env.LogLevel, env.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, env); err != nil {
		log.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, env config.Environment) error {
	log.Info().Str("version", version).Str("addr", env.Addr()).Msg("starting prayer times server")

	// Elevation store (optional, fills missing elevations).
	var elevStore usecase.ElevationStore
	if env.ElevationPath != "" {
		store := elevation.NewLocalStore(env.ElevationPath)
		defer store.Close()
		elevStore = store
		log.Info().Str("path", env.ElevationPath).Msg("elevation store enabled")
	} else {
		log.Info().Msg("elevation store disabled (no data path configured)")
	}

	// Times cache (optional).
	var timesCache usecase.TimesCache
	if env.RedisAddress != "" {
		c, err := cache.NewRedisCache(ctx, cache.Options{
			Address:  env.RedisAddress,
			Username: env.RedisUsername,
			Password: env.RedisPassword,
			TTL:      env.CacheTTL,
		})
		if err != nil {
			return err
		}
		defer c.Close()
		timesCache = c
		log.Info().Str("address", env.RedisAddress).Dur("ttl", env.CacheTTL).Msg("redis cache enabled")
	}

	calcUC := usecase.NewCalculationUseCase(elevStore, timesCache)

	// Geoid store (optional, converts ellipsoidal heights).
	if env.GeoidPath != "" {
		calcUC.WithGeoid(elevation.NewGeoidStore(env.GeoidPath))
		log.Info().Str("path", env.GeoidPath).Msg("geoid store enabled")
	}

	// Profile store (optional).
	var profileUC *usecase.ProfileUseCase
	if env.DatabaseURL != "" {
		store, err := profile.Connect(ctx, env.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RunMigrations(ctx); err != nil {
			return err
		}
		profileUC = usecase.NewProfileUseCase(store, calcUC)
		log.Info().Bool("auth", env.JWTSecret != "").Msg("profile store enabled")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterConfig{
		Calculation:    calcUC,
		Profiles:       profileUC,
		DefaultMethod:  env.DefaultMethod,
		JWTSecret:      env.JWTSecret,
		AllowedOrigins: env.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              env.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Prayer Times API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  praytimes-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  ENV_FILE                .env file to load (default: .env)")
	fmt.Println("  HOST                    Listen host (default: all interfaces)")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  DEFAULT_METHOD          Method used when a query names none (default: MWL)")
	fmt.Println("  ELEVATION_GEBCO_PATH    Path to GEBCO NetCDF file (optional, fills missing elevations)")
	fmt.Println("  GEOID_EGM2008_PATH      Path to EGM2008 geoid NetCDF file (optional, for ellipsoidal heights)")
	fmt.Println("  DATABASE_URL            PostgreSQL URL for stored profiles (optional)")
	fmt.Println("  JWT_SECRET              Secret required to write profiles (optional)")
	fmt.Println("  REDIS_ADDRESS           Redis address for the times cache (optional)")
	fmt.Println("  REDIS_USERNAME          Redis username")
	fmt.Println("  REDIS_PASSWORD          Redis password")
	fmt.Println("  CACHE_TTL               Cache entry lifetime (default: 24h)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              json or console (default: json)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  praytimes-server")
	fmt.Println()
	fmt.Println("  # Start server on custom port")
	fmt.Println("  PORT=3000 praytimes-server")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET    /health                       Health check")
	fmt.Println("  GET    /metrics                      Prometheus metrics")
	fmt.Println("  GET    /v1/methods                   List calculation methods")
	fmt.Println("  GET    /v1/times                     Times of one day")
	fmt.Println("  POST   /v1/calculate                 Times of one day (JSON body)")
	fmt.Println("  GET    /v1/next                      Next event")
	fmt.Println("  GET    /v1/profiles                  List stored profiles (if configured)")
	fmt.Println("  GET    /v1/profiles/:name            Get a stored profile")
	fmt.Println("  GET    /v1/profiles/:name/times      Times for a stored profile")
	fmt.Println("  PUT    /v1/profiles/:name            Save a profile")
	fmt.Println("  DELETE /v1/profiles/:name            Delete a profile")
	fmt.Println()
}
