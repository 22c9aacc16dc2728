package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/pdpkitchen/dashboard/internal/config"
	"github.com/pdpkitchen/dashboard/query"
	"github.com/pdpkitchen/dashboard/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const sweepInterval = time.Minute

func main() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server, restarting")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, closeCache, err := newCache(ctx, c)
	if err != nil {
		return err
	}
	defer closeCache()

	api, err := apiclient.New(c.GetAPIBaseURL(),
		apiclient.WithHTTPClient(&http.Client{Timeout: c.GetAPITimeout()}),
		apiclient.WithMaxAttempts(c.GetMaxAttempts()),
	)
	if err != nil {
		return err
	}

	handler, err := server.New(c, api, cache)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// newCache prefers Redis when REDIS_ADDR is set so every replica shares one
// invalidation generation per group
func newCache(ctx context.Context, c config.Config) (query.Cache, func(), error) {
	if addr := c.GetRedisAddr(); addr != "" {
		redisCache := query.NewRedisCache(addr, c.GetCachePrefix(), c.GetCacheTTL())
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", addr, err)
		}
		log.Info().Str("addr", addr).Msg("Query cache: redis")
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := query.NewMemoryCache(c.GetCacheTTL())
	go sweep(ctx, memoryCache)
	log.Info().Dur("ttl", c.GetCacheTTL()).Msg("Query cache: in memory")
	return memoryCache, func() {}, nil
}

func sweep(ctx context.Context, cache *query.MemoryCache) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := cache.Sweep(); n > 0 {
				log.Debug().Int("entries", n).Msg("Swept query cache")
			}
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
