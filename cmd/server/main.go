// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/excerpt-config/internal/config"
	"github.com/codr1/excerpt-config/internal/logging"
	"github.com/codr1/excerpt-config/internal/scheduler"
	"github.com/codr1/excerpt-config/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	closer, err := logging.Setup(logging.OptionsFromConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	err = run(cfg)
	_ = closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	startedAt := time.Now()

	configStore, err := store.New(cfg.Storage.ConfigFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create configuration store")
		return err
	}

	if cfg.Storage.AuditCron != "" {
		sched, err := startAudit(cfg.Storage.AuditCron, configStore)
		if err != nil {
			log.Error().Err(err).Msg("Failed to start configuration audit")
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error().Err(err).Msg("Scheduler shutdown failed")
			}
		}()
	}

	server := newServer(cfg, configStore, startedAt)

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Error().Err(err).Str("addr", server.Addr).Msg("Failed to bind listen address")
		return err
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		baseURL := "http://" + listener.Addr().String()
		log.Info().
			Str("addr", listener.Addr().String()).
			Str("env", cfg.App.Environment).
			Str("config_file", configStore.Path()).
			Str("api", baseURL+"/api/config").
			Str("health", baseURL+"/health").
			Msg("Starting server")
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		return err
	}
	return nil
}

func startAudit(cronExpr string, configStore *store.Store) (*scheduler.Service, error) {
	sched, err := scheduler.New()
	if err != nil {
		return nil, err
	}
	if _, err := sched.RegisterConfigAudit(cronExpr, configStore); err != nil {
		_ = sched.Stop()
		return nil, err
	}
	sched.Start()
	return sched, nil
}
