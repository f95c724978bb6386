package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/di"
	"github.com/mikey/email-domain-verifier/internal/factory"
	"github.com/mikey/email-domain-verifier/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	store factory.ClosableStore,
	service *core.VerifierService,
	sources []core.DomainSource,
	gateways []ports.Gateway,
) error {
	defer logger.Sync()
	defer store.Stop()

	if cfg.GetPopulation().OnStartup {
		populate(logger, service, sources)
	}

	status, err := service.Status(context.Background())
	if err != nil {
		return fmt.Errorf("domain store unavailable: %w", err)
	}
	logger.Info("Domain store ready",
		zap.String("type", cfg.GetStore().Type),
		zap.Int("domains", status.DomainCount),
		zap.Bool("ready", status.Ready))

	if len(gateways) == 0 {
		return fmt.Errorf("no gateways enabled, set server.http.enabled or server.smtp.enabled")
	}

	started := make([]ports.Gateway, 0, len(gateways))
	for _, gw := range gateways {
		if err := gw.Start(); err != nil {
			stopAll(logger, started)
			return fmt.Errorf("failed to start %s gateway: %w", gw.Name(), err)
		}
		started = append(started, gw)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	stopAll(logger, started)

	logger.Info("Shutdown complete")
	return nil
}

// populate loads the configured sources. Failures are logged and the server
// starts with whatever the store already holds.
func populate(logger *zap.Logger, service *core.VerifierService, sources []core.DomainSource) {
	if len(sources) == 0 {
		logger.Info("No domain sources configured, skipping population")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := service.PopulateSources(ctx, sources)
	if err != nil {
		logger.Error("Failed to populate domain store", zap.Error(err))
		return
	}
	logger.Info("Startup population complete",
		zap.Int("sources", len(sources)),
		zap.Int("added", result.Added),
		zap.Int("existing", result.Existing),
		zap.Int("skipped", result.Skipped))
}

func stopAll(logger *zap.Logger, gateways []ports.Gateway) {
	for _, gw := range gateways {
		if err := gw.Stop(); err != nil {
			logger.Error("Failed to stop gateway", zap.String("gateway", gw.Name()), zap.Error(err))
		}
	}
}
