package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/factory"
	"github.com/mikey/email-domain-verifier/internal/logging"
	"github.com/mikey/email-domain-verifier/internal/ports"
	"github.com/mikey/email-domain-verifier/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the server
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}

	// Register gateways
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.GatewayFactory) []ports.Gateway {
		return f.CreateGateways()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideShared registers everything the server and the CLI have in common.
// Config and logger must already be provided.
func provideShared(container *dig.Container) error {
	// Register factories
	for _, ctor := range []any{
		factory.NewStoreFactory,
		factory.NewHeuristicsFactory,
		factory.NewSourceFactory,
		factory.NewReviewerFactory,
		utils.NewTextProcessor,
	} {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	// Register domain store
	if err := container.Provide(func(f *factory.StoreFactory) (factory.ClosableStore, error) {
		return f.CreateStore(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(s factory.ClosableStore) core.DomainStore {
		return s
	}); err != nil {
		return err
	}

	// Register heuristics
	if err := container.Provide(func(f *factory.HeuristicsFactory) (*core.Heuristics, error) {
		return f.CreateHeuristics(context.Background())
	}); err != nil {
		return err
	}

	// Register domain sources
	if err := container.Provide(func(f *factory.SourceFactory) ([]core.DomainSource, error) {
		return f.CreateSources(context.Background())
	}); err != nil {
		return err
	}

	// Register bulk options
	if err := container.Provide(func(cfg *config.Config) core.BulkOptions {
		bulk := cfg.GetBulk()
		return core.BulkOptions{
			Workers:           bulk.Workers,
			ParallelThreshold: bulk.ParallelThreshold,
		}
	}); err != nil {
		return err
	}

	// Register verifier service
	if err := container.Provide(core.NewVerifierService); err != nil {
		return err
	}

	// Register review service. The reviewer is built lazily since most
	// runs never review.
	if err := container.Provide(func(
		f *factory.ReviewerFactory,
		cfg *config.Config,
		store core.DomainStore,
		logger *zap.Logger,
	) (*core.ReviewService, error) {
		reviewer, err := f.CreateReviewer(context.Background())
		if err != nil {
			return nil, err
		}
		review := cfg.GetReview()
		return core.NewReviewService(reviewer, store, logger, review.Threshold, review.Apply), nil
	}); err != nil {
		return err
	}

	return nil
}
