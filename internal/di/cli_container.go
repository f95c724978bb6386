package di

import (
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-domain-verifier/internal/adapters/filter"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/logging"
)

// CLIOptions carries the global command line flags into the container
type CLIOptions struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
	Out        io.Writer

	// Overrides applied on top of the config file when set
	StoreType      string
	SQLitePath     string
	ReviewProvider string
	ReviewApply    bool
}

// BuildCLIContainer creates and configures a dependency injection container
// for the command line tool
func BuildCLIContainer(opts *CLIOptions) (*dig.Container, error) {
	container := dig.New()

	// Register options
	if err := container.Provide(func() *CLIOptions { return opts }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(opts *CLIOptions) (*zap.Logger, error) {
		return logging.InitConsoleLogger(opts.Verbose, opts.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(opts *CLIOptions, logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadCLIConfig(opts)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}

	// Register CLI filter
	if err := container.Provide(func(opts *CLIOptions, svc *core.VerifierService, logger *zap.Logger) *filter.CLIFilter {
		return filter.NewCLIFilter(svc, logger, opts.Out, opts.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

func loadCLIConfig(opts *CLIOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.NewFromFile(opts.ConfigFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return nil, err
	}

	if opts.StoreType != "" {
		cfg.Set("store.type", opts.StoreType)
	}
	if opts.SQLitePath != "" {
		cfg.Set("store.sqlite_path", opts.SQLitePath)
	}
	if opts.ReviewProvider != "" {
		cfg.Set("review.provider", opts.ReviewProvider)
	}
	if opts.ReviewApply {
		cfg.Set("review.apply", true)
	}
	return cfg, nil
}
