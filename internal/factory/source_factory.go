package factory

import (
	"context"

	"github.com/mikey/email-domain-verifier/internal/adapters/source"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// SourceFactory creates the domain sources used to populate the store
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSources returns the configured sources: inline domains first, then
// files, URLs and finally the S3 object
func (f *SourceFactory) CreateSources(ctx context.Context) ([]core.DomainSource, error) {
	pop := f.cfg.GetPopulation()

	var sources []core.DomainSource
	if len(pop.Domains) > 0 {
		sources = append(sources, source.NewStaticSource("config", pop.Domains))
	}
	for _, path := range pop.Files {
		sources = append(sources, source.NewFileSource(path))
	}
	for _, url := range pop.URLs {
		sources = append(sources, source.NewHTTPSource(url, pop.HTTPTimeout, f.logger))
	}
	if pop.S3Bucket != "" && pop.S3Key != "" {
		s3Source, err := source.NewS3SourceFromRegion(ctx, pop.S3Region, pop.S3Bucket, pop.S3Key, f.logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s3Source)
	}

	return sources, nil
}
