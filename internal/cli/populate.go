package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/mikey/email-domain-verifier/internal/adapters/source"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type populateOptions struct {
	files  []string
	urls   []string
	origin string
}

func newPopulateCommand(a *app) *cobra.Command {
	opts := &populateOptions{}

	cmd := &cobra.Command{
		Use:   "populate [domain...]",
		Short: "Load disposable domains into the store",
		Long: `Load disposable domains into the store from arguments, files or URLs.
With no arguments, files or URLs the sources from the configuration are used.

Examples:
  domain-check populate tempmail.org mailinator.com
  domain-check populate -f disposable_domains.txt
  domain-check populate --url https://example.com/disposable.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.invoke(func(
				cfg *config.Config,
				svc *core.VerifierService,
				configured []core.DomainSource,
				logger *zap.Logger,
			) error {
				start := time.Now()

				var (
					result *core.PopulateResult
					err    error
				)
				if len(args) > 0 {
					result, err = svc.PopulateFrom(ctx, opts.origin, args)
					if err != nil {
						return err
					}
				}

				sources := explicitSources(opts, cfg, logger)
				if len(args) == 0 && len(sources) == 0 {
					sources = configured
				}
				if len(sources) > 0 {
					fromSources, err := svc.PopulateSources(ctx, sources)
					if err != nil {
						return err
					}
					result = mergePopulate(result, fromSources)
				}
				if result == nil {
					return fmt.Errorf("nothing to populate: pass domains, --file or --url, or configure population sources")
				}

				out := cmd.OutOrStdout()
				color.New(color.FgGreen, color.Bold).Fprintln(out, "Population complete")
				fmt.Fprintf(out, "  Added:    %d\n", result.Added)
				fmt.Fprintf(out, "  Existing: %d\n", result.Existing)
				fmt.Fprintf(out, "  Skipped:  %d\n", result.Skipped)
				if a.opts.Verbose {
					fmt.Fprintf(out, "  Run ID:   %s\n", result.RunID)
					fmt.Fprintf(out, "  Took:     %v\n", time.Since(start).Round(time.Millisecond))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "Domain list file (repeatable)")
	cmd.Flags().StringSliceVar(&opts.urls, "url", nil, "Domain list URL (repeatable)")
	cmd.Flags().StringVar(&opts.origin, "source", "cli", "Source label recorded for domains passed as arguments")
	return cmd
}

func explicitSources(opts *populateOptions, cfg *config.Config, logger *zap.Logger) []core.DomainSource {
	var sources []core.DomainSource
	for _, path := range opts.files {
		sources = append(sources, source.NewFileSource(path))
	}
	timeout := cfg.GetPopulation().HTTPTimeout
	for _, url := range opts.urls {
		sources = append(sources, source.NewHTTPSource(url, timeout, logger))
	}
	return sources
}

func mergePopulate(a, b *core.PopulateResult) *core.PopulateResult {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &core.PopulateResult{
		RunID:    b.RunID,
		Added:    a.Added + b.Added,
		Existing: a.Existing + b.Existing,
		Skipped:  a.Skipped + b.Skipped,
	}
}
