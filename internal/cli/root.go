// Package cli implements the domain-check command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/di"
	"github.com/mikey/email-domain-verifier/internal/factory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersionInfo sets version information
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// app holds the global flags shared by every subcommand
type app struct {
	opts    di.CLIOptions
	noColor bool
	quiet   bool
}

// NewRootCommand builds the command tree writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{opts: di.CLIOptions{Out: out}}

	root := &cobra.Command{
		Use:   "domain-check",
		Short: "Classify email addresses against a disposable domain list",
		Long: `domain-check classifies email addresses as disposable, suspicious or
legitimate using the same store and heuristics as the verifier server.

Examples:
  domain-check check user@tempmail.org
  domain-check bulk -f emails.txt -o results.csv
  domain-check populate -f disposable_domains.txt --store sqlite
  domain-check review quickinbox.example --provider openai`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
		Version: fmt.Sprintf("%s (built %s)", version, buildTime),
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.ConfigFile, "config", "c", "", "config file (default searches ./configs and /etc/email-domain-verifier)")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&a.opts.JSONLog, "json-log", false, "Output logs in JSON format")
	flags.StringVar(&a.opts.StoreType, "store", "", "Override store.type (memory, sqlite, mysql, postgres, redis)")
	flags.StringVar(&a.opts.SQLitePath, "sqlite-path", "", "Override store.sqlite_path")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Quiet mode - minimal output")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newCheckCommand(a),
		newBulkCommand(a),
		newPopulateCommand(a),
		newStatusCommand(a),
		newReviewCommand(a),
	)
	return root
}

// invoke builds the container and runs fn with its dependencies injected.
// The store is stopped afterwards.
func (a *app) invoke(fn any) error {
	container, err := di.BuildCLIContainer(&a.opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = container.Invoke(func(s factory.ClosableStore, logger *zap.Logger) {
			s.Stop()
			_ = logger.Sync()
		})
	}()
	return container.Invoke(fn)
}

// ensurePopulated loads the configured sources into an empty store, so
// checks against the in-memory store see the configured list
func ensurePopulated(ctx context.Context, cfg *config.Config, svc *core.VerifierService, sources []core.DomainSource) error {
	if !cfg.GetPopulation().OnStartup || len(sources) == 0 {
		return nil
	}
	status, err := svc.Status(ctx)
	if err != nil {
		return err
	}
	if status.DomainCount > 0 {
		return nil
	}
	_, err = svc.PopulateSources(ctx, sources)
	return err
}
